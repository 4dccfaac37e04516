package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	var (
		objectType string
		fields     []string
		limit      int
		after      string
		center     string
		distance   int
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search for objects",
		Long:  "Search the Graph API for users, pages, events, groups, or places matching a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			params := graph.NewParams()
			if len(fields) > 0 {
				params = params.WithFields(fields...)
			}

			if limit > 0 {
				params = params.WithLimit(limit)
			}

			if after != "" {
				params = params.WithAfter(after)
			}

			if center != "" {
				params = params.WithParam("center", center)
			}

			if distance > 0 {
				params = params.WithParam("distance", strconv.Itoa(distance))
			}

			ctx := context.Background()

			edge, err := client.Search().Search(ctx, query, objectType, params)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			return renderOutput(edge, func() error {
				if err := renderObjectsTable(edge.Data); err != nil {
					return err
				}

				printPagingSummary(edge.Paging, len(edge.Data))

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&objectType, "type", "place", "object type to search for (user, page, event, group, place, placetopic)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to return for each result")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per page")
	cmd.Flags().StringVar(&after, "after", "", "pagination cursor to continue from")
	cmd.Flags().StringVar(&center, "center", "", "latitude,longitude pair for place searches")
	cmd.Flags().IntVar(&distance, "distance", 0, "search radius in meters around --center")

	return cmd
}
