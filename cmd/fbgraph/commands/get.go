package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var (
		fields   []string
		metadata bool
	)

	cmd := &cobra.Command{
		Use:   "get ID [ID...]",
		Short: "Fetch Graph objects",
		Long: `Fetch one or more Graph objects by ID.

With a single ID the object is fetched directly; with several IDs they
are fetched in one request. IDs can be node IDs, usernames, or aliases
such as "me".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			params := graph.NewParams()
			if len(fields) > 0 {
				params = params.WithFields(fields...)
			}

			if metadata {
				params = params.WithMetadata()
			}

			ctx := context.Background()

			if len(args) == 1 {
				object, err := client.Objects().Get(ctx, args[0], params)
				if err != nil {
					return fmt.Errorf("failed to get object: %w", err)
				}

				return renderOutput(object, func() error {
					return renderObjectTable(object)
				})
			}

			objects, err := client.Objects().GetMany(ctx, args, params)
			if err != nil {
				return fmt.Errorf("failed to get objects: %w", err)
			}

			return renderOutput(objects, func() error {
				// Stable order for the per-object tables
				ids := make([]string, 0, len(objects))
				for id := range objects {
					ids = append(ids, id)
				}

				sort.Strings(ids)

				for _, id := range ids {
					fmt.Printf("Object %s:\n", id)

					err := renderObjectTable(objects[id])
					if err != nil {
						return err
					}

					fmt.Println()
				}

				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to request (comma separated)")
	cmd.Flags().BoolVar(&metadata, "metadata", false, "include object metadata and available connections")

	return cmd
}

// NewConnectionsCommand creates the connections command.
func NewConnectionsCommand() *cobra.Command {
	var (
		fields   []string
		limit    int
		after    string
		fetchAll bool
	)

	cmd := &cobra.Command{
		Use:     "connections ID EDGE",
		Aliases: []string{"conn", "edge"},
		Short:   "List a connection of a Graph object",
		Long: `List the objects on a connection (edge) of a Graph object, for
example "me friends" or "<page-id> feed".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID := args[0]
			edgeName := args[1]

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

			ctx := context.Background()

			if fetchAll {
				path := strings.TrimSuffix(objectID, "/") + "/" + edgeName

				items, err := graph.FetchAllEdges[graph.Object](ctx, client.Edges(), path, params,
					graph.DefaultPaginationOptions())
				if err != nil {
					return fmt.Errorf("failed to list connection: %w", err)
				}

				return renderOutput(items, func() error {
					err := renderObjectsTable(items)
					if err != nil {
						return err
					}

					fmt.Printf("\n%d result(s)\n", len(items))

					return nil
				})
			}

			edge, err := client.Edges().List(ctx, objectID, edgeName, params)
			if err != nil {
				return fmt.Errorf("failed to list connection: %w", err)
			}

			return renderOutput(edge, func() error {
				err := renderObjectsTable(edge.Data)
				if err != nil {
					return err
				}

				printPagingSummary(edge.Paging, len(edge.Data))

				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to request for each object")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of objects per page")
	cmd.Flags().StringVar(&after, "after", "", "cursor to start after")
	cmd.Flags().BoolVar(&fetchAll, "all", false, "follow pagination and fetch every page")

	return cmd
}
