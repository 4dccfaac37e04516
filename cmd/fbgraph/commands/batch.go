package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewBatchCommand creates the batch command
func NewBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Execute a batch of requests",
		Long: `Execute multiple Graph API requests in a single round trip.

The file is a YAML list of requests. Each entry has a method and a
relative_url, plus an optional form-encoded body and a name that later
requests can reference with {result=name:$.field}:

  - method: GET
    relative_url: me?fields=id,name
    name: me
  - method: POST
    relative_url: me/feed
    body: message=Hello`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := readBatchFile(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			responses, err := client.Batch().Execute(ctx, requests)
			if err != nil {
				return fmt.Errorf("batch execution failed: %w", err)
			}

			return renderOutput(responses, func() error {
				return displayBatchResponsesTable(requests, responses)
			})
		},
	}

	return cmd
}

// readBatchFile loads and parses a YAML batch request file.
func readBatchFile(file string) ([]*graph.BatchRequest, error) {
	if file == "" {
		return nil, constants.ErrFileRequired
	}

	if strings.Contains(file, "..") {
		return nil, fmt.Errorf("%w: %s", constants.ErrDirectoryTraversalDetected, file)
	}

	info, err := os.Stat(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", constants.ErrNotRegularFile, file)
	}

	// The path was validated above
	data, err := os.ReadFile(file) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var requests []*graph.BatchRequest
	if err := yaml.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}

	if len(requests) == 0 {
		return nil, constants.ErrEmptyBatchFile
	}

	return requests, nil
}

// displayBatchResponsesTable renders one row per batched request. A nil
// response means the request was skipped because a dependency failed.
func displayBatchResponsesTable(requests []*graph.BatchRequest, responses []*graph.BatchResponse) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Name", "Request", "Code", "Body")

	for index, response := range responses {
		name := constants.NotAvailable

		request := ""
		if index < len(requests) {
			request = requests[index].Method + " " + requests[index].RelativeURL

			if requests[index].Name != "" {
				name = requests[index].Name
			}
		}

		code := "skipped"
		body := ""

		if response != nil {
			code = strconv.Itoa(response.Code)
			body = truncateForDisplay(response.Body)
		}

		_ = table.Append(strconv.Itoa(index+1), name, truncateForDisplay(request), code, body)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
