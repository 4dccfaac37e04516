package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Output format constants.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// titleCaser converts snake_case field names into table headers.
var titleCaser = cases.Title(language.English)

// renderOutput writes data as JSON or YAML per the output setting, or
// calls renderTable for the default table format.
func renderOutput(data interface{}, renderTable func() error) error {
	output := viper.GetString("output")

	switch output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode output as JSON: %w", err)
		}

		return nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode output as YAML: %w", err)
		}

		return nil
	default:
		return renderTable()
	}
}

// renderObjectTable prints one Graph object as a property/value table with
// fields in stable order.
func renderObjectTable(object graph.Object) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		_ = table.Append([]string{headerForField(key), formatFieldValue(object[key])})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render object table: %w", err)
	}

	return nil
}

// renderObjectsTable prints a list of Graph objects, one row each, using
// the union of a few well-known columns.
func renderObjectsTable(objects []graph.Object) error {
	if len(objects) == 0 {
		fmt.Println("No results")

		return nil
	}

	columns := listColumns(objects)

	headers := make([]string, 0, len(columns))
	for _, column := range columns {
		headers = append(headers, headerForField(column))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(headers)

	for _, object := range objects {
		row := make([]string, 0, len(columns))
		for _, column := range columns {
			row = append(row, formatFieldValue(object[column]))
		}

		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render results table: %w", err)
	}

	return nil
}

// listColumns picks the columns for a list table: id first, then the
// well-known descriptive fields any of the objects carry.
func listColumns(objects []graph.Object) []string {
	candidates := []string{"id", "name", "message", "story", "category", "type", "created_time"}
	present := make(map[string]bool)

	for _, object := range objects {
		for _, candidate := range candidates {
			if _, ok := object[candidate]; ok {
				present[candidate] = true
			}
		}
	}

	columns := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if present[candidate] {
			columns = append(columns, candidate)
		}
	}

	if len(columns) == 0 {
		columns = []string{"id"}
	}

	return columns
}

// headerForField converts a Graph field name into a table header.
func headerForField(field string) string {
	switch field {
	case "id":
		return "ID"
	default:
		return titleCaser.String(strings.ReplaceAll(field, "_", " "))
	}
}

// formatFieldValue renders a Graph field value for table display.
func formatFieldValue(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return truncateForDisplay(typed)
	case float64:
		// JSON numbers decode as float64; show integral values without
		// a fraction
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}

		return fmt.Sprintf("%v", typed)
	case bool:
		return fmt.Sprintf("%t", typed)
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}

		return truncateForDisplay(string(data))
	default:
		return truncateForDisplay(fmt.Sprintf("%v", typed))
	}
}

// truncateForDisplay shortens long values for table cells.
func truncateForDisplay(value string) string {
	if len(value) > constants.MessageDisplayLength {
		return value[:constants.MessageDisplayLength-3] + "..."
	}

	return value
}

// confirmAction prompts for confirmation and returns true on y/yes.
func confirmAction(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)

	reader := bufio.NewReader(os.Stdin)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))

	return response == "y" || response == constants.ConfirmationYes
}

// printPagingSummary reports cursor information after a table listing.
func printPagingSummary(paging *graph.Paging, count int) {
	fmt.Printf("\n%d result(s)", count)

	if paging != nil && paging.Next != "" {
		fmt.Print(", more available (use --all or --after)")
	}

	fmt.Println()

	if paging != nil && paging.Cursors != nil && paging.Cursors.After != "" {
		fmt.Printf("Next cursor: %s\n", paging.Cursors.After)
	}
}
