package commands_test

import "github.com/spf13/cobra"

// findSubcommand walks a cobra command tree by name, one level per name.
func findSubcommand(cmd *cobra.Command, path ...string) *cobra.Command {
	current := cmd

	for _, name := range path {
		var next *cobra.Command

		for _, child := range current.Commands() {
			if child.Name() == name {
				next = child

				break
			}
		}

		if next == nil {
			return nil
		}

		current = next
	}

	return current
}
