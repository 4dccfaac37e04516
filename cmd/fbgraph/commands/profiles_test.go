package commands_test

import (
	"testing"

	"github.com/fivetwenty-io/graph-client/cmd/fbgraph/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewProfilesCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewProfilesCommand()
	assert.Equal(t, "profiles", cmd.Use)
	assert.Equal(t, []string{"profile"}, cmd.Aliases)
	assert.Equal(t, "Manage Facebook app profiles", cmd.Short)
	assert.Equal(t, "Add, list, remove, and switch between Facebook app profiles", cmd.Long)

	// Check subcommands are added
	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 5)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "add")
	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "remove")
	assert.Contains(t, commandNames, "use")
	assert.Contains(t, commandNames, "show")
}

func TestProfilesAddCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewProfilesCommand()
	cmd := findSubcommand(root, "add")
	assert.NotNil(t, cmd)
	assert.Equal(t, "add NAME", cmd.Use)
	assert.Equal(t, "Add a new profile", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	// Check flags
	assert.NotNil(t, cmd.Flags().Lookup("app-id"))
	assert.NotNil(t, cmd.Flags().Lookup("app-secret"))
	assert.NotNil(t, cmd.Flags().Lookup("api-version"))
	assert.NotNil(t, cmd.Flags().Lookup("skip-ssl-validation"))
}

func TestProfilesListCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewProfilesCommand()
	cmd := findSubcommand(root, "list")
	assert.NotNil(t, cmd)
	assert.Equal(t, "list", cmd.Use)
	assert.Equal(t, "List all profiles", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}

func TestProfilesRemoveCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewProfilesCommand()
	cmd := findSubcommand(root, "remove")
	assert.NotNil(t, cmd)
	assert.Equal(t, "remove NAME", cmd.Use)
	assert.Equal(t, []string{"delete"}, cmd.Aliases)
	assert.Equal(t, "Remove a profile", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestProfilesUseCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewProfilesCommand()
	cmd := findSubcommand(root, "use")
	assert.NotNil(t, cmd)
	assert.Equal(t, "use NAME", cmd.Use)
	assert.Equal(t, "Switch to a profile", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestProfilesShowCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewProfilesCommand()
	cmd := findSubcommand(root, "show")
	assert.NotNil(t, cmd)
	assert.Equal(t, "show [NAME]", cmd.Use)
	assert.Equal(t, "Show profile details", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}
