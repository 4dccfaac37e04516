package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/fbclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the fbgraph CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(versionInfo)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(versionInfo)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Version", version)
				_ = table.Append("Commit", commit)
				_ = table.Append("Built", date)

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

// NewAPIVersionCommand creates the api-version command
func NewAPIVersionCommand() *cobra.Command {
	var discover bool

	cmd := &cobra.Command{
		Use:   "api-version",
		Short: "Show the Graph API version in use",
		Long:  "Show the configured Graph API version, optionally probing the live endpoint for the version it actually serves",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				// Version information does not need credentials.
				if !errors.Is(err, constants.ErrNoProfilesConfigured) {
					return err
				}

				client, err = fbclient.NewUnauthenticated(context.Background())
				if err != nil {
					return err
				}
			}

			type apiVersionInfo struct {
				Configured string `json:"configured"     yaml:"configured"`
				Live       string `json:"live,omitempty" yaml:"live,omitempty"`
			}

			info := apiVersionInfo{Configured: client.Version()}

			if discover {
				live, err := client.DiscoverVersion(context.Background())
				if err != nil {
					return fmt.Errorf("failed to discover API version: %w", err)
				}

				info.Live = live
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(info)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(info)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Configured", info.Configured)

				if discover {
					_ = table.Append("Live", info.Live)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&discover, "discover", false, "ask the live API which version it is serving")

	return cmd
}
