package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewProfilesCommand creates the profiles command group.
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "Manage Facebook app profiles",
		Long:    "Add, list, remove, and switch between Facebook app profiles",
	}

	cmd.AddCommand(newProfilesAddCommand())
	cmd.AddCommand(newProfilesListCommand())
	cmd.AddCommand(newProfilesRemoveCommand())
	cmd.AddCommand(newProfilesUseCommand())
	cmd.AddCommand(newProfilesShowCommand())

	return cmd
}

func newProfilesAddCommand() *cobra.Command {
	var (
		appID             string
		appSecret         string
		apiVersion        string
		skipSSLValidation bool
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a new profile",
		Long:  "Add a new Facebook app profile to the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			config := loadConfig()

			if config.Profiles == nil {
				config.Profiles = make(map[string]*ProfileConfig)
			}

			if _, exists := config.Profiles[name]; exists {
				return fmt.Errorf("profile '%s' already exists", name)
			}

			config.Profiles[name] = &ProfileConfig{
				AppID:             appID,
				AppSecret:         appSecret,
				APIVersion:        apiVersion,
				SkipSSLValidation: skipSSLValidation,
			}

			// The first profile becomes the current one
			if config.CurrentProfile == "" {
				config.CurrentProfile = name
				fmt.Printf("Profile '%s' added and set as current\n", name)
			} else {
				fmt.Printf("Profile '%s' added\n", name)
			}

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&appID, "app-id", "", "Facebook application ID")
	cmd.Flags().StringVar(&appSecret, "app-secret", "", "Facebook application secret")
	cmd.Flags().StringVar(&apiVersion, "api-version", "", "Graph API version for this profile")
	cmd.Flags().BoolVar(&skipSSLValidation, "skip-ssl-validation", false, "Skip SSL certificate validation")

	return cmd
}

func newProfilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all profiles",
		Long:  "Display all configured Facebook app profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if len(config.Profiles) == 0 {
				fmt.Println("No profiles configured. Use 'fbgraph profiles add' to add one.")
				return nil
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				type ProfileInfo struct {
					Name       string `json:"name"`
					AppID      string `json:"app_id,omitempty"`
					APIVersion string `json:"api_version,omitempty"`
					UserID     string `json:"user_id,omitempty"`
					HasToken   bool   `json:"has_token"`
					Current    bool   `json:"current"`
				}

				var profiles []ProfileInfo
				for name, profile := range config.Profiles {
					profiles = append(profiles, ProfileInfo{
						Name:       name,
						AppID:      profile.AppID,
						APIVersion: profile.APIVersion,
						UserID:     profile.UserID,
						HasToken:   profile.AccessToken != "",
						Current:    name == config.CurrentProfile,
					})
				}

				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(profiles)

			case constants.FormatYAML:
				redacted := redactedConfig(config)
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(redacted.Profiles)

			default:
				fmt.Println("Configured profiles:")
				for name, profile := range config.Profiles {
					current := ""
					if name == config.CurrentProfile {
						current = " (current)"
					}
					fmt.Printf("  %s%s\n", name, current)
					if profile.AppID != "" {
						fmt.Printf("    App ID:      %s\n", profile.AppID)
					}
					if profile.APIVersion != "" {
						fmt.Printf("    API Version: %s\n", profile.APIVersion)
					}
					if profile.UserID != "" {
						fmt.Printf("    User ID:     %s\n", profile.UserID)
					}
					if profile.AccessToken != "" {
						fmt.Printf("    Token:       %s\n", constants.RedactedValue)
					}
					fmt.Println()
				}
			}

			return nil
		},
	}
}

func newProfilesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"delete"},
		Short:   "Remove a profile",
		Long:    "Remove a Facebook app profile from the configuration",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			config := loadConfig()

			if _, exists := config.Profiles[name]; !exists {
				return fmt.Errorf("%w: '%s'", constants.ErrProfileNotFound, name)
			}

			delete(config.Profiles, name)

			// If this was the current profile, switch to another one
			if config.CurrentProfile == name {
				if len(config.Profiles) > 0 {
					for newName := range config.Profiles {
						config.CurrentProfile = newName
						break
					}
					fmt.Printf("Profile '%s' removed. Current profile switched to '%s'\n", name, config.CurrentProfile)
				} else {
					config.CurrentProfile = ""
					fmt.Printf("Profile '%s' removed. No profiles remaining.\n", name)
				}
			} else {
				fmt.Printf("Profile '%s' removed\n", name)
			}

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return nil
		},
	}
}

func newProfilesUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use NAME",
		Short: "Switch to a profile",
		Long:  "Set a Facebook app profile as the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			config := loadConfig()

			if _, exists := config.Profiles[name]; !exists {
				return fmt.Errorf("%w, use 'fbgraph profiles list' to see available profiles: '%s'",
					constants.ErrProfileNotFound, name)
			}

			config.CurrentProfile = name

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Profile '%s' is now current\n", name)
			return nil
		},
	}
}

func newProfilesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [NAME]",
		Short: "Show profile details",
		Long:  "Display the configuration of a profile (current profile when no name is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			name := config.CurrentProfile
			if len(args) > 0 {
				name = args[0]
			}

			if name == "" {
				return constants.ErrNoProfilesConfigured
			}

			return showProfileConfig(config, name)
		},
	}
}
