package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/auth"
	"github.com/fivetwenty-io/graph-client/internal/client"
	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/fbclient"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	// Multi-profile configuration
	Profiles       map[string]*ProfileConfig `json:"profiles,omitempty"        yaml:"profiles,omitempty"`
	CurrentProfile string                    `json:"current_profile,omitempty" yaml:"current_profile,omitempty"`

	// Global settings
	Output  string `json:"output"   yaml:"output"`
	NoColor bool   `json:"no_color" yaml:"no_color"`

	// Legacy flat fields for backward compatibility (will be migrated
	// into the profiles map)
	AppID       string `json:"app_id,omitempty"       yaml:"app_id,omitempty"`
	AppSecret   string `json:"app_secret,omitempty"   yaml:"app_secret,omitempty"`
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	APIVersion  string `json:"api_version,omitempty"  yaml:"api_version,omitempty"`
}

// ProfileConfig represents configuration for a single Facebook app.
type ProfileConfig struct {
	AppID             string     `json:"app_id,omitempty"           yaml:"app_id,omitempty"`
	AppSecret         string     `json:"app_secret,omitempty"       yaml:"app_secret,omitempty"`
	AccessToken       string     `json:"access_token,omitempty"     yaml:"access_token,omitempty"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	LastRefreshed     *time.Time `json:"last_refreshed,omitempty"   yaml:"last_refreshed,omitempty"`
	APIVersion        string     `json:"api_version,omitempty"      yaml:"api_version,omitempty"`
	UserID            string     `json:"user_id,omitempty"          yaml:"user_id,omitempty"`
	AppSecretProof    bool       `json:"app_secret_proof"           yaml:"app_secret_proof"`
	SkipSSLValidation bool       `json:"skip_ssl_validation"        yaml:"skip_ssl_validation"`
}

// DefaultProfileName keys the profile that legacy flat configs migrate into.
const DefaultProfileName = "default"

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage fbgraph CLI configuration including profiles and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var profileFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration (global or profile-specific)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// If --profile flag is provided, show only that profile
			if profileFlag != "" {
				return showProfileConfig(config, profileFlag)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(redactedConfig(config))
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(redactedConfig(config))
			default:
				return displayConfigTable(config)
			}
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "", "show configuration for a specific profile")

	return cmd
}

func newConfigSetCommand() *cobra.Command {
	var profileFlag string

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value (global or profile-specific)",
		Args:  cobra.ExactArgs(constants.TwoArgumentsRequired),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			// If --profile flag is provided, set profile-specific configuration
			if profileFlag != "" {
				return setProfileConfig(config, profileFlag, key, value)
			}

			// Otherwise set global configuration
			return setGlobalConfig(config, key, value)
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "", "target a specific profile")

	return cmd
}

func newConfigUnsetCommand() *cobra.Command {
	var profileFlag string

	cmd := &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value (global or profile-specific)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			if profileFlag != "" {
				return unsetProfileConfig(config, profileFlag, key)
			}

			return unsetGlobalConfig(config, key)
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "", "target a specific profile")

	return cmd
}

func newConfigClearCommand() *cobra.Command {
	var profileFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove all configuration settings (global or profile-specific)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if profileFlag != "" {
				return clearProfileConfig(config, profileFlag)
			}

			configFile := viper.ConfigFileUsed()
			if configFile == "" {
				home, _ := os.UserHomeDir()
				configFile = filepath.Join(home, ".fbgraph", "config.yml")
			}

			err := os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			return outputConfigUpdateResult("Cleared", "all configuration", "", "")
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "", "clear configuration for a specific profile only")

	return cmd
}

func loadConfig() *Config {
	config := createBaseConfig()

	loadProfileConfigurations(config)
	handleLegacyMigration(config)

	return config
}

// createBaseConfig creates a base config with global settings and legacy fields.
func createBaseConfig() *Config {
	return &Config{
		// Global settings
		Output:  viper.GetString("output"),
		NoColor: viper.GetBool("no_color"),

		// Initialize profiles map
		Profiles: make(map[string]*ProfileConfig),

		// Legacy fields for migration
		AppID:       viper.GetString("app_id"),
		AppSecret:   viper.GetString("app_secret"),
		AccessToken: viper.GetString("access_token"),
		APIVersion:  viper.GetString("api_version"),
	}
}

// loadProfileConfigurations loads the multi-profile configuration from viper.
func loadProfileConfigurations(config *Config) {
	config.CurrentProfile = viper.GetString("current_profile")

	profilesRaw := viper.GetStringMap("profiles")
	if profilesRaw == nil {
		return
	}

	for name, profileRaw := range profilesRaw {
		if profileMap, ok := profileRaw.(map[string]interface{}); ok {
			config.Profiles[name] = parseProfileConfig(profileMap)
		}
	}
}

// parseProfileConfig parses a profile configuration from a map.
func parseProfileConfig(profileMap map[string]interface{}) *ProfileConfig {
	profile := &ProfileConfig{}

	parseProfileStringFields(profile, profileMap)
	parseProfileBoolFields(profile, profileMap)
	parseProfileTimestampFields(profile, profileMap)

	return profile
}

func parseProfileStringFields(profile *ProfileConfig, profileMap map[string]interface{}) {
	stringFields := map[string]*string{
		"app_id":       &profile.AppID,
		"app_secret":   &profile.AppSecret,
		"access_token": &profile.AccessToken,
		"api_version":  &profile.APIVersion,
		"user_id":      &profile.UserID,
	}

	for key, field := range stringFields {
		if value, ok := profileMap[key].(string); ok {
			*field = value
		}
	}
}

func parseProfileBoolFields(profile *ProfileConfig, profileMap map[string]interface{}) {
	if proof, ok := profileMap["app_secret_proof"].(bool); ok {
		profile.AppSecretProof = proof
	}

	if skipSSL, ok := profileMap["skip_ssl_validation"].(bool); ok {
		profile.SkipSSLValidation = skipSSL
	}
}

func parseProfileTimestampFields(profile *ProfileConfig, profileMap map[string]interface{}) {
	if expiresAtStr, ok := profileMap["token_expires_at"].(string); ok && expiresAtStr != "" {
		t, err := time.Parse(time.RFC3339, expiresAtStr)
		if err == nil {
			profile.TokenExpiresAt = &t
		}
	}

	if lastRefreshedStr, ok := profileMap["last_refreshed"].(string); ok && lastRefreshedStr != "" {
		t, err := time.Parse(time.RFC3339, lastRefreshedStr)
		if err == nil {
			profile.LastRefreshed = &t
		}
	}
}

// handleLegacyMigration migrates a legacy flat config into the profiles map.
func handleLegacyMigration(config *Config) {
	if (config.AppID != "" || config.AccessToken != "") && len(config.Profiles) == 0 {
		migrateFromLegacyConfig(config)
	}
}

// migrateFromLegacyConfig converts a legacy flat config into a default profile.
func migrateFromLegacyConfig(config *Config) *Config {
	if config.AppID == "" && config.AccessToken == "" {
		return config
	}

	config.Profiles[DefaultProfileName] = &ProfileConfig{
		AppID:       config.AppID,
		AppSecret:   config.AppSecret,
		AccessToken: config.AccessToken,
		APIVersion:  config.APIVersion,
	}
	config.CurrentProfile = DefaultProfileName

	// Clear legacy fields after migration
	config.AppID = ""
	config.AppSecret = ""
	config.AccessToken = ""
	config.APIVersion = ""

	return config
}

func saveConfig() error {
	return saveConfigStruct(loadConfig())
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".fbgraph")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	// Keep a one-time backup of the legacy flat config before the first
	// profile-based save overwrites it.
	if len(config.Profiles) > 0 && (config.AppID != "" || config.AccessToken != "") {
		backupFile := configFile + ".backup"

		_, err := os.Stat(backupFile)
		if os.IsNotExist(err) {
			// configFile is constructed from the user home dir and is not
			// user-controllable
			// #nosec G304
			currentData, err := os.ReadFile(configFile)
			if err == nil {
				_ = os.WriteFile(backupFile, currentData, constants.ConfigFilePerm)
			}
		}
	}

	// Clear legacy fields once profiles carry the configuration
	if len(config.Profiles) > 0 {
		config.AppID = ""
		config.AppSecret = ""
		config.AccessToken = ""
		config.APIVersion = ""
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getCurrentProfile returns the currently selected profile and its name.
func getCurrentProfile() (*ProfileConfig, string, error) {
	config := loadConfig()

	if config.CurrentProfile == "" {
		if len(config.Profiles) == 0 {
			return nil, "", constants.ErrNoProfilesConfigured
		}
		// If no current profile is set but profiles exist, use the first one
		for name := range config.Profiles {
			config.CurrentProfile = name

			break
		}
	}

	profile, exists := config.Profiles[config.CurrentProfile]
	if !exists {
		return nil, "", fmt.Errorf("%w: '%s'", constants.ErrProfileNotFound, config.CurrentProfile)
	}

	return profile, config.CurrentProfile, nil
}

// getProfileByFlag returns the profile selected by flag, or the current one.
func getProfileByFlag(profileFlag string) (*ProfileConfig, string, error) {
	if profileFlag == "" {
		profileFlag = viper.GetString("profile")
	}

	if profileFlag == "" {
		return getCurrentProfile()
	}

	config := loadConfig()

	profile, exists := config.Profiles[profileFlag]
	if !exists {
		return nil, "", fmt.Errorf("%w, use 'fbgraph profiles list' to see available profiles: '%s'",
			constants.ErrProfileNotFound, profileFlag)
	}

	return profile, profileFlag, nil
}

// CreateClient creates a Graph API client from the selected profile,
// applying the --token and --api-version overrides. A client without any
// credentials is still returned because public nodes are readable
// anonymously.
func CreateClient(profileFlag string) (graph.Client, error) {
	profile, profileName, err := getProfileByFlag(profileFlag)
	if err != nil {
		// A bare --token run should work without any configured profile.
		if token := viper.GetString("token"); token != "" {
			return fbclient.NewWithToken(context.Background(), token)
		}

		return nil, err
	}

	graphConfig := buildGraphConfig(profile)

	if profile.AppID != "" && profile.AppSecret != "" {
		tokenManager := createProfileTokenManager(profile, profileName, graphConfig)

		return createClientWithTokenManager(graphConfig, tokenManager)
	}

	graphClient, err := fbclient.New(context.Background(), graphConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph client: %w", err)
	}

	return graphClient, nil
}

func buildGraphConfig(profile *ProfileConfig) *graph.Config {
	graphConfig := &graph.Config{
		AccessToken:          profile.AccessToken,
		AppID:                profile.AppID,
		AppSecret:            profile.AppSecret,
		APIVersion:           profile.APIVersion,
		EnableAppSecretProof: profile.AppSecretProof,
		SkipTLSVerify:        profile.SkipSSLValidation || viper.GetBool("skip_ssl_validation"),
	}

	if token := viper.GetString("token"); token != "" {
		graphConfig.AccessToken = token
	}

	if version := viper.GetString("api_version"); version != "" {
		graphConfig.APIVersion = version
	}

	return graphConfig
}

// createProfileTokenManager builds a token manager that writes extended
// tokens back to the profile.
func createProfileTokenManager(profile *ProfileConfig, profileName string, graphConfig *graph.Config) auth.TokenManager {
	oauthConfig := &auth.OAuthConfig{
		AccessToken: graphConfig.AccessToken,
		AppID:       profile.AppID,
		AppSecret:   profile.AppSecret,
	}

	initialExpiry := time.Time{}
	if profile.TokenExpiresAt != nil {
		initialExpiry = *profile.TokenExpiresAt
	}

	return auth.NewConfigTokenManager(oauthConfig, NewConfigPersister(), profileName,
		graphConfig.AccessToken, initialExpiry)
}

// createClientWithTokenManager creates a client with a custom token manager.
func createClientWithTokenManager(config *graph.Config, tokenManager auth.TokenManager) (graph.Client, error) {
	graphClient, err := client.NewWithTokenManager(config, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client with token manager: %w", err)
	}

	return graphClient, nil
}

// setGlobalConfig sets a global configuration value.
func setGlobalConfig(config *Config, key, value string) error {
	switch key {
	case "output":
		if value != constants.FormatJSON && value != constants.FormatYAML && value != constants.FormatTable {
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
		}

		config.Output = value
	case "no_color":
		config.NoColor = parseBoolValue(value)
	default:
		return fmt.Errorf("unknown configuration key: %s. Use --profile for profile settings", key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Set global", key, value, "")
}

// setProfileConfig sets configuration for a specific profile.
func setProfileConfig(config *Config, profileName, key, value string) error {
	profile, exists := config.Profiles[profileName]
	if !exists {
		return fmt.Errorf("%w, use 'fbgraph profiles list' to see available profiles: '%s'",
			constants.ErrProfileNotFound, profileName)
	}

	switch key {
	case "app_id":
		profile.AppID = value
	case "app_secret":
		profile.AppSecret = value
	case "api_version":
		profile.APIVersion = value
	case "user_id":
		profile.UserID = value
	case "app_secret_proof":
		profile.AppSecretProof = parseBoolValue(value)
	case "skip_ssl_validation":
		profile.SkipSSLValidation = parseBoolValue(value)
	// Token fields are managed by login/logout, not the config command
	case "access_token", "token_expires_at":
		return fmt.Errorf("token fields cannot be set directly. Use 'fbgraph login' instead: %s", key)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	config.Profiles[profileName] = profile

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if key == "app_secret" {
		value = constants.RedactedValue
	}

	return outputConfigUpdateResult("Set", key, value, profileName)
}

// parseBoolValue parses a boolean value from a string.
func parseBoolValue(value string) bool {
	return value == constants.BooleanTrue || value == "1"
}

// unsetGlobalConfig unsets a global configuration value.
func unsetGlobalConfig(config *Config, key string) error {
	switch key {
	case "output":
		config.Output = constants.FormatTable
	case "no_color":
		config.NoColor = false
	default:
		return fmt.Errorf("unknown configuration key: %s. Use --profile for profile settings", key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Unset global", key, "", "")
}

// unsetProfileConfig unsets configuration for a specific profile.
func unsetProfileConfig(config *Config, profileName, key string) error {
	profile, exists := config.Profiles[profileName]
	if !exists {
		return fmt.Errorf("%w, use 'fbgraph profiles list' to see available profiles: '%s'",
			constants.ErrProfileNotFound, profileName)
	}

	switch key {
	case "app_id":
		profile.AppID = ""
	case "app_secret":
		profile.AppSecret = ""
	case "api_version":
		profile.APIVersion = ""
	case "user_id":
		profile.UserID = ""
	case "app_secret_proof":
		profile.AppSecretProof = false
	case "skip_ssl_validation":
		profile.SkipSSLValidation = false
	case "access_token", "token_expires_at":
		return fmt.Errorf("token fields cannot be unset directly. Use 'fbgraph logout' instead: %s", key)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	config.Profiles[profileName] = profile

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Unset", key, "", profileName)
}

// clearProfileConfig clears everything except app credentials for a profile.
func clearProfileConfig(config *Config, profileName string) error {
	profile, exists := config.Profiles[profileName]
	if !exists {
		return fmt.Errorf("%w, use 'fbgraph profiles list' to see available profiles: '%s'",
			constants.ErrProfileNotFound, profileName)
	}

	profile.AccessToken = ""
	profile.TokenExpiresAt = nil
	profile.LastRefreshed = nil
	profile.UserID = ""
	profile.AppSecretProof = false
	profile.SkipSSLValidation = false

	config.Profiles[profileName] = profile

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Cleared configuration for profile", profileName, "", "")
}

// showProfileConfig shows configuration for a specific profile.
func showProfileConfig(config *Config, profileName string) error {
	profile, exists := config.Profiles[profileName]
	if !exists {
		return fmt.Errorf("%w, use 'fbgraph profiles list' to see available profiles: '%s'",
			constants.ErrProfileNotFound, profileName)
	}

	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(redactedProfile(profile))
		if err != nil {
			return fmt.Errorf("failed to encode profile config as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(redactedProfile(profile))
		if err != nil {
			return fmt.Errorf("failed to encode profile config as YAML: %w", err)
		}

		return nil
	default:
		return displayProfileConfigTable(config, profileName, profile)
	}
}

// redactedConfig returns a copy of the config with secrets replaced.
func redactedConfig(config *Config) *Config {
	clone := *config
	clone.Profiles = make(map[string]*ProfileConfig, len(config.Profiles))

	for name, profile := range config.Profiles {
		clone.Profiles[name] = redactedProfile(profile)
	}

	if clone.AppSecret != "" {
		clone.AppSecret = constants.RedactedValue
	}

	if clone.AccessToken != "" {
		clone.AccessToken = constants.RedactedValue
	}

	return &clone
}

// redactedProfile returns a copy of the profile with secrets replaced.
func redactedProfile(profile *ProfileConfig) *ProfileConfig {
	clone := *profile

	if clone.AppSecret != "" {
		clone.AppSecret = constants.RedactedValue
	}

	if clone.AccessToken != "" {
		clone.AccessToken = constants.RedactedValue
	}

	return &clone
}

// displayConfigTable displays the configuration in table format.
func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Output", config.Output})
	_ = table.Append([]string{"No Color", strconv.FormatBool(config.NoColor)})

	if config.CurrentProfile != "" {
		_ = table.Append([]string{"Current Profile", config.CurrentProfile})
	}

	_, _ = os.Stdout.WriteString("Global Configuration:\n")

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return displayProfilesTable(config)
}

func displayProfilesTable(config *Config) error {
	if len(config.Profiles) == 0 {
		_, _ = os.Stdout.WriteString("\nNo profiles configured. Use 'fbgraph profiles add' to add one.\n")

		return nil
	}

	_, _ = os.Stdout.WriteString("\nConfigured Profiles:\n")

	profileTable := tablewriter.NewWriter(os.Stdout)
	profileTable.Header("Name", "App ID", "API Version", "User ID", "Token", "Current")

	for name, profile := range config.Profiles {
		_ = profileTable.Append(buildProfileRow(name, profile, config.CurrentProfile))
	}

	err := profileTable.Render()
	if err != nil {
		return fmt.Errorf("failed to render profiles table: %w", err)
	}

	return nil
}

func buildProfileRow(name string, profile *ProfileConfig, currentProfile string) []string {
	return []string{
		name,
		formatConfigValue(profile.AppID),
		formatConfigValue(profile.APIVersion),
		formatConfigValue(profile.UserID),
		formatTokenPresence(profile.AccessToken),
		formatCurrentIndicator(name == currentProfile),
	}
}

func formatConfigValue(value string) string {
	if value == "" {
		return "-"
	}

	return value
}

func formatTokenPresence(token string) string {
	if token == "" {
		return "-"
	}

	return constants.RedactedValue
}

func formatCurrentIndicator(isCurrent bool) string {
	if isCurrent {
		return constants.CheckMarkSymbol
	}

	return ""
}

// displayProfileConfigTable displays one profile's configuration as a table.
func displayProfileConfigTable(config *Config, profileName string, profile *ProfileConfig) error {
	current := ""
	if profileName == config.CurrentProfile {
		current = " (current)"
	}

	_, _ = fmt.Fprintf(os.Stdout, "Configuration for profile '%s'%s:\n", profileName, current)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"App ID", formatConfigValue(profile.AppID)})

	if profile.AppSecret != "" {
		_ = table.Append([]string{"App Secret", constants.RedactedValue})
	}

	if profile.AccessToken != "" {
		_ = table.Append([]string{"Access Token", constants.RedactedValue})
	}

	if profile.TokenExpiresAt != nil {
		_ = table.Append([]string{"Token Expires At", profile.TokenExpiresAt.Format(time.RFC3339)})
	}

	if profile.LastRefreshed != nil {
		_ = table.Append([]string{"Last Refreshed", profile.LastRefreshed.Format(time.RFC3339)})
	}

	if profile.APIVersion != "" {
		_ = table.Append([]string{"API Version", profile.APIVersion})
	}

	if profile.UserID != "" {
		_ = table.Append([]string{"User ID", profile.UserID})
	}

	if profile.AppSecretProof {
		_ = table.Append([]string{"App Secret Proof", strconv.FormatBool(profile.AppSecretProof)})
	}

	if profile.SkipSSLValidation {
		_ = table.Append([]string{"Skip SSL", strconv.FormatBool(profile.SkipSSLValidation)})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render profile config table: %w", err)
	}

	return nil
}

// outputConfigUpdateResult reports a configuration change in the
// requested output format.
func outputConfigUpdateResult(action, key, value, profileName string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	if value != "" {
		result["value"] = value
	}

	if profileName != "" {
		result["profile"] = profileName
	}

	output := viper.GetString("output")

	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode config result as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode config result as YAML: %w", err)
		}

		return nil
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")

		_ = table.Append([]string{"Action", action})
		_ = table.Append([]string{"Key", key})

		if value != "" {
			_ = table.Append([]string{"Value", value})
		}

		if profileName != "" {
			_ = table.Append([]string{"Profile", profileName})
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render update results table: %w", err)
		}

		return nil
	}
}
