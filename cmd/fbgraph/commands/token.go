package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens",
		Long:  "Commands for fetching, extending, and inspecting access tokens",
	}

	cmd.AddCommand(newTokenAppCommand())
	cmd.AddCommand(newTokenExtendCommand())
	cmd.AddCommand(newTokenDebugCommand())
	cmd.AddCommand(newTokenStatusCommand())
	cmd.AddCommand(newTokenParseSignedRequestCommand())

	return cmd
}

func newTokenAppCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "app",
		Short: "Fetch an application access token",
		Long:  "Fetch an application access token using the profile's app credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			token, err := client.Tokens().AppToken(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch app access token: %w", err)
			}

			return renderOutput(token, func() error {
				fmt.Println(token.Value)
				return nil
			})
		},
	}
}

func newTokenExtendCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "extend [TOKEN]",
		Short: "Extend an access token",
		Long:  "Exchange a short-lived token for a long-lived one (the profile token when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, profileName, err := getProfileByFlag(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			token := profile.AccessToken
			if len(args) > 0 {
				token = args[0]
			}

			if token == "" {
				return constants.ErrNoStoredToken
			}

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			extended, err := client.Tokens().Extend(ctx, token)
			if err != nil {
				return fmt.Errorf("failed to extend token: %w", err)
			}

			if save {
				config := loadConfig()
				stored := config.Profiles[profileName]
				stored.AccessToken = extended.Value
				stored.TokenExpiresAt = nil

				if !extended.ExpiresAt.IsZero() {
					stored.TokenExpiresAt = &extended.ExpiresAt
				}

				now := time.Now()
				stored.LastRefreshed = &now

				if err := saveConfigStruct(config); err != nil {
					return fmt.Errorf("failed to save configuration: %w", err)
				}

				fmt.Printf("Extended token stored in profile '%s'\n", profileName)
				return nil
			}

			return renderOutput(extended, func() error {
				fmt.Println(extended.Value)

				if !extended.ExpiresAt.IsZero() {
					fmt.Printf("Expires at: %s\n", extended.ExpiresAt.Format(time.RFC3339))
				}

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the extended token in the profile")

	return cmd
}

func newTokenDebugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "debug [TOKEN]",
		Short: "Inspect a token",
		Long:  "Inspect a token via the debug_token endpoint (the profile token when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, _, err := getProfileByFlag(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			token := profile.AccessToken
			if len(args) > 0 {
				token = args[0]
			}

			if token == "" {
				return constants.ErrNoStoredToken
			}

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			info, err := client.Tokens().Debug(ctx, token)
			if err != nil {
				return fmt.Errorf("failed to inspect token: %w", err)
			}

			return renderOutput(info, func() error {
				return displayDebugTokenTable(info)
			})
		},
	}
}

func displayDebugTokenTable(info *graph.DebugTokenInfo) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"App ID", info.AppID})

	if info.Application != "" {
		_ = table.Append([]string{"Application", info.Application})
	}

	_ = table.Append([]string{"Valid", fmt.Sprintf("%t", info.IsValid)})

	if info.Type != "" {
		_ = table.Append([]string{"Type", info.Type})
	}

	if info.UserID != "" {
		_ = table.Append([]string{"User ID", info.UserID})
	}

	if expiresAt := info.ExpiresAtTime(); !expiresAt.IsZero() {
		_ = table.Append([]string{"Expires At", expiresAt.Format(time.RFC3339)})
	} else {
		_ = table.Append([]string{"Expires At", "never"})
	}

	if info.IssuedAt > 0 {
		_ = table.Append([]string{"Issued At", time.Unix(info.IssuedAt, 0).Format(time.RFC3339)})
	}

	if len(info.Scopes) > 0 {
		_ = table.Append([]string{"Scopes", strings.Join(info.Scopes, ", ")})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render token info table: %w", err)
	}

	return nil
}

func newTokenStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show token status",
		Long:  "Display the stored token's expiration state for the selected profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, profileName, err := getProfileByFlag(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			status := buildTokenStatus(profile, profileName)

			return renderOutput(status, func() error {
				return displayTokenStatusTable(status)
			})
		},
	}
}

func buildTokenStatus(profile *ProfileConfig, profileName string) map[string]interface{} {
	status := map[string]interface{}{
		"profile": profileName,
	}

	if profile.AccessToken == "" {
		status["status"] = "No token"
		status["authenticated"] = false

		return status
	}

	status["status"] = "Token present"
	status["authenticated"] = true

	if profile.TokenExpiresAt != nil {
		status["expires_at"] = profile.TokenExpiresAt.Format(time.RFC3339)

		timeUntilExpiry := time.Until(*profile.TokenExpiresAt)
		switch {
		case timeUntilExpiry <= 0:
			status["expiry_status"] = "Expired"
		case timeUntilExpiry <= time.Hour:
			status["expiry_status"] = "Expires soon"
		default:
			status["expiry_status"] = "Valid"
		}

		status["time_until_expiry"] = timeUntilExpiry.String()
	} else {
		status["expiry_status"] = "Unknown expiration"
	}

	if profile.LastRefreshed != nil {
		status["last_refreshed"] = profile.LastRefreshed.Format(time.RFC3339)
	}

	status["can_extend"] = profile.AppID != "" && profile.AppSecret != ""

	return status
}

func displayTokenStatusTable(status map[string]interface{}) error {
	_, _ = fmt.Fprintf(os.Stdout, "Token status for profile: %s\n\n", status["profile"])

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Authenticated", fmt.Sprintf("%v", status["authenticated"])})
	_ = table.Append([]string{"Status", fmt.Sprintf("%v", status["status"])})

	for _, key := range []string{"expiry_status", "expires_at", "time_until_expiry", "last_refreshed", "can_extend"} {
		if value, ok := status[key]; ok {
			_ = table.Append([]string{headerForField(key), fmt.Sprintf("%v", value)})
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render token status table: %w", err)
	}

	return nil
}

func newTokenParseSignedRequestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-signed-request SIGNED_REQUEST",
		Short: "Parse a signed request",
		Long:  "Verify and decode a signed request using the profile's app secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, _, err := getProfileByFlag(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			if profile.AppSecret == "" {
				return constants.ErrNoAppCredentials
			}

			payload, err := graph.ParseSignedRequest(args[0], profile.AppSecret)
			if err != nil {
				return fmt.Errorf("failed to parse signed request: %w", err)
			}

			return renderOutput(payload, func() error {
				return displaySignedRequestTable(payload)
			})
		},
	}
}

func displaySignedRequestTable(payload *graph.SignedRequestPayload) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Algorithm", payload.Algorithm})

	if payload.UserID != "" {
		_ = table.Append([]string{"User ID", payload.UserID})
	}

	if payload.Code != "" {
		_ = table.Append([]string{"Code", truncateForDisplay(payload.Code)})
	}

	if payload.OAuthToken != "" {
		_ = table.Append([]string{"OAuth Token", constants.RedactedValue})
	}

	if payload.IssuedAt > 0 {
		_ = table.Append([]string{"Issued At", time.Unix(payload.IssuedAt, 0).Format(time.RFC3339)})
	}

	if payload.Expires > 0 {
		_ = table.Append([]string{"Expires", time.Unix(payload.Expires, 0).Format(time.RFC3339)})
	}

	if payload.AppData != "" {
		_ = table.Append([]string{"App Data", truncateForDisplay(payload.AppData)})
	}

	if payload.Page != nil {
		_ = table.Append([]string{"Page ID", payload.Page.ID})
		_ = table.Append([]string{"Page Liked", fmt.Sprintf("%t", payload.Page.Liked)})
		_ = table.Append([]string{"Page Admin", fmt.Sprintf("%t", payload.Page.Admin)})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render signed request table: %w", err)
	}

	return nil
}
