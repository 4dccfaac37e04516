package commands

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/fbclient"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		accessToken string
		appID       string
		appSecret   string
		appLogin    bool
		extend      bool
		scopes      []string
		redirectURI string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Graph API",
		Long: `Store an access token in the selected profile.

A user or page token can be pasted directly (hidden prompt or --token).
With --app-login and app credentials, an application access token is
fetched instead. With --scopes, the command prints the login dialog URL
to obtain a user token and exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profileName := viper.GetString("profile")
			if profileName == "" {
				config := loadConfig()
				profileName = config.CurrentProfile
			}

			if profileName == "" {
				profileName = DefaultProfileName
			}

			config := loadConfig()
			if config.Profiles == nil {
				config.Profiles = make(map[string]*ProfileConfig)
			}

			profile, exists := config.Profiles[profileName]
			if !exists {
				profile = &ProfileConfig{}
				config.Profiles[profileName] = profile
			}

			// Flag credentials override the stored ones
			if appID != "" {
				profile.AppID = appID
			}

			if appSecret != "" {
				profile.AppSecret = appSecret
			}

			// --scopes only prints the dialog URL; no token is stored
			if len(scopes) > 0 {
				if profile.AppID == "" {
					return constants.ErrNoAppCredentials
				}

				fmt.Println("Open this URL in a browser to authorize the app:")
				fmt.Println(graph.AuthURL(profile.AppID, redirectURI, scopes, nil))

				return nil
			}

			ctx := context.Background()

			if appLogin {
				return loginWithAppCredentials(ctx, config, profile, profileName)
			}

			if accessToken == "" {
				fmt.Print("Access token: ")
				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read access token: %w", err)
				}
				accessToken = strings.TrimSpace(string(byteToken))
				fmt.Println()
			}

			if accessToken == "" {
				return constants.ErrNoStoredToken
			}

			return loginWithUserToken(ctx, config, profile, profileName, accessToken, extend)
		},
	}

	cmd.Flags().StringVar(&accessToken, "token", "", "access token to store (prompted when omitted)")
	cmd.Flags().StringVar(&appID, "app-id", "", "Facebook application ID")
	cmd.Flags().StringVar(&appSecret, "app-secret", "", "Facebook application secret")
	cmd.Flags().BoolVar(&appLogin, "app-login", false, "fetch an application access token instead of a user token")
	cmd.Flags().BoolVar(&extend, "extend", false, "exchange the token for a long-lived one before storing it")
	cmd.Flags().StringSliceVar(&scopes, "scopes", nil, "print the login dialog URL for these permissions and exit")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "OAuth redirect URI for the login dialog")

	return cmd
}

// loginWithAppCredentials fetches and stores an application access token.
func loginWithAppCredentials(ctx context.Context, config *Config, profile *ProfileConfig, profileName string) error {
	if profile.AppID == "" || profile.AppSecret == "" {
		return constants.ErrNoAppCredentials
	}

	client, err := fbclient.NewWithAppCredentials(ctx, profile.AppID, profile.AppSecret)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	token, err := client.Tokens().AppToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch app access token: %w", err)
	}

	profile.AccessToken = token.Value
	profile.TokenExpiresAt = nil
	profile.UserID = ""

	if !token.ExpiresAt.IsZero() {
		profile.TokenExpiresAt = &token.ExpiresAt
	}

	return finishLogin(config, profileName, "application")
}

// loginWithUserToken verifies, optionally extends, and stores a user token.
func loginWithUserToken(ctx context.Context, config *Config, profile *ProfileConfig, profileName, accessToken string, extend bool) error {
	if extend {
		if profile.AppID == "" || profile.AppSecret == "" {
			return constants.ErrNoAppCredentials
		}

		client, err := fbclient.New(ctx, &graph.Config{
			AccessToken: accessToken,
			AppID:       profile.AppID,
			AppSecret:   profile.AppSecret,
			APIVersion:  profile.APIVersion,
		})
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		extended, err := client.Tokens().Extend(ctx, accessToken)
		if err != nil {
			return fmt.Errorf("failed to extend token: %w", err)
		}

		accessToken = extended.Value
		profile.TokenExpiresAt = nil

		if !extended.ExpiresAt.IsZero() {
			profile.TokenExpiresAt = &extended.ExpiresAt
		}
	} else {
		profile.TokenExpiresAt = nil
	}

	profile.AccessToken = accessToken

	// Verify the token and remember who it belongs to
	client, err := fbclient.NewWithToken(ctx, accessToken)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	me, err := client.Objects().Get(ctx, "me", graph.NewParams().WithFields("id", "name"))
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	profile.UserID = me.ID()

	if name := me.GetString("name"); name != "" {
		fmt.Printf("Logged in as %s\n", name)
	}

	return finishLogin(config, profileName, "user")
}

func finishLogin(config *Config, profileName, tokenKind string) error {
	if config.CurrentProfile == "" {
		config.CurrentProfile = profileName
	}

	now := time.Now()
	config.Profiles[profileName].LastRefreshed = &now

	if err := saveConfigStruct(config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Stored %s token in profile '%s'\n", tokenKind, profileName)

	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the Graph API",
		Long:  "Remove the stored access token from the selected profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profileName := viper.GetString("profile")

			config := loadConfig()
			if profileName == "" {
				profileName = config.CurrentProfile
			}

			if profileName == "" {
				return constants.ErrNoProfilesConfigured
			}

			profile, exists := config.Profiles[profileName]
			if !exists {
				return fmt.Errorf("%w: '%s'", constants.ErrProfileNotFound, profileName)
			}

			profile.AccessToken = ""
			profile.TokenExpiresAt = nil
			profile.LastRefreshed = nil
			profile.UserID = ""

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Logged out of profile '%s'\n", profileName)
			return nil
		},
	}
}
