package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/graph-client/cmd/fbgraph/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fbgraph",
	Short: "Facebook Graph API CLI",
	Long: `A command-line interface for the Facebook Graph API.

This CLI provides access to Graph nodes and connections, feed publishing,
photo uploads, token management, search, and batch requests.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.fbgraph/config.yml)")
	flags.StringP("profile", "P", "", "configuration profile to use")
	flags.StringP("token", "t", "", "access token (overrides the profile token)")
	flags.String("api-version", "", "Graph API version, for example 2.2")
	flags.String("output", "table", "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("skip-ssl-validation", false, "skip SSL certificate validation")

	// Viper keys on the left, flag names on the right.
	bindings := map[string]string{
		"config":              "config",
		"profile":             "profile",
		"token":               "token",
		"api_version":         "api-version",
		"output":              "output",
		"verbose":             "verbose",
		"no-color":            "no-color",
		"skip-ssl-validation": "skip-ssl-validation",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		commands.NewVersionCommand(version, commit, date),
		commands.NewAPIVersionCommand(),
		commands.NewLoginCommand(),
		commands.NewLogoutCommand(),
		commands.NewConfigCommand(),
		commands.NewProfilesCommand(),
		commands.NewGetCommand(),
		commands.NewConnectionsCommand(),
		commands.NewPostCommand(),
		commands.NewCommentCommand(),
		commands.NewLikeCommand(),
		commands.NewUnlikeCommand(),
		commands.NewPhotoCommand(),
		commands.NewDeleteCommand(),
		commands.NewDeleteRequestCommand(),
		commands.NewTokenCommand(),
		commands.NewSearchCommand(),
		commands.NewBatchCommand(),
	)
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".fbgraph")
		if err := os.MkdirAll(configDir, 0750); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("FBGRAPH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
