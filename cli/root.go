package cli

import (
	"time"

	"fluxwell/client"
	"fluxwell/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	userIDFlag string
	apiURLFlag string

	groupTitleColor = color.New(color.FgCyan, color.Bold)
)

// rootCmd is the root command for fluxwell.
var rootCmd = &cobra.Command{
	Use:     "fluxwell",
	Version: "dev",
	Short:   "AI-assisted weekly workout planner",
	Long: `fluxwell keeps a Monday-to-Sunday workout plan per user.

Run "fluxwell serve" for the plan backend, then "fluxwell session" to generate,
review and commit AI plans interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
		if userIDFlag != "" {
			config.AppConfig.Client.UserID = userIDFlag
		}
		if apiURLFlag != "" {
			config.AppConfig.Client.BaseURL = apiURLFlag
		}
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&userIDFlag, "user", "", "User id sent to the backend (overrides client.user_id)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend base URL (overrides client.base_url)")

	rootCmd.AddGroup(&cobra.Group{ID: "backend", Title: groupTitleColor.Sprint("Backend:")})
	rootCmd.AddGroup(&cobra.Group{ID: "planning", Title: groupTitleColor.Sprint("Planning:")})

	serveCmd.GroupID = "backend"
	rootCmd.AddCommand(serveCmd)

	sessionCmd.GroupID = "planning"
	planCmd.GroupID = "planning"
	onboardCmd.GroupID = "planning"
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(onboardCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newClient(cfg config.ClientConfig) *client.Client {
	return client.New(cfg.BaseURL, cfg.UserID, time.Duration(cfg.TimeoutSeconds)*time.Second)
}
