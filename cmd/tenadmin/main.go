package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nuqta-dev/tenadmin/internal/auth"
	"github.com/nuqta-dev/tenadmin/internal/config"
	"github.com/nuqta-dev/tenadmin/internal/logging"
	"github.com/nuqta-dev/tenadmin/internal/metrics"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Shared runtime, initialized once per invocation by initRuntime.
var (
	cfg      *config.Config
	client   *saas.Client
	sessions *auth.FileStore
)

var rootCmd = &cobra.Command{
	Use:     "tenadmin",
	Short:   "tenadmin - multi-tenant SaaS administration console",
	Long:    `tenadmin manages tenants, client contacts, and manager accounts of a multi-tenant point-of-sale platform from the command line.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initRuntime()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tenadmin %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Printf("Built: %s\n", BuildTime)
		}
		if GitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", GitCommit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(tenantCmd)
	rootCmd.AddCommand(currencyCmd)
	rootCmd.AddCommand(unitCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initRuntime loads configuration, configures logging, and builds the API
// client with any stored session installed.
func initRuntime() error {
	// Baseline logger for early startup messages
	logging.Init(logging.Config{
		Format:    "auto",
		Level:     "info",
		Component: "tenadmin",
	})

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg = loaded

	// Re-initialize logging with configuration-driven settings
	logging.Init(logging.Config{
		Format:    cfg.LogFormat,
		Level:     cfg.LogLevel,
		Component: "tenadmin",
	})

	sessions = auth.NewFileStore(cfg.TokenFile)

	client, err = newAPIClient(cfg, "")
	if err != nil {
		return fmt.Errorf("create API client: %w", err)
	}

	if session, err := sessions.Load(); err == nil {
		client.SetToken(session.Access)
	} else if !errors.Is(err, auth.ErrNoSession) {
		log.Warn().Err(err).Msg("Failed to load stored session")
	}

	return nil
}

// newAPIClient builds a SaaS client from the given configuration, carrying
// over an existing bearer token. Watch mode uses it to rebuild the client
// when the configuration reloads.
func newAPIClient(c *config.Config, token string) (*saas.Client, error) {
	apiClient, err := saas.NewClient(saas.ClientConfig{
		BaseURL:   c.BaseURL,
		Token:     token,
		Timeout:   c.Timeout,
		OnRequest: metrics.ObserveRequest,
	})
	if err != nil {
		return nil, err
	}
	return apiClient, nil
}
