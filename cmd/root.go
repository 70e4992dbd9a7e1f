package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"savings-ledger/app"
	"savings-ledger/command"
	"savings-ledger/config"
	"savings-ledger/logger"
	"savings-ledger/store"
)

var (
	// cfg holds the raw flag values; settings is the normalized copy in use.
	cfg      = config.Default()
	settings config.Config

	// Shared application state, built once per invocation by setup.
	accountService *app.AccountService
	appLog         = zerolog.Nop()
	logCloser      io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "savings-ledger",
	Short: "An interactive savings account ledger",
	Long: `savings-ledger keeps a set of named savings accounts on disk and records
every deposit, withdrawal and transfer in a per-account transaction history.

Run without a sub-command to start the interactive shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute stamps the build version on the root command and runs it,
// exiting with status 1 when the command returns an error.
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnFinalize(closeLog)

	// Assigned here rather than in the literal to avoid an initialization
	// cycle (runREPL -> newSession -> rootCmd).
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding accounts.json and the account folders")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (default <data-dir>/ledger.log, '-' for stderr)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn, error")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Start sessions with debug mode on")

	rootCmd.AddCommand(replCmd)
}

// setup resolves the configuration, opens the log and loads the ledger.
func setup() error {
	c := cfg.Normalize()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, closer, err := logger.Open(c.LogFile, c.Level())
	if err != nil {
		return err
	}
	appLog, logCloser = log, closer

	ledgerStore, err := store.NewFileLedgerStore(c.DataDir)
	if err != nil {
		appLog.Error().Err(err).Str("data_dir", c.DataDir).Msg("failed to open ledger store")
		return err
	}
	accountService = app.NewAccountService(ledgerStore, appLog.With().Str("component", "ledger").Logger())
	if err := accountService.Load(); err != nil {
		appLog.Error().Err(err).Msg("failed to load ledger")
		return err
	}
	settings = c
	return nil
}

func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to close log: %v\n", err)
	}
	logCloser = nil
	appLog = zerolog.Nop()
}

func newSession(screen io.Writer) *command.Session {
	session := command.NewSession(accountService, screen, rootCmd.Version)
	session.Debug = settings.Debug
	return session
}

func newParser() *command.Parser {
	return command.NewParser(command.DefaultAliases(), appLog.With().Str("component", "parser").Logger())
}
