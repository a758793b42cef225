package cli

import (
	"codecourse/internal/client"
	"codecourse/internal/platform/logger"
	"codecourse/internal/session"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const keyAPIURL = "api_url"

var (
	flagAPIURL  string
	flagVerbose bool

	// Set up by the root PersistentPreRunE.
	v       *viper.Viper
	sess    *session.Session
	api     *client.Client
	log     zerolog.Logger
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "codecourse",
	Short: "Work through coding courses from your terminal",
	Long: `codecourse - browse courses, solve exercises and run them against hidden tests.

Quick Start:
  1. Sign in:           codecourse login -u alice
  2. List courses:      codecourse courses
  3. Start an exercise: codecourse open 1
  4. Run your code:     codecourse run 1

Admins manage content with 'codecourse admin' and 'codecourse ai'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. Ctrl-C cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL (overrides config and API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log requests and errors")
}

func setup(cmd *cobra.Command, _ []string) error {
	level := "warn"
	if flagVerbose {
		level = "debug"
	}
	log = logger.New("development", level)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locating home directory: %w", err)
	}
	cfgPath = filepath.Join(home, ".codecourse", "config.json")

	v = viper.New()
	v.SetDefault(keyAPIURL, client.DefaultAPIURL)
	_ = v.BindEnv(keyAPIURL, "API_URL")

	store, err := session.NewViperStore(v, cfgPath)
	if err != nil {
		return err
	}

	sess = session.New(store, log)
	if err := sess.Restore(); err != nil {
		// An undecodable token has already been cleared.
		log.Warn().Err(err).Msg("Stored session discarded")
	}

	apiURL := v.GetString(keyAPIURL)
	if flagAPIURL != "" {
		apiURL = flagAPIURL
	}
	api = client.New(apiURL, sess.Token, log)
	return nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// describeErr turns client errors into one line for the terminal.
func describeErr(err error) string {
	if err == nil {
		return ""
	}
	if isConnErr(err) {
		return "Could not reach the server at " + api.BaseURL()
	}
	return err.Error()
}

func isConnErr(err error) bool {
	return errors.Is(err, client.ErrConnection)
}
