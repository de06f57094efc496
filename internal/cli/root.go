package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mvagnon/agents/internal/branding"
	"github.com/mvagnon/agents/internal/config"
	"github.com/mvagnon/agents/internal/prompt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose       bool
	catalogFlag   string
	stableDirFlag string
	logger        = zap.NewNop()
)

// UsageError is a bad invocation. It is reported with the command usage
// and never mutates the filesystem.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <target-path>",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs a shared catalog of rules, skills and agents into a
project for the selected AI coding tools, then keeps it up to date.

Run it with a project directory to bootstrap that project. Use "upgrade"
and "manage" from inside an already bootstrapped project.`,
	Example: "  " + branding.CLIName() + " ../my-project\n  " + branding.CLIName() + " upgrade",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			return &UsageError{Msg: err.Error()}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()

		logger = newLogger(verbose, os.Stderr)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runBootstrapCmd,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Catalog directory to sync the stable mirror from")
	rootCmd.PersistentFlags().StringVar(&stableDirFlag, "stable-dir", "", "Stable mirror base directory")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})
}

// newLogger writes console-encoded entries to w at warn level, or debug
// with verbose.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Execute runs the root command with build info injected via ldflags. It
// returns the process exit code.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	cmd, err := rootCmd.ExecuteC()
	return exitCode(cmd, err, os.Stderr)
}

// exitCode reports err the way its kind requires: cancellation is a clean
// exit, usage errors print the usage, anything else prints one line.
func exitCode(cmd *cobra.Command, err error, stderr io.Writer) int {
	var usage *UsageError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, prompt.ErrCancelled):
		return 0
	case errors.As(err, &usage):
		fmt.Fprintf(stderr, "Error: %s\n\n", usage.Msg)
		if cmd != nil {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}
