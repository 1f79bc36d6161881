package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	path       string
	expandVars bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "nestconf",
	Short: "Parse, format and watch nginx-style directive files",
	Long: `nestconf works with line-oriented, nginx-style configuration text:
one directive per line, '#' comments, quoting and escapes, and
brace-delimited nesting, with optional $name = ... variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&path, "path", "-", "document path ('-' for stdin)")
	rootCmd.PersistentFlags().BoolVar(&expandVars, "expand-vars", false, "expand variable declarations and references")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
}

// readInput loads the selected document, from stdin when path is "-".
func readInput() ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func newLogger(level string) (*slog.Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	return slog.New(h), nil
}

func parseLogLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q (use: debug|info|warn|error): %w", level, err)
	}
	return lvl, nil
}
