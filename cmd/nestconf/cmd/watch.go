package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nuetzliches/nestconf"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a document and print its canonical form on every change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if path == "-" {
			return fmt.Errorf("watch requires --path pointing at a file")
		}
		logger, err := newLogger(logLevel)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := nestconf.Options{ExpandVariables: expandVars}
		err = nestconf.Watch(ctx, path, opts, logger, func(block nestconf.Block) {
			_, _ = os.Stdout.Write(nestconf.Format(block))
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
