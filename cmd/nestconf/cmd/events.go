package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/nuetzliches/nestconf"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Dump the event stream of a document, one event per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput()
		if err != nil {
			return err
		}
		src := nestconf.Events(bytes.NewReader(nestconf.Normalize(data)), nestconf.Options{ExpandVariables: expandVars})
		out := cmd.OutOrStdout()
		for {
			ev, err := src.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			switch ev.Kind {
			case nestconf.EventStart:
				fmt.Fprintf(out, "start line=%d name=%q params=%q block=%t\n", ev.Line, ev.Name, ev.Params, ev.HasBlock)
			case nestconf.EventEnd:
				fmt.Fprintf(out, "end block=%t\n", ev.HasBlock)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
