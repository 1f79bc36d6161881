package cmd

import (
	"os"

	"github.com/nuetzliches/nestconf"
	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Rewrite a document in canonical form",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput()
		if err != nil {
			return err
		}
		block, err := nestconf.ParseWithOptions(data, nestconf.Options{ExpandVariables: expandVars})
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(nestconf.Format(block))
		return err
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
