package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nuetzliches/nestconf"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var treeFormat string

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Dump the parsed directive tree as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput()
		if err != nil {
			return err
		}
		block, err := nestconf.ParseWithOptions(data, nestconf.Options{ExpandVariables: expandVars})
		if err != nil {
			return err
		}
		switch treeFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(block)
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(block)
		default:
			return fmt.Errorf("invalid --format %q (use: json|yaml)", treeFormat)
		}
	},
}

func init() {
	treeCmd.Flags().StringVar(&treeFormat, "format", "json", "output format: json|yaml")
	rootCmd.AddCommand(treeCmd)
}
