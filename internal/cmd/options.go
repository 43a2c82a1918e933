package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gss-dashboard/internal/model"
	"gss-dashboard/internal/options"
)

var optionsJSON bool

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the selector options",
	Long: `Print the (label, value) options of the category and group selectors.
Output is YAML unless --json is given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeOptions(cmd.OutOrStdout(), options.Default(), optionsJSON)
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "Output in JSON format")
}

// OptionEntry is one option in the options listing.
type OptionEntry struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// OptionsOutput is the options listing.
type OptionsOutput struct {
	Category []OptionEntry `json:"category" yaml:"category"`
	Group    []OptionEntry `json:"group" yaml:"group"`
}

func writeOptions(w io.Writer, reg *options.Registry, asJSON bool) error {
	out := OptionsOutput{
		Category: entries(reg.OptionsFor(model.AxisCategory)),
		Group:    entries(reg.OptionsFor(model.AxisGroup)),
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	return enc.Close()
}

func entries(opts []model.Option) []OptionEntry {
	out := make([]OptionEntry, len(opts))
	for i, o := range opts {
		out[i] = OptionEntry{Label: o.Label, Value: o.Key}
	}
	return out
}
