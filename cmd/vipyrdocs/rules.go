package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vipyrdocs/internal/rules"
)

type ruleJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Family   string `json:"family"`
	Template string `json:"template"`
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List every docstring rule in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			switch strings.ToLower(format) {
			case "json":
				return renderRulesJSON(cmd.OutOrStdout(), rules.Table())
			case "pretty", "":
				colorOn, err := colorEnabled(cmd, os.Stdout)
				if err != nil {
					return err
				}
				renderRulesPretty(cmd.OutOrStdout(), rules.Table(), colorOn)
				return nil
			}
			return usagef("unsupported format %q (must be pretty or json)", format)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderRulesPretty(out io.Writer, table []rules.Rule, colorOn bool) {
	idColor := color.New(color.FgMagenta, color.Bold)
	familyColor := color.New(color.FgCyan)
	if colorOn {
		idColor.EnableColor()
		familyColor.EnableColor()
	} else {
		idColor.DisableColor()
		familyColor.DisableColor()
	}

	family := ""
	for _, r := range table {
		if r.Family != family {
			if family != "" {
				fmt.Fprintln(out)
			}
			family = r.Family
			fmt.Fprintln(out, familyColor.Sprint(family))
		}
		fmt.Fprintf(out, "  %s  %-22s %s\n", idColor.Sprint(r.ID), r.Name, r.Template)
	}
}

func renderRulesJSON(out io.Writer, table []rules.Rule) error {
	payload := make([]ruleJSON, len(table))
	for i, r := range table {
		payload[i] = ruleJSON{ID: r.ID, Name: r.Name, Family: r.Family, Template: r.Template}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
