package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vipyrdocs/internal/version"
)

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
}

const versionTagline = "docstrings that tell the truth"

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show vipyrdocs build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			format, err := flags.GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			full, _ := flags.GetBool("full")
			hash, _ := flags.GetBool("hash")
			message, _ := flags.GetBool("message")
			date, _ := flags.GetBool("date")
			opts := versionOptions{
				format:      strings.ToLower(format),
				showHash:    hash || full,
				showMessage: message || full,
				showDate:    date || full,
			}

			switch opts.format {
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), version.Current(), opts)
			case "pretty":
				colorOn, err := colorEnabled(cmd, os.Stdout)
				if err != nil {
					return err
				}
				renderVersionPretty(cmd.OutOrStdout(), version.Current(), opts, colorOn)
				return nil
			}
			return usagef("unsupported format %q (must be pretty or json)", format)
		},
	}
	cmd.Flags().Bool("hash", false, "include git commit hash")
	cmd.Flags().Bool("message", false, "include git commit message")
	cmd.Flags().Bool("date", false, "include build timestamp")
	cmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions, colorOn bool) {
	fmt.Fprintf(out, "vipyrdocs %s: %s\n", version.Colored(colorOn), versionTagline)
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showMessage {
		fmt.Fprintf(out, "message: %s\n", valueOrUnknown(info.GitMessage))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, info version.Info, opts versionOptions) error {
	payload := version.Info{Version: info.Version}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
