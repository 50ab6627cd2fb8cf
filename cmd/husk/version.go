package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"husk/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat string
	commitColor   = color.New(color.FgCyan, color.Bold)
	dateColor     = color.New(color.FgCyan, color.Bold)
	unknownColor  = color.New(color.FgMagenta)
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show husk's build fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout())
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func renderVersionPretty(out io.Writer) {
	fmt.Fprintf(out, "husk %s\n", versionOrDev())
	fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.GitCommit, commitColor))
	fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate, dateColor))
}

func renderVersionJSON(out io.Writer) error {
	payload := versionPayload{
		Tool:      "husk",
		Version:   versionOrDev(),
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func versionOrDev() string {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		return "dev"
	}
	return v
}

func valueOrUnknown(s string, col *color.Color) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unknownColor.Sprint("unknown")
	}
	return col.Sprint(s)
}
