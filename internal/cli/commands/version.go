package commands

import (
	"github.com/leapstack-labs/confreport/internal/cli/output"
	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the confreport version, commit and build date. Honours --output json.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(NewCommandContext(cmd).Renderer, info)
		},
	}
}

func printVersion(r *output.Renderer, info BuildInfo) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}
	r.Printf("confreport v%s\n", info.Version)
	r.Muted("commit " + info.Commit + ", built " + info.BuildDate)
	return nil
}
