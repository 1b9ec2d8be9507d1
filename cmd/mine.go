package cmd

import (
	"github.com/spf13/cobra"
)

var mineFilters filterFlags

// newMineCmd creates and configures the 'mine' subcommand, which runs
// a crawl and then processes its output in one invocation.
func newMineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine <url>",
		Short: "Crawl a site and immediately process the downloaded pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyCrawlFlags(cmd)
			applyProcessFlags(cmd)
			outputDir, err := runCrawl(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return runProcess(cmd.Context(), outputDir, mineFilters)
		},
	}
	addCrawlFlags(cmd)
	addProcessFlags(cmd, &mineFilters)
	return cmd
}
