package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/importer"
)

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List institution profiles in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tINSTITUTION\tTYPE\tSKIP\tDELIM\tCOLUMNS")
			for _, p := range importer.Profiles() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%q\t%s\n",
					p.Key, p.Institution, p.FileType, p.SkipRows, p.Delimiter, strings.Join(p.Columns, " | "))
			}
			return tw.Flush()
		},
	}
}
