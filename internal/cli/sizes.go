package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gardar/djvuscan/internal/config"
)

func newSizesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "List the named page sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tWIDTH [mm]\tHEIGHT [mm]")
			for _, size := range config.PageSizes() {
				fmt.Fprintf(w, "%s\t%g\t%g\n", size.Name, size.WidthMM, size.HeightMM)
			}
			return w.Flush()
		},
	}
}
