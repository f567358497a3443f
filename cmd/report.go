package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mmuldo/scaler/palette"
	"github.com/mmuldo/scaler/theme"
	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Measures the perceptual steps between neighbouring stops",
	Long: `Prints, for every scale in the style registry, the CIEDE2000 difference
between neighbouring stops: mean, standard deviation, smallest and largest.
An even scale has a small deviation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, e := loadRecords(context.Background())
		if e != nil {
			return e
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCALE\tSTOPS\tMEAN\tSTDDEV\tMIN\tMAX")
		for _, row := range theme.Rows(theme.Styles(records)) {
			colors := make([]palette.RGB, len(row.Styles))
			for i, s := range row.Styles {
				colors[i] = s.Color
			}
			st := palette.MeasureSteps(colors)
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n", row.Label(), len(colors), st.Mean, st.StdDev, st.Smallest, st.Largest)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
