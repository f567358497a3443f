package cmd

import (
	"context"
	"os"

	"github.com/mmuldo/scaler/theme"
	"github.com/spf13/cobra"
)

var swatchOut string

// swatchCmd represents the swatch command
var swatchCmd = &cobra.Command{
	Use:   "swatch",
	Short: "Draws the style registry as an SVG swatch sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, e := loadRecords(context.Background())
		if e != nil {
			return e
		}

		w := os.Stdout
		if swatchOut != "" {
			f, e := os.Create(swatchOut)
			if e != nil {
				return e
			}
			defer f.Close()
			w = f
		}

		theme.WriteSwatch(w, theme.Rows(theme.Styles(records)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(swatchCmd)

	swatchCmd.Flags().StringVarP(&swatchOut, "out", "o", "", "output file (default stdout)")
}
