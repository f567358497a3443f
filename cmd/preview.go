package cmd

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/mmuldo/scaler/preview"
	"github.com/mmuldo/scaler/theme"
	"github.com/spf13/cobra"
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Shows the style registry in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, e := loadRecords(context.Background())
		if e != nil {
			return e
		}

		screen, e := tcell.NewScreen()
		if e != nil {
			return e
		}
		return preview.Run(screen, theme.Rows(theme.Styles(records)))
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
