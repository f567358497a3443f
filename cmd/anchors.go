package cmd

import (
	"fmt"
	"os"

	"github.com/mmuldo/scaler/document"
	"github.com/mmuldo/scaler/image"
	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/palette"
	"github.com/mmuldo/scaler/scale"
	"github.com/mmuldo/scaler/scalesync"
	"github.com/spf13/cobra"
)

var (
	anchorName   string
	anchorTheme  string
	anchorColors []string
	anchorImage  string
	anchorCount  int
	anchorStops  []int
)

// anchorsCmd represents the anchors command
var anchorsCmd = &cobra.Command{
	Use:     "anchors",
	Aliases: []string{"create"},
	Short:   "Fills a scale around a few anchor colors",
	Long: `Fills a scale around a few anchor colors given with --color or taken
from the most prevalent distinct colors of --image. The stops are written
to the style registry and bound in the document, if one is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var anchors []palette.RGB
		for _, s := range anchorColors {
			c, e := palette.CSSToRGB(s)
			if e != nil {
				return e
			}
			anchors = append(anchors, c)
		}
		if anchorImage != "" {
			cs, e := image.LoadAnchors(anchorImage, anchorCount)
			if e != nil {
				return e
			}
			anchors = append(anchors, cs...)
		}
		if len(anchors) == 0 {
			return fmt.Errorf("no anchors: pass --color or --image")
		}

		id := scale.Identity{Name: anchorName, Theme: anchorTheme, Stops: anchorStops}
		sc, e := scale.FromKnown(id, anchors)
		if e != nil {
			return e
		}

		var store document.Store = document.New(document.Contents{})
		var doc *document.File
		if cfg.Document != "" {
			if doc, e = document.Load(cfg.Document); e != nil {
				return e
			}
			store = doc
		}

		repo, reg, e := openRegistry()
		if e != nil {
			return e
		}
		defer repo.Close()

		ctx, stop := interruptible()
		defer stop()

		report, e := scalesync.New(store, reg, logger.ForComponent("scalesync")).Sync(ctx, sc)
		if doc != nil {
			if se := doc.Save(); se != nil && e == nil {
				e = se
			}
		}
		printResult(os.Stdout, commandResult(sc, report))
		return e
	},
}

func init() {
	rootCmd.AddCommand(anchorsCmd)

	anchorsCmd.Flags().StringVar(&anchorName, "name", "", "scale name")
	anchorsCmd.Flags().StringVar(&anchorTheme, "theme", "", "scale theme")
	anchorsCmd.Flags().StringSliceVar(&anchorColors, "color", nil, "anchor color, hex or CSS name (repeatable)")
	anchorsCmd.Flags().StringVar(&anchorImage, "image", "", "image to take anchors from")
	anchorsCmd.Flags().IntVar(&anchorCount, "colors", 3, "number of anchors to take from --image")
	anchorsCmd.Flags().IntSliceVar(&anchorStops, "stops", nil, "stop numbers (default 50,100,...,900)")
	anchorsCmd.MarkFlagRequired("name")
}
