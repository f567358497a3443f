package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmuldo/scaler/registry"
	"github.com/mmuldo/scaler/theme"
	"github.com/spf13/cobra"
)

var (
	exportTemplate string
	exportOut      string
	exportSet      map[string]string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"switch"},
	Short:   "Renders the style registry through a template",
	Long: `Renders every style in the registry through a pongo2 template. The
template is a path, or a name looked up in the templates directory. Styles
are available as "styles", nested by theme, hue and variant as "scales",
and one row per scale as "rows"; "background" and "foreground" default to
the lightest and darkest style.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, e := loadTheme(context.Background())
		if e != nil {
			return e
		}

		o, e := theme.Render(templatePath(exportTemplate), t)
		if e != nil {
			return e
		}

		if exportOut == "" {
			_, e = fmt.Print(o)
			return e
		}
		return os.WriteFile(exportOut, []byte(o), 0644)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "template path or name")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringToStringVar(&exportSet, "set", nil, "extra template values, key=value")
	exportCmd.MarkFlagRequired("template")
}

func templatePath(name string) string {
	if _, e := os.Stat(name); e == nil || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.Templates, name)
}

// loadRecords reads every record of the style registry.
func loadRecords(ctx context.Context) ([]registry.Record, error) {
	repo, reg, e := openRegistry()
	if e != nil {
		return nil, e
	}
	defer repo.Close()
	return reg.Records(ctx)
}

func loadTheme(ctx context.Context) (theme.Theme, error) {
	records, e := loadRecords(ctx)
	if e != nil {
		return nil, e
	}
	opts := make(map[string]interface{}, len(exportSet))
	for k, v := range exportSet {
		opts[k] = v
	}
	return theme.Create(records, opts)
}
