package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mmuldo/scaler/command"
	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/watch"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reruns styles whenever the document changes",
	Long: `Watches the document file and reruns updateStyles after every burst of
changes. The run's own save is seen too, but finds nothing to change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Document == "" {
			return fmt.Errorf("no document: pass --doc or set document in the config")
		}
		w, e := watch.New(cfg.Watch, cfg.Document)
		if e != nil {
			return e
		}

		ctx, stop := interruptible()
		defer stop()

		log := logger.ForComponent("watch")
		update := func(ctx context.Context, _ []watch.Event) {
			if e := runStyles(ctx); e != nil {
				log.Error("update failed", "error", e)
			}
		}

		update(ctx, nil)
		return w.Run(ctx, update)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runStyles(ctx context.Context) error {
	s, e := openSession()
	if e != nil {
		return e
	}
	defer s.Close()

	res, e := command.Run(ctx, s.env, "updateStyles", nil)
	printResult(os.Stdout, res)
	return e
}
