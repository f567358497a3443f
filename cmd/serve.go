package cmd

import (
	"github.com/mmuldo/scaler/rpc"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the command table over JSON-RPC on stdin and stdout",
	Long: `Serves the command table to a host over JSON-RPC 2.0 with
Content-Length framing on stdin and stdout. Methods are "commands",
"execute" {command, args} and "suggest" {command, param, query}. Logs go to
stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e := openSession()
		if e != nil {
			return e
		}
		defer s.Close()

		ctx, stop := interruptible()
		defer stop()

		e = rpc.NewServer(s.env).Serve(ctx, rpc.Stdio())
		if ctx.Err() != nil {
			return nil
		}
		return e
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
