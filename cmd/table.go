package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmuldo/scaler/command"
	"github.com/mmuldo/scaler/scale"
	"github.com/mmuldo/scaler/scalesync"
	"github.com/spf13/cobra"
)

// tableCommands maps CLI names onto the command table.
var tableCommands = []struct {
	use  string
	name string
}{
	{"generate", "generateScale"},
	{"references", "updateScaleReferences"},
	{"styles", "updateStyles"},
	{"fix-gradient", "fixGradientLightness"},
	{"smooth", "smooth"},
	{"snap", "snapScale"},
	{"capture", "captureScale"},
	{"swap", "swapScale"},
}

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest <command> <param> [query]",
	Short: "Lists completions for a command parameter",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e := openSession()
		if e != nil {
			return e
		}
		defer s.Close()

		query := ""
		if len(args) == 3 {
			query = args[2]
		}
		ctx, stop := interruptible()
		defer stop()

		out, e := command.Suggest(ctx, s.env, args[0], args[1], query)
		if e != nil {
			return e
		}
		for _, v := range out {
			fmt.Println(v)
		}
		return nil
	},
}

func init() {
	for _, tc := range tableCommands {
		rootCmd.AddCommand(tableCommand(tc.use, tc.name))
	}
	rootCmd.AddCommand(suggestCmd)
}

func tableCommand(use, name string) *cobra.Command {
	d, ok := command.Lookup(name)
	if !ok {
		panic("cmd: no command " + name)
	}

	var selection []string
	cmd := &cobra.Command{
		Use:   use,
		Short: d.Summary,
		Long:  d.Summary + "\n\nRuns the " + name + " command against the document.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := command.Args{}
			for _, p := range d.Params {
				if f := cmd.Flags().Lookup(p.Name); f != nil && f.Changed {
					a[p.Name] = f.Value.String()
				}
			}
			return runTable(name, a, selection)
		},
	}

	for _, p := range d.Params {
		usage := "free text"
		if len(p.Values) > 0 {
			usage = "one of " + strings.Join(p.Values, ", ")
		}
		cmd.Flags().String(p.Name, p.Default, usage)
	}
	cmd.Flags().StringSliceVar(&selection, "select", nil, "node ids to select first (replaces the document's selection)")

	return cmd
}

func runTable(name string, args command.Args, selection []string) error {
	s, e := openSession()
	if e != nil {
		return e
	}
	defer s.Close()

	if len(selection) > 0 {
		s.doc.Select(selection...)
	}

	ctx, stop := interruptible()
	defer stop()

	res, e := command.Run(ctx, s.env, name, args)
	printResult(os.Stdout, res)
	return e
}

func printResult(w io.Writer, res command.Result) {
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
	for _, sc := range res.Scales {
		label := sc.Name
		if sc.Theme != "" {
			label += "/" + sc.Theme
		}
		fmt.Fprintf(w, "%s:", label)
		for _, st := range sc.Stops {
			fmt.Fprintf(w, " %s=%s", st.Name, st.Color.Hex())
		}
		fmt.Fprintln(w)
	}
	for _, f := range res.Report.Failures {
		fmt.Fprintln(w, "not bound:", f.Error())
	}
}

func commandResult(sc scale.Scale, report scalesync.Report) command.Result {
	return command.Result{
		Message: fmt.Sprintf("%d created, %d updated, %d bound", report.Created, report.Updated, report.Bound),
		Scales:  []scale.Scale{sc},
		Report:  report,
	}
}
