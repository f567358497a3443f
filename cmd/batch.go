package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/mmuldo/scaler/command"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <script>",
	Short: "Runs a script of commands against one document",
	Long: `Runs each line of a script as one command. A line is a command name
followed by param=value words, quoted like a shell, e.g.

    select scale-1 scale-2
    generate
    snap property=hue
    swap pivot="brand dark"

"select" replaces the document's selection. Blank lines and lines starting
with # are skipped. The first failing line stops the script. Use - to read
standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, e := os.Open(args[0])
			if e != nil {
				return e
			}
			defer f.Close()
			r = f
		}

		s, e := openSession()
		if e != nil {
			return e
		}
		defer s.Close()

		ctx, stop := interruptible()
		defer stop()

		lines, e := parseScript(r)
		if e != nil {
			return e
		}
		for _, l := range lines {
			if l.name == "select" {
				s.doc.Select(l.words...)
				continue
			}
			res, e := command.Run(ctx, s.env, l.name, l.args)
			printResult(os.Stdout, res)
			if e != nil {
				return fmt.Errorf("line %d: %w", l.n, e)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

type scriptLine struct {
	n     int
	name  string
	args  command.Args
	words []string
}

// parseScript reads a whole script before anything runs, so a syntax error
// on a late line stops the script before its first command.
func parseScript(r io.Reader) ([]scriptLine, error) {
	var out []scriptLine
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		words, e := shellquote.Split(text)
		if e != nil {
			return nil, fmt.Errorf("line %d: %w", n, e)
		}

		l := scriptLine{n: n, name: tableName(words[0]), args: command.Args{}, words: words[1:]}
		if l.name != "select" {
			for _, w := range words[1:] {
				k, v, ok := strings.Cut(w, "=")
				if !ok {
					return nil, fmt.Errorf("line %d: expected param=value, got %q", n, w)
				}
				l.args[k] = v
			}
		}
		out = append(out, l)
	}
	return out, sc.Err()
}

// tableName accepts either the CLI name or the table name of a command.
func tableName(s string) string {
	for _, tc := range tableCommands {
		if tc.use == s {
			return tc.name
		}
	}
	return s
}
