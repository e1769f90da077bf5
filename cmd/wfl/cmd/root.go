package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	lintFlag bool
	fixFlag  bool
	diffFlag bool
	stepFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "wfl [file]",
	Short: "Run, lint, and format WFL scripts",
	Long: `wfl runs programs written in WFL, the natural-language scripting
language: plain English-like statements such as "store x as 5" and
"display x" compiled and executed by a tree-walking interpreter.

With no flags, wfl executes the given file (or standard input, if no
file is given) and prints whatever it displays. --lint type-checks the
script without running it. --fix rewrites the script in canonical
form; --diff shows what --fix would change without writing it.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runWFL,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.Flags().BoolVar(&lintFlag, "lint", false, "type-check the script and report diagnostics without running it")
	rootCmd.Flags().BoolVar(&fixFlag, "fix", false, "rewrite the script in canonical form")
	rootCmd.Flags().BoolVar(&diffFlag, "diff", false, "show what --fix would change, without writing it")
	rootCmd.Flags().BoolVar(&stepFlag, "step", false, "pause before each statement, waiting for Enter on standard input")
}
