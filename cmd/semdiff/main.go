package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/semdiff/pkg/diff"
	"github.com/wonderfulspam/semdiff/pkg/filter"
	"github.com/wonderfulspam/semdiff/pkg/git"
	"github.com/wonderfulspam/semdiff/pkg/parser"
	"github.com/wonderfulspam/semdiff/pkg/renderer"
	"github.com/wonderfulspam/semdiff/pkg/tree"
)

// Exit codes: 0 no changes, 1 changes found, 2 error before or during
// parsing (bad arguments, parse failure, cyclic reference, bad pattern).
var exitCode int

var diffFlags struct {
	format           string
	compact          bool
	showValues       bool
	maxValueLength   int
	nullAsMissing    bool
	ignoreWhitespace bool
	arrayStrategy    string
	ignorePatterns   []string
	onlyPatterns     []string
	from             string
	quiet            bool
	verbose          bool
}

var rootCmd = &cobra.Command{
	Use:   "semdiff <old-file> <new-file>",
	Short: "Semantic diff tool for structured data",
	Long: `semdiff compares JSON, YAML and TOML files semantically, showing only
meaningful changes while ignoring formatting, whitespace and key ordering
differences. Use "-" as a filename to read from stdin.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := runDiff(args[0], args[1])
		exitCode = code
		return err
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&diffFlags.format, "format", "f", "terminal", "output format (terminal, plain, json)")
	flags.BoolVarP(&diffFlags.compact, "compact", "c", true, "show only changes (hide unchanged fields)")
	flags.BoolVar(&diffFlags.showValues, "show-values", false, "show full values instead of previews")
	flags.IntVar(&diffFlags.maxValueLength, "max-value-length", renderer.DefaultMaxValueLength, "maximum length for displayed values")
	flags.BoolVar(&diffFlags.nullAsMissing, "null-as-missing", false, "treat null values as missing keys")
	flags.BoolVar(&diffFlags.ignoreWhitespace, "ignore-whitespace", false, "ignore whitespace differences in strings")
	flags.StringVar(&diffFlags.arrayStrategy, "array-strategy", "positional", "array comparison strategy (positional, lcs)")
	flags.StringArrayVar(&diffFlags.ignorePatterns, "ignore", nil, "path pattern to exclude from output (repeatable)")
	flags.StringArrayVar(&diffFlags.onlyPatterns, "only", nil, "path pattern to restrict output to (repeatable)")
	flags.StringVar(&diffFlags.from, "from", "auto", "input format for stdin (auto, json, yaml, toml)")
	flags.BoolVarP(&diffFlags.quiet, "quiet", "q", false, "suppress the summary line")
	flags.BoolVarP(&diffFlags.verbose, "verbose", "v", false, "show progress on stderr")
}

func main() {
	// When git invokes semdiff as a diff driver it passes seven
	// positional arguments; translate that into a plain two-file diff.
	if oldFile, newFile, ok := git.DetectDiffDriverArgs(os.Args[1:]); ok {
		// Git diff drivers must exit 0 unless something went wrong, so
		// the changes-found exit code is dropped here.
		if _, err := runDiff(oldFile, newFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(exitCode)
}

func runDiff(oldPath, newPath string) (int, error) {
	diffConfig, err := buildDiffConfig()
	if err != nil {
		return 2, err
	}
	filterConfig, err := filter.NewConfig(diffFlags.ignorePatterns, diffFlags.onlyPatterns)
	if err != nil {
		return 2, err
	}
	format, err := renderer.ParseFormat(diffFlags.format)
	if err != nil {
		return 2, err
	}
	hint, err := parser.ParseFormatHint(diffFlags.from)
	if err != nil {
		return 2, err
	}

	oldValue, err := parseInput(oldPath, hint)
	if err != nil {
		return 2, err
	}
	newValue, err := parseInput(newPath, hint)
	if err != nil {
		return 2, err
	}

	if diffFlags.verbose {
		fmt.Fprintln(os.Stderr, "Computing diff...")
	}
	result := filter.Apply(diff.Compute(oldValue, newValue, diffConfig), filterConfig)

	output, err := renderer.Render(result, format, renderer.Options{
		ShowValues:     diffFlags.showValues,
		MaxValueLength: diffFlags.maxValueLength,
	})
	if err != nil {
		return 2, err
	}
	printOutput(output)

	if result.IsEmpty() {
		return 0, nil
	}
	return 1, nil
}

func buildDiffConfig() (*diff.Config, error) {
	var strategy diff.Strategy
	switch diffFlags.arrayStrategy {
	case "positional", "":
		strategy = diff.StrategyPositional
	case "lcs":
		strategy = diff.StrategyLCS
	default:
		return nil, fmt.Errorf("unknown array strategy %q (supported: positional, lcs)", diffFlags.arrayStrategy)
	}
	return &diff.Config{
		Compact:          diffFlags.compact,
		NullAsMissing:    diffFlags.nullAsMissing,
		IgnoreWhitespace: diffFlags.ignoreWhitespace,
		ArrayStrategy:    strategy,
	}, nil
}

func parseInput(path string, hint parser.FormatHint) (*tree.Value, error) {
	if path == "-" {
		if diffFlags.verbose {
			fmt.Fprintln(os.Stderr, "Parsing stdin...")
		}
		return parser.ParseStdin(hint)
	}
	if git.IsNullFile(path) {
		// Git hands /dev/null for new or deleted files.
		return tree.Null(), nil
	}
	if diffFlags.verbose {
		fmt.Fprintf(os.Stderr, "Parsing %s...\n", path)
	}
	return parser.ParseFile(path)
}

func printOutput(output string) {
	if !diffFlags.quiet {
		fmt.Println(output)
		return
	}
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "Summary:") {
			continue
		}
		fmt.Println(line)
	}
}
