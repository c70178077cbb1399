package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	checkfiles "github.com/jacobsvante/hg-checkfiles"
)

// Build variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		fix         = flag.Bool("fix", false, "Rewrite offending files instead of failing")
		verbose     = flag.Bool("verbose", false, "Show the offending span under each violation")
		diffMode    = flag.Bool("diff", false, "Read a unified diff from stdin and check inserted lines only")
		parents     = flag.Int("parents", 1, "Parent count of the change under inspection (diff mode)")
		rev         = flag.String("rev", "", "Revision identifier for the report summary")
		configFile  = flag.String("config", "", "Path to a configuration file")
		tabWidth    = flag.Int("tab-width", 0, "Override the configured tab width")
		indentMode  = flag.String("indent", "", "Override the indent mode (\"spaces\" or \"tabs\")")
		jsonOut     = flag.Bool("json", false, "Emit the run report as JSON on stdout")
		initConfig  = flag.Bool("init", false, "Write a starter .checkfiles.json and exit")
		showVersion = flag.Bool("version", false, "Show version information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hg-checkfiles - whitespace and indentation hygiene for commit hooks\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [file ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Files are checked for all-whitespace lines, trailing whitespace, and\n")
		fmt.Fprintf(os.Stderr, "wrong-character indentation. With -diff, a unified diff is read from\n")
		fmt.Fprintf(os.Stderr, "stdin and only inserted lines are checked.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExit codes:\n")
		fmt.Fprintf(os.Stderr, "  0 - No violations (or all fixed)\n")
		fmt.Fprintf(os.Stderr, "  1 - Violations found\n")
		fmt.Fprintf(os.Stderr, "  2 - Fatal error\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("hg-checkfiles version %s\n", version)
		if commit != "none" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Printf("  built at: %s\n", date)
		}
		os.Exit(0)
	}

	if *initConfig {
		if err := checkfiles.WriteStarterConfig(".checkfiles.json"); err != nil {
			fatal(err)
		}
		fmt.Println("wrote .checkfiles.json")
		os.Exit(0)
	}

	policy, err := resolvePolicy(*configFile, *tabWidth, *indentMode)
	if err != nil {
		fatal(err)
	}

	location := "working directory"
	if *rev != "" {
		location = *rev
	}

	engine := checkfiles.NewEngine(policy,
		checkfiles.WithOutput(os.Stderr),
		checkfiles.WithVerbose(*verbose),
		checkfiles.WithLocation(location),
	)

	ctx := context.Background()

	var report *checkfiles.RunReport
	switch {
	case *diffMode || policy.DiffOnly:
		report, err = engine.CheckDiff(ctx, *parents, os.Stdin)
	case *fix:
		report, err = engine.Fix(ctx, candidates(flag.Args()))
	default:
		report, err = engine.Check(ctx, candidates(flag.Args()))
	}
	if err != nil {
		fatal(err)
	}

	if *jsonOut {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fatal(fmt.Errorf("failed to marshal report: %w", err))
		}
		fmt.Println(string(data))
	}

	// A fix run repaired everything it reported, so it exits clean.
	if report.HasIssues() && !*fix {
		os.Exit(1)
	}
	os.Exit(0)
}

// resolvePolicy loads configuration and applies command-line overrides.
func resolvePolicy(configFile string, tabWidth int, indentMode string) (checkfiles.Policy, error) {
	loader, err := checkfiles.NewConfigLoader()
	if err != nil {
		return checkfiles.Policy{}, err
	}

	var config *checkfiles.Config
	if configFile != "" {
		config, err = loader.LoadConfigWithPaths([]string{configFile})
	} else {
		config, err = loader.LoadConfig()
	}
	if err != nil {
		return checkfiles.Policy{}, err
	}

	if tabWidth > 0 {
		config.TabWidth = &tabWidth
	}
	if indentMode != "" {
		config.IndentMode = &indentMode
	}

	return config.Policy()
}

func candidates(paths []string) []*checkfiles.Candidate {
	cs := make([]*checkfiles.Candidate, 0, len(paths))
	for _, path := range paths {
		cs = append(cs, checkfiles.NewFileCandidate(path))
	}
	return cs
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "hg-checkfiles: %v\n", err)
	os.Exit(2)
}
