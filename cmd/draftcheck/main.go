package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/draftcheck/internal/config"
	"github.com/coolbeans/draftcheck/internal/logging"
	"github.com/coolbeans/draftcheck/pkg/lookup"
	"github.com/coolbeans/draftcheck/pkg/parse"
	"github.com/coolbeans/draftcheck/pkg/pattern"
	"github.com/coolbeans/draftcheck/pkg/report"
	"github.com/coolbeans/draftcheck/pkg/validate"
)

var version = "0.1.0"

// errInvalid signals that at least one checked document is invalid.
var errInvalid = errors.New("invalid documents")

// Configuration loaded by the root command before any subcommand runs
var cfg *config.Config

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"offline":      "offline",
	"format":       "output.format",
	"color":        "output.color",
	"log-level":    "log.level",
	"patterns-dir": "patterns.dir",
	"mode":         "check.mode",
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "draftcheck",
		Short: "Internet-Draft checker",
		Long: `Draftcheck parses plain-text Internet-Drafts and RFCs and checks them
for the issues that block or delay publication.

It reports:
  - Missing or empty required sections
  - Header problems (title, draft name, expiry, status)
  - RFC 2119 keyword and boilerplate mismatches
  - Non-documentation domain names and IP addresses
  - Undefined, unused, obsoleted and downref references`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd.Flags())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.config/draftcheck/config.yaml)")
	flags.Bool("offline", false, "skip every remote lookup")
	flags.String("format", "text", "output format: text or json")
	flags.Bool("color", false, "colour severity labels in text output")
	flags.String("log-level", "warn", "log level: trace, debug, info, warn or error")
	flags.String("patterns-dir", "", "directory of additional pattern tables")
	flags.String("mode", "normal", "check mode: normal, forgiving or submission")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(patternsCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(configCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and environment, lets explicitly
// set flags override both, and installs the logger.
func loadConfig(flags *pflag.FlagSet) error {
	configPath, _ := flags.GetString("config")
	v, err := config.NewViper(configPath)
	if err != nil {
		return err
	}

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	cfg, err = config.FromViper(v)
	if err != nil {
		return err
	}
	return logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}

// loadRegistry returns the pattern registry holding the built-in table and
// the tables of patterns.dir.
func loadRegistry() (*pattern.DefaultRegistry, error) {
	if cfg.Patterns.Dir == "" {
		return pattern.NewRegistry(), nil
	}
	registry, err := pattern.NewRegistryWithDirectory(cfg.Patterns.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading pattern tables: %w", err)
	}
	return registry, nil
}

// newParser returns a parser using the configured table of registry.
func newParser(registry *pattern.DefaultRegistry) (*parse.Parser, error) {
	table, err := registry.Lookup(cfg.Patterns.Table)
	if err != nil {
		return nil, err
	}
	return parse.NewParser(table), nil
}

func newValidator() (*validate.Validator, error) {
	client, err := lookup.NewClient(cfg.LookupConfig())
	if err != nil {
		return nil, fmt.Errorf("creating lookup client: %w", err)
	}
	return validate.NewValidator(cfg.ValidatorConfig(), client), nil
}

// checkFile reads and checks one file. Read failures become a FATAL message.
func checkFile(ctx context.Context, v *validate.Validator, p *parse.Parser, path string) *report.Report {
	data, err := os.ReadFile(path)
	if err != nil {
		rep := report.NewReport(path)
		rep.Add(report.Fatal, report.CheckReadError, err.Error())
		return rep
	}
	return v.Check(ctx, p, path, string(data))
}

func writeReports(reports []*report.Report) error {
	if cfg.Output.Format == "json" {
		return report.WriteJSONAll(os.Stdout, reports)
	}
	for i, rep := range reports {
		if i > 0 {
			fmt.Println()
		}
		rep.WriteText(os.Stdout, report.TextOptions{Color: cfg.Output.Color})
	}
	return nil
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Check Internet-Drafts",
		Long: `Parse and validate each file. Files are checked concurrently; a file
that cannot be read or parsed is reported without stopping the others.

The exit status is 1 when any document has errors.

Example:
  draftcheck check draft-ietf-foo-bar-03.txt
  draftcheck check --offline --format json drafts/*.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}
			parser, err := newParser(registry)
			if err != nil {
				return err
			}
			validator, err := newValidator()
			if err != nil {
				return err
			}

			reports := make([]*report.Report, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(cfg.Check.Concurrency)
			for i, path := range args {
				g.Go(func() error {
					reports[i] = checkFile(ctx, validator, parser, path)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if err := writeReports(reports); err != nil {
				return err
			}
			for _, rep := range reports {
				if !rep.IsValid() {
					return errInvalid
				}
			}
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed structure of a document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}
			parser, err := newParser(registry)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			res, err := parser.Parse(string(data), args[0])
			if err != nil {
				log.Error().Err(err).Str("file", args[0]).Msg("parse failed")
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func patternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the pattern tables and show the active one",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}
			active, err := registry.Lookup(cfg.Patterns.Table)
			if err != nil {
				return err
			}

			if cfg.Output.Format == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(active)
			}

			fmt.Println("Tables:")
			for _, table := range registry.List() {
				marker := " "
				if table.TableID == active.TableID {
					marker = "*"
				}
				fmt.Printf(" %s %s (%s, version %s)\n", marker, table.TableID, table.Name, table.Version)
			}

			fmt.Println("\nSections:")
			for _, rule := range active.Structure.Sections {
				fmt.Printf("  %-24s %s\n", rule.Section, rule.Pattern)
			}
			fmt.Println("\nStatuses:")
			for _, rule := range active.Statuses {
				fmt.Printf("  %-24s %s\n", rule.Name, rule.Pattern)
			}
			fmt.Println("\nBoilerplates:")
			for _, rule := range active.Boilerplates {
				fmt.Printf("  %-24s %s, %d fragments\n", rule.ID, rule.Flag, len(rule.Fragments))
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as YAML.

Example:
  draftcheck config --write ~/.config/draftcheck/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetString("write")
			if write != "" {
				if err := cfg.SaveToFile(write); err != nil {
					return err
				}
				fmt.Printf("Configuration written to %s\n", write)
				return nil
			}

			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Print(strings.TrimLeft(string(data), "\n"))
			return nil
		},
	}
	cmd.Flags().String("write", "", "write the configuration to this file instead of printing it")
	return cmd
}
