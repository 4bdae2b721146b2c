package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/viant/afs"
	"github.com/viant/odoolint/analyzer"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/config"
	"gopkg.in/yaml.v3"
)

var (
	configURL     string
	format        string
	workers       int
	disable       []string
	validVersions []string
	exitCode      = exitClean

	rootCmd = &cobra.Command{
		Use:           "odoolint [addons path...]",
		Short:         "Static checks for Odoo addon modules",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its flags from the go flag set
			return flag.CommandLine.Parse(nil)
		},
		RunE: runLint,
	}

	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "List rule ids with severity and message template",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	}
)

func init() {
	bindFlags(rootCmd.Flags())
	rootCmd.AddCommand(rulesCmd)
}

func bindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&configURL, "config", "c", "", "configuration YAML location, any afs supported URL")
	flags.StringVarP(&format, "format", "f", "text", "output format: text or yaml")
	flags.IntVarP(&workers, "workers", "w", 0, "modules analyzed concurrently, defaults to number of CPUs")
	flags.StringSliceVarP(&disable, "disable", "d", nil, "rule ids to disable")
	flags.StringSliceVar(&validVersions, "valid-versions", nil, "declared Odoo versions, overrides configuration")
}

func loadConfig(ctx context.Context, fs afs.Service) (*config.Config, error) {
	cfg := config.Default()
	if configURL != "" {
		var err error
		if cfg, err = config.Load(ctx, fs, configURL); err != nil {
			return nil, err
		}
	}
	cfg.Disable = append(cfg.Disable, disable...)
	if len(validVersions) > 0 {
		cfg.ValidVersions = validVersions
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}

func runLint(cmd *cobra.Command, args []string) error {
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unsupported format %q", format)
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	fs := afs.New()
	cfg, err := loadConfig(ctx, fs)
	if err != nil {
		return err
	}
	lint := analyzer.New(analyzer.WithConfig(cfg), analyzer.WithFS(fs))
	var results []*analyzer.Result
	for _, location := range args {
		found, err := lint.AnalyzeDir(ctx, location)
		if err != nil {
			return err
		}
		results = append(results, found...)
	}
	if err := write(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	for _, result := range results {
		if result.Error != "" {
			exitCode = exitFailure
			return nil
		}
		if result.Count(diagnostic.Error) > 0 {
			exitCode = exitFindings
		}
	}
	return nil
}

func write(w io.Writer, results []*analyzer.Result) error {
	if format == "yaml" {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(results); err != nil {
			return err
		}
		return encoder.Close()
	}
	for _, result := range results {
		if result.Error != "" {
			fmt.Fprintf(w, "%s: %s\n", result.Module, result.Error)
			continue
		}
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "%s [%s]\n", d, d.Severity)
		}
	}
	return nil
}

func runRules(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, id := range analyzer.DefaultRegistry().Rules() {
		rule, _ := diagnostic.Lookup(id)
		versions := ""
		if rule.MinVersion != "" || rule.MaxVersion != "" {
			versions = fmt.Sprintf(" (odoo %s..%s)", rule.MinVersion, rule.MaxVersion)
		}
		template := strings.ReplaceAll(rule.Template, "%%", "%")
		fmt.Fprintf(w, "%-45s %-10s %s%s\n", id, rule.Severity, template, versions)
	}
	return nil
}
