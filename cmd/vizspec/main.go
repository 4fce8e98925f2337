package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/vizspec/internal/ai"
	"github.com/CodexForgeBR/vizspec/internal/banner"
	"github.com/CodexForgeBR/vizspec/internal/check"
	"github.com/CodexForgeBR/vizspec/internal/cli"
	"github.com/CodexForgeBR/vizspec/internal/config"
	"github.com/CodexForgeBR/vizspec/internal/exitcode"
	"github.com/CodexForgeBR/vizspec/internal/logging"
	"github.com/CodexForgeBR/vizspec/internal/prompt"
	"github.com/CodexForgeBR/vizspec/internal/repair"
	sighandler "github.com/CodexForgeBR/vizspec/internal/signal"
	"github.com/CodexForgeBR/vizspec/internal/trace"
	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := sighandler.WithInterrupt(context.Background(), func() {
		logging.Warn("Interrupted, stopping...")
	})

	err := newRootCmd(newApp()).ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.Error(err.Error())
	}
	os.Exit(exitcode.ForError(err))
}

// app carries the resolved configuration and the seams tests replace.
type app struct {
	flags        *config.Config // values bound to flags
	cfg          *config.Config // resolved after config files are merged
	stdin        io.Reader
	newGenerator func(ctx context.Context, pc ai.ProviderConfig) (ai.Generator, error)
}

func newApp() *app {
	return &app{
		flags:        config.NewDefaultConfig(),
		stdin:        os.Stdin,
		newGenerator: ai.New,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "vizspec",
		Short:   "Validate, trace and generate VizSpec visualization documents",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Bind all configuration flags to the config
	cli.BindFlags(rootCmd, a.flags)

	rootCmd.AddCommand(newValidateCmd(a), newTraceCmd(a), newGenerateCmd(a))

	// Set custom help template
	cli.SetCustomHelp(rootCmd)
	return rootCmd
}

// loadConfig merges config files under the explicitly set flags.
func (a *app) loadConfig(cmd *cobra.Command) error {
	globalPath, projectPath := config.DefaultPaths()
	cfg, err := config.LoadWithPrecedence(globalPath, projectPath, a.flags.ConfigFile, cli.BuildOverrides(cmd, a.flags))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ConfigFile = a.flags.ConfigFile

	if err := cli.ValidateFlags(cmd, cfg); err != nil {
		return err
	}
	logging.SetVerbose(cfg.Verbose)
	a.cfg = cfg
	return nil
}

// invalidError reports how many documents failed and carries the first
// failure's issues for exit code mapping.
type invalidError struct {
	invalid, total int
	issues         vizspec.Issues
}

func (e *invalidError) Error() string {
	return fmt.Sprintf("%d of %d document(s) invalid", e.invalid, e.total)
}

func (e *invalidError) Unwrap() error { return e.issues }

func newValidateCmd(a *app) *cobra.Command {
	var (
		algorithm string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate VizSpec JSON files",
		Long:  "Validate VizSpec JSON documents. Reads stdin when no file or \"-\" is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			want := vizspec.Algorithm(algorithm)
			if want != "" && !want.Valid() {
				return fmt.Errorf("--algorithm: unknown algorithm %q", algorithm)
			}

			var results []check.FileResult
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				data, err := io.ReadAll(a.stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				spec, issues := check.Text(string(data), want)
				results = []check.FileResult{{Path: "<stdin>", Spec: spec, Issues: issues}}
			} else {
				var err error
				results, err = check.Files(cmd.Context(), args, want, a.cfg.Concurrency)
				if err != nil {
					return err
				}
			}
			return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, asJSON)
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Require this declared algorithm")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each valid spec in normalized form")
	return cmd
}

func report(w, summary io.Writer, results []check.FileResult, asJSON bool) error {
	var (
		invalid  int
		first    vizspec.Issues
		readErrs []string
	)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "ERROR %s: %v\n", r.Path, r.Err)
			readErrs = append(readErrs, r.Path)
		case len(r.Issues) > 0:
			invalid++
			if first == nil {
				first = r.Issues
			}
			fmt.Fprintf(w, "INVALID %s (%d issue(s))\n", r.Path, len(r.Issues))
			for _, is := range r.Issues {
				fmt.Fprintf(w, "  - [%s] %s\n", is.Code, is)
			}
		default:
			if asJSON {
				data, err := r.Spec.IndentedJSON()
				if err != nil {
					return fmt.Errorf("encode %s: %w", r.Path, err)
				}
				fmt.Fprintln(w, string(data))
				continue
			}
			fmt.Fprintf(w, "OK %s (%s, %d steps)\n", r.Path, r.Spec.Algorithm, len(r.Spec.Steps))
		}
	}

	if len(results) > 1 {
		banner.PrintValidationSummary(summary, len(results)-invalid-len(readErrs), invalid, len(readErrs))
	}
	if len(readErrs) > 0 {
		return fmt.Errorf("could not read %s", strings.Join(readErrs, ", "))
	}
	if invalid > 0 {
		return &invalidError{invalid: invalid, total: len(results), issues: first}
	}
	return nil
}

func newTraceCmd(a *app) *cobra.Command {
	var in cli.InputFlags
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the deterministic VizSpec for an input",
		Long:  "Trace an input with the built-in deterministic tracer and print the validated VizSpec.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := in.Normalize(cmd)
			if err != nil {
				return err
			}
			tracer, ok := trace.Lookup(input.Algorithm)
			if !ok {
				return fmt.Errorf("no tracer for %s", input.Algorithm)
			}
			spec, err := tracer.Trace(input)
			if err != nil {
				return err
			}
			spec, issues := vizspec.ValidateSpec(spec, input.Algorithm)
			if len(issues) > 0 {
				return issues
			}
			logging.Debug(fmt.Sprintf("traced %s: %d steps", input.Algorithm, len(spec.Steps)))
			return writeSpec(cmd.OutOrStdout(), spec)
		},
	}
	cli.BindInputFlags(cmd, &in)
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var in cli.InputFlags
	cmd := &cobra.Command{
		Use:   "generate [question]",
		Short: "Ask a model for a VizSpec, repairing invalid answers",
		Long:  "Generate a VizSpec with the configured provider. Invalid answers are sent back for repair; when the budget runs out the deterministic tracer stands in.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := in.Normalize(cmd)
			if err != nil {
				return err
			}
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				question = fmt.Sprintf("Show how %s works on this array.", input.Algorithm)
			}

			templates, err := prompt.LoadTemplates(a.cfg.PromptsFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			gen, err := a.newGenerator(ctx, a.providerConfig())
			if err != nil {
				return err
			}

			orch := repair.New(withTimeout(gen, a.cfg.Timeout()))
			orch.Prompts = prompt.NewBuilder(templates)
			orch.MaxRepairs = a.cfg.MaxRepairs
			orch.Temperature = a.cfg.Temperature
			orch.MaxTokens = a.cfg.MaxTokens

			stderr := cmd.ErrOrStderr()
			banner.PrintStartupBanner(stderr, banner.RunInfo{
				Provider:   a.cfg.Provider,
				Model:      a.cfg.Model,
				Algorithm:  string(input.Algorithm),
				Values:     len(input.Array),
				MaxRepairs: a.cfg.MaxRepairs,
			})
			start := time.Now()
			res, err := orch.GenerateValidatedSpec(ctx, repair.Request{Question: question, Input: input})
			if err != nil {
				var exhausted *repair.BudgetExhaustedError
				if errors.As(err, &exhausted) {
					banner.PrintExhaustedBanner(stderr, exhausted.Attempts, repair.Hints(exhausted.Issues))
				}
				return err
			}
			logging.Debug(fmt.Sprintf("run %s finished", res.RunID))
			banner.PrintCompletionBanner(stderr, string(res.Source), res.Attempts, len(res.Spec.Steps), int(time.Since(start).Seconds()))
			return writeSpec(cmd.OutOrStdout(), res.Spec)
		},
	}
	cli.BindInputFlags(cmd, &in)
	return cmd
}

func (a *app) providerConfig() ai.ProviderConfig {
	return ai.ProviderConfig{
		Provider:          a.cfg.Provider,
		Model:             a.cfg.Model,
		BaseURL:           a.cfg.BaseURL,
		APIKey:            a.cfg.APIKey(),
		Timeout:           a.cfg.Timeout(),
		MaxTransportRetry: a.cfg.MaxTransportRetry,
		OnRetry: func(attempt int, delay time.Duration) {
			logging.Warn(fmt.Sprintf("Transport retry %d in %s", attempt, delay))
		},
		Stderr: os.Stderr,
	}
}

// withTimeout bounds every generator call by d.
func withTimeout(gen ai.Generator, d time.Duration) ai.Generator {
	return ai.GeneratorFunc(func(ctx context.Context, msgs []ai.Message, opts ai.Options) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return gen.GenerateText(ctx, msgs, opts)
	})
}

func writeSpec(w io.Writer, spec *vizspec.VizSpec) error {
	data, err := spec.IndentedJSON()
	if err != nil {
		return fmt.Errorf("encode spec: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
