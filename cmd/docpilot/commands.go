package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agusespa/docpilot/internal/agent"
	"github.com/agusespa/docpilot/internal/llm"
	"github.com/agusespa/docpilot/internal/pipeline"
	"github.com/agusespa/docpilot/internal/prompts"
	"github.com/agusespa/docpilot/internal/pullrequest"
	"github.com/agusespa/docpilot/internal/tools"
	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/pkg/config"
	"github.com/agusespa/docpilot/pkg/spinner"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var errApplyFailed = errors.New("one or more documentation updates failed")

// diffFlags are shared by every command that starts from a diff.
type diffFlags struct {
	base       string
	head       string
	staged     bool
	worktree   bool
	output     string
	configPath string
	repo       string
}

func (f *diffFlags) register(cmd *cobra.Command, repoShorthand string) {
	flags := cmd.Flags()
	flags.StringVarP(&f.base, "base", "b", "", "Base reference (default HEAD~1)")
	flags.StringVar(&f.head, "head", "", "Head reference (default HEAD)")
	flags.BoolVarP(&f.staged, "staged", "s", false, "Analyze staged changes")
	flags.BoolVar(&f.worktree, "worktree", false, "Analyze uncommitted changes against HEAD")
	flags.StringVarP(&f.output, "output", "o", outputText, "Output format: text or json")
	flags.StringVarP(&f.configPath, "config", "c", "", "Path to docpilot.yml")
	flags.StringVarP(&f.repo, "repo", repoShorthand, ".", "Repository path")
	cmd.MarkFlagsMutuallyExclusive("staged", "worktree")
}

func (f *diffFlags) options() pipeline.Options {
	return pipeline.Options{
		Base:     f.base,
		Head:     f.head,
		Staged:   f.staged,
		Worktree: f.worktree,
	}
}

func (f *diffFlags) validate() error {
	if f.output != outputText && f.output != outputJSON {
		return fmt.Errorf("unsupported output format %q (use text or json)", f.output)
	}
	return nil
}

func (f *diffFlags) loadConfig() (*config.Config, error) {
	path := f.configPath
	if path == "" {
		path = config.FindConfigFile(f.repo)
	}
	if path == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.Debug("loaded configuration", "path", path)
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "docpilot",
		Short:         "Keep documentation in sync with code changes",
		Long:          "DocPilot maps a git diff onto the documentation it affects, scores each target and writes the updates.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newAnalyzeCmd(), newGenerateCmd(), newPRCmd(), newEvalCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docpilot version %s\n", version)
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var flags diffFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show which documentation a diff affects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			p, err := buildPipeline(cmd.Context(), &flags)
			if err != nil {
				return err
			}

			result, err := p.RunAnalyze(cmd.Context(), flags.options())
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			return printReport(cmd.OutOrStdout(), flags.output, result.Report, func() string {
				return agent.RenderAnalysisText(result.Report)
			})
		},
	}
	flags.register(cmd, "")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var flags diffFlags
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write documentation updates for a diff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			report, _, err := runGeneration(cmd.Context(), &flags, dryRun)
			if err != nil {
				return err
			}

			if err := printReport(cmd.OutOrStdout(), flags.output, report, func() string {
				return agent.RenderGenerationText(report)
			}); err != nil {
				return err
			}
			if !report.Success() {
				return errApplyFailed
			}
			return nil
		},
	}
	flags.register(cmd, "t")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview changes without writing files")
	return cmd
}

func newPRCmd() *cobra.Command {
	var flags diffFlags
	var dryRun, draft bool
	var targetBranch, title, remote string

	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Write documentation updates and plan the pull request that publishes them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			gitRepo := tools.NewGitRepo(flags.repo)
			remoteURL, err := gitRepo.RemoteURL(cmd.Context(), remote)
			if err != nil {
				return fmt.Errorf("failed to read remote %s: %w", remote, err)
			}
			repository, err := pullrequest.ParseRemoteURL(remoteURL)
			if err != nil {
				return err
			}

			report, mapping, err := runGeneration(cmd.Context(), &flags, dryRun)
			if err != nil {
				return err
			}
			if !report.Success() {
				if err := printReport(cmd.OutOrStdout(), flags.output, report, func() string {
					return agent.RenderGenerationText(report)
				}); err != nil {
					return err
				}
				return errApplyFailed
			}

			sourceBranch, err := gitRepo.CurrentBranch(cmd.Context())
			if err != nil {
				slog.Debug("could not resolve current branch", "error", err)
			}

			plan := pullrequest.BuildPlan(mapping, report.Apply, pullrequest.Options{
				Repository:   repository,
				TargetBranch: targetBranch,
				SourceBranch: sourceBranch,
				Title:        title,
				Draft:        draft,
			})
			return printReport(cmd.OutOrStdout(), flags.output, plan, func() string {
				return renderPlanText(plan)
			})
		},
	}
	flags.register(cmd, "")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview changes without writing files")
	cmd.Flags().StringVar(&targetBranch, "target-branch", pullrequest.DefaultTargetBranch, "Branch the pull request targets")
	cmd.Flags().BoolVarP(&draft, "draft", "d", false, "Open the pull request as a draft")
	cmd.Flags().StringVar(&title, "title", "", "Pull request title (derived from the change type when empty)")
	cmd.Flags().StringVar(&remote, "remote", "origin", "Git remote that hosts the repository")
	return cmd
}

func buildPipeline(ctx context.Context, flags *diffFlags) (*pipeline.DocumentationPipeline, error) {
	cfg, err := flags.loadConfig()
	if err != nil {
		return nil, err
	}

	writer, err := newWriter(cfg)
	if err != nil {
		return nil, err
	}

	return pipeline.New(ctx, flags.repo, cfg, writer)
}

// newWriter picks the content generator named by llm.provider.
func newWriter(cfg *config.Config) (agent.Writer, error) {
	if cfg.LLM.Provider == "" || cfg.LLM.Provider == "template" {
		return agent.NewTemplateWriter(), nil
	}

	provider, err := llm.NewProvider(llm.ProviderConfig{
		Type:    llm.ProviderType(cfg.LLM.Provider),
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	slog.Info("using language model", "provider", cfg.LLM.Provider, "model", provider.GetModel())
	writer := agent.NewLLMWriter(provider, cfg.Limits.MaxTokensPerRequest)
	if cfg.LLM.PromptVariant != "" {
		if err := writer.SetPromptVariant(cfg.LLM.PromptVariant); err != nil {
			return nil, fmt.Errorf("invalid llm.promptVariant (available: %s): %w",
				strings.Join(prompts.ListPromptVariants(), ", "), err)
		}
	}
	return writer, nil
}

// runGeneration analyzes the diff, then writes and applies the documentation
// for it. The mapping is returned for pull request planning.
func runGeneration(ctx context.Context, flags *diffFlags, dryRun bool) (*types.GenerationReport, *types.MappingResult, error) {
	p, err := buildPipeline(ctx, flags)
	if err != nil {
		return nil, nil, err
	}

	s := spinner.NewWithWriter(io.Discard, "", false)
	if flags.output == outputText {
		s = spinner.New("Analyzing changes...")
	}
	s.Start()
	defer s.Stop()

	analysis, err := p.RunAnalyze(ctx, flags.options())
	if err != nil {
		return nil, nil, fmt.Errorf("analysis failed: %w", err)
	}

	s.Update(fmt.Sprintf("Writing %d documentation target(s)...", len(analysis.Mapping.Targets)))
	report, err := p.RunGenerate(ctx, analysis, dryRun)
	if err != nil {
		return nil, nil, err
	}
	return report, analysis.Mapping, nil
}

func printReport(w io.Writer, format string, v any, text func() string) error {
	if format == outputJSON {
		out, err := agent.RenderJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}
	_, err := fmt.Fprint(w, text())
	return err
}

func renderPlanText(plan *pullrequest.Plan) string {
	draft := ""
	if plan.Draft {
		draft = " (draft)"
	}
	return fmt.Sprintf("Pull request for %s%s\n  %s -> %s\n  Title: %s\n  Labels: %v\n  Files: %v\n\n%s",
		plan.Repository, draft, plan.Branch, plan.TargetBranch, plan.Title, plan.Labels, plan.Files, plan.Body)
}
