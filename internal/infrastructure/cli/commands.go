package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/infrastructure/policy"
	"github.com/gemforge/gemforge/internal/services"
)

func newChatCommand(holder *containerHolder) *cobra.Command {
	var (
		model   string
		rounds  int
		yes     bool
		noCache bool
		debug   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat [query]",
		Short: "Run a query through the feedback loop",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			req := domain.ChatRequest{
				Context:       ctx,
				Query:         strings.Join(args, " "),
				ModelOverride: model,
				SandboxRoot:   holder.sandboxRoot,
				Rounds:        rounds,
				AutoApprove:   yes,
				NoCache:       noCache,
				Debug:         debug,
			}
			resp, err := container.ChatService.Run(req)
			NewRenderer(cmd.OutOrStdout()).RenderChat(resp)
			return err
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().IntVarP(&rounds, "rounds", "r", domain.DefaultMaxRounds, "Max feedback rounds")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Run confirm-flagged commands without prompting (blocked commands still refuse)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the response cache")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall deadline for the loop")

	return cmd
}

func newRunCommand(holder *containerHolder) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "run <reply-file|->",
		Short: "Execute a saved reply without calling the generation service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			reply, err := readReply(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			outcome, err := container.RoundService.RunRound(cmd.Context(), reply, services.RoundOptions{AutoApprove: yes})
			renderer := NewRenderer(cmd.OutOrStdout())
			renderer.RenderResults(outcome.Results)
			if outcome.UserMessage != "" {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), outcome.UserMessage)
			}
			if err != nil {
				return err
			}
			if n := outcome.FailureCount(); n > 0 {
				return fmt.Errorf("%d of %d actions failed", n, len(outcome.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Run confirm-flagged commands without prompting")
	return cmd
}

func readReply(arg string, stdin io.Reader) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newExecCommand(holder *containerHolder) *cobra.Command {
	var (
		model   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "exec [query]",
		Short: "Run a query with the remote code-execution tool",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := container.ExecService.Run(domain.ExecRequest{
				Context:       cmd.Context(),
				Query:         strings.Join(args, " "),
				ModelOverride: model,
				NoCache:       noCache,
			})
			if err != nil {
				return err
			}
			NewRenderer(cmd.OutOrStdout()).RenderExec(resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the response cache")
	return cmd
}

func newScaffoldCommand(holder *containerHolder) *cobra.Command {
	var (
		model     string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "scaffold [description]",
		Short: "Generate a codebase from a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := container.ScaffoldService.Run(domain.ScaffoldRequest{
				Context:       cmd.Context(),
				Description:   strings.Join(args, " "),
				OutputDir:     outputDir,
				ModelOverride: model,
			})
			NewRenderer(cmd.OutOrStdout()).RenderScaffold(resp)
			return err
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for generated files, relative to the sandbox root")
	return cmd
}

func newHistoryCommand(holder *containerHolder) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the round audit log",
	}

	var (
		limit  int
		search string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			records, err := container.HistoryStore.Records(limit, search)
			if err != nil {
				return err
			}
			NewRenderer(cmd.OutOrStdout()).RenderHistory(records)
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	listCmd.Flags().StringVar(&search, "search", "", "Filter by prompt or session id")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			return container.HistoryStore.Clear()
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the audit log as jsonl",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			if err := container.HistoryStore.ExportJSON(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the audit log location",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.HistoryStore.Path())
			return nil
		},
	}

	historyCmd.AddCommand(listCmd, clearCmd, exportCmd, pathCmd)
	return historyCmd
}

func newConfigCommand(holder *containerHolder) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gemforge configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), holder)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), holder)
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd)
	return configCmd
}

func runConfigShow(ctx context.Context, out io.Writer, holder *containerHolder) error {
	container, err := holder.build(ctx)
	if err != nil {
		return err
	}
	cfg, err := container.ConfigLoader.Load(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

func newPolicyCommand(holder *containerHolder) *cobra.Command {
	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the execution policy",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective deny patterns and allowlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := container.ConfigLoader.Load(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := policy.LoadDocument(cfg.Security.RulesFile)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the policy rules file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := container.ConfigLoader.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), policy.RulesPath(cfg.Security.RulesFile))
			return nil
		},
	}

	policyCmd.AddCommand(showCmd, pathCmd)
	return policyCmd
}

func newDoctorCommand(holder *containerHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := holder.build(cmd.Context())
			if err != nil {
				return err
			}
			report, err := container.DoctorService.Run(cmd.Context())
			NewRenderer(cmd.OutOrStdout()).RenderDoctor(report)
			if err != nil {
				return err
			}
			if !report.Healthy() {
				return fmt.Errorf("environment has failing checks")
			}
			return nil
		},
	}
}
