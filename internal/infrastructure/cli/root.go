// Package cli exposes the cobra command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemforge/gemforge/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// containerHolder defers dependency wiring until after flag parsing so the
// persistent --config and --sandbox flags can shape the container.
type containerHolder struct {
	verbose     bool
	configPath  string
	sandboxRoot string
	container   *app.Container
}

func (h *containerHolder) build(ctx context.Context) (*app.Container, error) {
	if h.container != nil {
		return h.container, nil
	}
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:     h.verbose,
		ConfigPath:  h.configPath,
		SandboxRoot: h.sandboxRoot,
		Prompter:    NewPrompter(nil, nil),
	})
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	h.container = container
	return container, nil
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(_ context.Context, opts Options) (*cobra.Command, error) {
	holder := &containerHolder{verbose: opts.Verbose}

	chatCmd := newChatCommand(holder)

	root := &cobra.Command{
		Use:   "gemforge [query]",
		Short: "gemforge - Gemini-backed coding assistant",
		Long:  "gemforge turns natural-language queries into sandboxed file and command actions through a feedback loop with the Gemini API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			chatCmd.SetArgs(args)
			return chatCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&holder.configPath, "config", "", "Config file path (default ~/.gemforge/config.yaml)")
	root.PersistentFlags().StringVar(&holder.sandboxRoot, "sandbox", "", "Sandbox root for file and command actions (default from config)")

	root.AddCommand(chatCmd)
	root.AddCommand(newRunCommand(holder))
	root.AddCommand(newExecCommand(holder))
	root.AddCommand(newScaffoldCommand(holder))
	root.AddCommand(newHistoryCommand(holder))
	root.AddCommand(newConfigCommand(holder))
	root.AddCommand(newPolicyCommand(holder))
	root.AddCommand(newDoctorCommand(holder))
	root.AddCommand(newVersionCommand())
	return root, nil
}
