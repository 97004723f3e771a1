package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/talentmatch/internal/domain/envelope"
	"github.com/kailas-cloud/talentmatch/internal/domain/role"
)

const (
	attachCommand = "/file "
	quitCommand   = "/quit"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	flags := &turnFlags{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation with the assistant",
		Long: "Interactive conversation with the assistant. The session is kept between turns.\n" +
			"Type \"/file <path>\" to upload a resume or job description, \"/quit\" to leave.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := newApplication(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			orch, err := a.orch.Get()
			if err != nil {
				return fmt.Errorf("build orchestrator: %w", err)
			}

			if flags.role == "" {
				selectRole := promptui.Select{
					Label: "Who are you?",
					Items: []string{string(role.Candidate), string(role.Recruiter)},
				}
				if _, flags.role, err = selectRole.Run(); err != nil {
					return nil //nolint:nilerr // interrupted before the first turn
				}
			}

			out := cmd.OutOrStdout()
			for {
				input := promptui.Prompt{Label: flags.role}
				line, err := input.Run()
				if err != nil {
					if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
						return nil
					}
					return fmt.Errorf("read input: %w", err)
				}

				line = strings.TrimSpace(line)
				if line == quitCommand {
					return nil
				}
				if line == "" {
					continue
				}

				req, err := flags.request(line)
				if path, ok := strings.CutPrefix(line, attachCommand); ok {
					flags.file = strings.TrimSpace(path)
					req, err = flags.request("")
					flags.file = ""
				}
				if err != nil {
					fmt.Fprintln(out, err)
					continue
				}

				env := orch.Run(ctx, req)
				flags.sessionID = env.SessionID
				renderEnvelope(out, env)
			}
		},
	}
	flags.register(cmd)
	return cmd
}

// renderEnvelope prints an envelope for a terminal.
func renderEnvelope(w io.Writer, env envelope.Envelope) {
	fmt.Fprintf(w, "\n%s\n", env.Message)
	for _, c := range env.UIComponents {
		fmt.Fprintf(w, "  [%s]\n", c.Type)
		if items, ok := c.Props["items"].([]map[string]any); ok {
			for i, it := range items {
				label := it["name"]
				if label == nil {
					label = fmt.Sprintf("%v, %v", it["title"], it["company"])
				}
				fmt.Fprintf(w, "    %d. %v (%.1f)\n", i+1, label, it["match_score"])
			}
		}
	}
	for _, a := range env.Actions {
		fmt.Fprintf(w, "  > %s (%s)\n", a.Label, a.Action)
	}
	fmt.Fprintln(w)
}
