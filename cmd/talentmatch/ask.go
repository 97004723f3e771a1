package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/talentmatch/internal/usecase/orchestrator"
)

// turnFlags describe one orchestrated request from the command line.
type turnFlags struct {
	userID      string
	role        string
	sessionID   string
	contextType string
	contextIDs  []string
	file        string
}

func (f *turnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.userID, "user", "u", "cli-user", "user id")
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "candidate or recruiter")
	cmd.Flags().StringVarP(&f.sessionID, "session", "s", "", "continue an existing session")
	cmd.Flags().StringVar(&f.contextType, "context-type", "", "resume, job, resume_job or multi_resume")
	cmd.Flags().StringSliceVar(&f.contextIDs, "context-id", nil, "ids of the records in view")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "attach a resume or job description file")
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	flags := &turnFlags{}

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Run a single request through the orchestrator and print the response envelope",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			req, err := flags.request(strings.Join(args, " "))
			if err != nil {
				return err
			}

			env := orch.Run(ctx, req)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(env); err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// request builds an orchestrator request, reading the attachment from disk when set.
func (f *turnFlags) request(message string) (orchestrator.Request, error) {
	req := orchestrator.Request{
		Message:     message,
		UserID:      f.userID,
		Role:        f.role,
		SessionID:   f.sessionID,
		ContextType: f.contextType,
		ContextIDs:  f.contextIDs,
	}
	if f.file == "" {
		return req, nil
	}

	att, err := readAttachment(f.file)
	if err != nil {
		return orchestrator.Request{}, err
	}
	req.Attachment = att
	return req, nil
}

func readAttachment(path string) (*orchestrator.Attachment, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read attachment %s: %w", path, err)
	}
	return &orchestrator.Attachment{FileName: filepath.Base(path), Content: string(data)}, nil
}
