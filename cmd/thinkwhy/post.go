package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ThinkWhy/internal/archive"
	"ThinkWhy/internal/backend"
	"ThinkWhy/internal/config"
	"ThinkWhy/internal/optimizer"
	"ThinkWhy/internal/rewriter"
)

func newPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post",
		Short: "Interactively optimize and refine social media posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.cleanup()

			if rt.cfg.MissingCredential() {
				rt.logger.Warn("no API key configured", "env", []string{config.EnvAPIKey, config.EnvGeminiAPIKey})
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no API key found. Set %s or %s; requests will fail until one is configured.\n",
					config.EnvAPIKey, config.EnvGeminiAPIKey)
			}

			gen, err := backend.New(rt.cfg.LLM, rt.logger, rt.tracer, rt.meter)
			if err != nil {
				return fmt.Errorf("failed to initialize backend: %w", err)
			}
			rw, err := rewriter.New(gen, rt.logger, rt.tracer, rt.meter)
			if err != nil {
				return fmt.Errorf("failed to initialize rewriter: %w", err)
			}

			var arch optimizer.Archiver
			if rt.cfg.ArchivePath != "" {
				a, err := archive.Open(rt.cfg.ArchivePath, rt.logger)
				if err != nil {
					return fmt.Errorf("failed to initialize archive: %w", err)
				}
				defer a.Close()
				arch = a
			}

			app := optimizer.NewApp(rw, arch, rt.logger, cmd.InOrStdin(), cmd.OutOrStdout())
			return app.Run(ctx)
		},
	}
}
