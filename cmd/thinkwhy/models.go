package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ThinkWhy/internal/backend"
	"ThinkWhy/internal/config"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models installed on the configured Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.cleanup()

			llm := rt.cfg.LLM
			lister := backend.NewOllamaLister(llm)
			models, err := lister.ListModels(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Available Ollama models at %s:\n", lister.BaseURL())
			for i, model := range models {
				sizeGB := float64(model.Size) / (1024 * 1024 * 1024)
				current := ""
				if llm.Provider == config.ProviderOllama && model.Name == llm.Model {
					current = " (current)"
				}
				fmt.Fprintf(out, "%d. %s - %.2f GB%s\n", i+1, model.Name, sizeGB, current)
			}
			return nil
		},
	}
}
