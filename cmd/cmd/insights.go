package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"careerly/internal/insights"
	"careerly/internal/llm"
)

var insightsCmd = &cobra.Command{
	Use:   "insights <industry>",
	Short: "Generate insights for an industry and print them as JSON",
	Long: `Runs the generation pipeline (prompt, model call, extraction,
normalization) for one industry without touching the database. Useful for
inspecting what the model produces for a given industry string.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := llm.NewClient("")
		if err != nil {
			return err
		}
		defer client.Close()

		gen := insights.NewGenerator(client)
		insight, err := gen.Generate(ctx, args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(insight, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}
