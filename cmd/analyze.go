package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a learner's latest attempt and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		contentID, _ := cmd.Flags().GetString("content")
		learnerID, _ := cmd.Flags().GetString("learner")
		maxCourses, _ := cmd.Flags().GetInt("max-courses")
		rerank, _ := cmd.Flags().GetBool("rerank")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		p, err := buildEngine(ctx, s, engineOptions{
			maxCourses: maxCourses,
			rerank:     rerank,
		})
		if err != nil {
			return err
		}

		res, err := p.Run(ctx, contentID, learnerID)
		if err != nil {
			return fmt.Errorf("run analysis: %w", err)
		}

		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("content", "", "Exam content id")
	analyzeCmd.Flags().String("learner", "", "Learner id")
	analyzeCmd.Flags().Int("max-courses", 0, "Maximum courses in the recommendation list")
	analyzeCmd.Flags().Bool("rerank", false, "Re-rank selected courses per weakness with the LLM")
	analyzeCmd.MarkFlagRequired("content")
	analyzeCmd.MarkFlagRequired("learner")
}
