package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import the exam dataset CSVs into the database",
	Long: "Import reads ExamResult.csv, ExamQuestionResult.csv, ExamAnswerResult.csv, " +
		"Question.csv, and Answer.csv from the given directory, replacing any " +
		"previously imported dataset.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.ImportDataset(context.Background(), args[0]); err != nil {
			return fmt.Errorf("import dataset: %w", err)
		}

		fmt.Println("Dataset imported.")
		return nil
	},
}
