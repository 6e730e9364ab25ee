package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examlens/internal/catalog"
	"github.com/abhisek/examlens/internal/llm"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Manage the course catalog",
}

var coursesLoadCmd = &cobra.Command{
	Use:   "load <csv>",
	Short: "Load a course catalog CSV into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courses, err := catalog.LoadCoursesFile(args[0])
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			return fmt.Errorf("no courses found in %s", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.ReplaceCourses(context.Background(), courses); err != nil {
			return fmt.Errorf("store courses: %w", err)
		}

		fmt.Printf("Loaded %d courses.\n", len(courses))
		return nil
	},
}

var coursesIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the stored catalog and verify the search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		provider, err := llm.NewProviderFromEnv(ctx, s)
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}
		embedder, ok := provider.(llm.Embedder)
		if !ok {
			return fmt.Errorf("provider %s does not support embeddings", provider.ModelID())
		}

		courses, err := s.Courses(ctx)
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			return fmt.Errorf("course catalog is empty; run 'examlens courses load' first")
		}

		index := catalog.NewMemoryIndex(embedder)
		if err := index.Index(ctx, courses); err != nil {
			return fmt.Errorf("index catalog: %w", err)
		}

		fmt.Printf("Indexed %d courses.\n", index.Len())
		return nil
	},
}

func init() {
	coursesCmd.AddCommand(coursesLoadCmd)
	coursesCmd.AddCommand(coursesIndexCmd)
}
