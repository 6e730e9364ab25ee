package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examlens/internal/config"
	"github.com/abhisek/examlens/internal/server"
	"github.com/abhisek/examlens/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis engine over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var s *store.Store
		if cfg.DBPath != "" {
			s, err = store.Open(cfg.DBPath)
		} else {
			s, err = openStore(cmd)
		}
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		p, err := buildEngine(ctx, s, engineOptions{
			maxCourses:           cfg.MaxCourses,
			neighborsPerWeakness: cfg.Search.NeighborsPerWeakness,
			rerank:               cfg.Rerank,
		})
		if err != nil {
			return err
		}

		srv := server.New(p, cfg.GinMode)
		fmt.Printf("listening on %s\n", cfg.ServerAddr)
		return srv.Run(cfg.ServerAddr)
	},
}
