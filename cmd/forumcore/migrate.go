package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/forumcore/internal/app"
)

func migrateCMD() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables, foreign keys and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := app.New(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			start := time.Now()
			if err := a.DB.Migrate(ctx); err != nil {
				return err
			}
			a.Log.Info("migration finished", "driver", a.Cfg.DB.Driver, "took", time.Since(start).String())
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "abort the migration after this long")
	return cmd
}
