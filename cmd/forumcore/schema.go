package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/forumcore/internal/app"
	"github.com/yungbote/forumcore/internal/data/schema"
)

func schemaCMD() *cobra.Command {
	var format string
	var check bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the table catalog and cascade rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := schema.Validate(); err != nil {
				return err
			}
			cat, err := schema.Describe()
			if err != nil {
				return err
			}
			if err := writeCatalog(cmd.OutOrStdout(), format, cat); err != nil {
				return err
			}
			if !check {
				return nil
			}
			return checkTables(cmd.Context(), cmd.OutOrStdout(), cat)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&check, "check", false, "connect to the database and count rows in every table")
	return cmd
}

func writeCatalog(w io.Writer, format string, cat *schema.Catalog) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}
	return fmt.Errorf("unknown format %q", format)
}

// checkTables counts rows in every catalog table concurrently. A table that is
// missing from the database fails the check.
func checkTables(ctx context.Context, w io.Writer, cat *schema.Catalog) error {
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	var mu sync.Mutex
	counts := make(map[string]int64, len(cat.Tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, t := range cat.Tables {
		name := t.Name
		g.Go(func() error {
			var n int64
			if err := a.DB.DB().WithContext(gctx).Table(name).Count(&n).Error; err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			mu.Lock()
			counts[name] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-28s %d\n", name, counts[name])
	}
	return nil
}
