// Command compsync runs imports and schema maintenance from a shell
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"compsync/internal/core/version"
	"compsync/internal/platform/config"
	"compsync/internal/platform/logger"
	"compsync/internal/platform/store"
)

func main() {
	_ = godotenv.Load()
	logger.Init(logger.FromEnv())

	root := &cobra.Command{
		Use:           "compsync",
		Short:         "Bulk employee compensation imports",
		Version:       version.Info("compsync").Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(importCmd(), templateCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore connects using SERVICE_PGSQL_* and SERVICE_REDIS_*
func openStore(ctx context.Context) (*store.Store, func(), error) {
	l := logger.Get()
	st, err := store.Open(ctx, store.ConfigFrom(config.New(), "compsync-cli"), store.WithLogger(*l))
	if err != nil {
		return nil, nil, err
	}
	return st, func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}, nil
}
