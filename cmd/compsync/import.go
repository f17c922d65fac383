package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"compsync/internal/modkit"
	"compsync/internal/modkit/module"
	"compsync/internal/platform/config"
	"compsync/internal/platform/logger"
	empmod "compsync/internal/services/employees/module"
	"compsync/internal/services/fanout"
	"compsync/internal/services/importer/domain"
	importmod "compsync/internal/services/importer/module"
)

func importCmd() *cobra.Command {
	var (
		org     string
		file    string
		mode    string
		confirm bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an employee spreadsheet for one organization",
		Long: `Import a CSV or xlsx employee file and wait for the run to finish.

Examples:
  compsync import --org 7b1c0e6a-3f0e-4b5c-9d55-0a6f7d0f5a11 --file people.csv
  compsync import --org ... --file people.xlsx --mode replace --replace-confirm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := domain.ParseMode(mode)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			deps := modkit.Deps{Log: logger.Get(), Cfg: config.New(), PG: st.PG, Cache: st.Cache}
			employees := empmod.New(deps)
			imports := importmod.New(deps, modkit.WithPorts(importmod.Ports{
				Writer:   module.MustPortsOf[empmod.Ports](employees).Writer,
				Notifier: fanout.New(st.Cache),
			}))
			runner := module.MustPortsOf[importmod.RunnerPort](imports)

			acc, err := runner.Start(ctx, domain.Request{
				OrgID:       org,
				Data:        data,
				ContentType: mime.TypeByExtension(filepath.Ext(file)),
				Filename:    filepath.Base(file),
				Mode:        m,
				Confirmed:   confirm,
			})
			if err != nil {
				return err
			}
			logger.Get().Info().Str("run_id", acc.RunID).Int("total", acc.Total).Msg("import started")

			// the run outlives ctx, so Ctrl-C is forwarded as a cancel
			done := make(chan struct{})
			defer close(done)
			go func() {
				select {
				case <-ctx.Done():
					_ = runner.Cancel(acc.RunID)
				case <-done:
				}
			}()
			res, err := runner.Wait(context.WithoutCancel(ctx), acc.RunID)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if werr := enc.Encode(res); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization id (uuid)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or xlsx file")
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeUpsert), "upsert or replace")
	cmd.Flags().BoolVar(&confirm, "replace-confirm", false, "confirm deleting existing employees in replace mode")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
