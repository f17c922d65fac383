package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"compsync/internal/platform/store/schema"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded postgres schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeStore, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			if st.PG == nil {
				return fmt.Errorf("postgres is disabled (SERVICE_PGSQL_ENABLED)")
			}

			applied, err := schema.Apply(cmd.Context(), st.PG)
			if err != nil {
				return err
			}
			for _, f := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", f)
			}
			return nil
		},
	}
}
