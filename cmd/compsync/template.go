package main

import (
	"os"

	"github.com/spf13/cobra"

	"compsync/internal/services/importer/service"
)

func templateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the blank upload template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(service.Template())
				return err
			}
			return os.WriteFile(out, service.Template(), 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path, - for stdout")
	return cmd
}
