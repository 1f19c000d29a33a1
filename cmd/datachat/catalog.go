package main

import (
	"context"
	"fmt"

	"github.com/cortexai/datachat/internal/config"
	"github.com/cortexai/datachat/internal/handler"
	"github.com/cortexai/datachat/internal/models"
	"github.com/cortexai/datachat/internal/warehouse"
	"github.com/spf13/cobra"
)

func newDatabasesCmd(flags *globalFlags) *cobra.Command {
	var direct bool
	cmd := &cobra.Command{
		Use:   "databases",
		Short: "List the databases known to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, a, err := flags.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if direct {
				bq, ok := a.Executor.(*warehouse.BigQuery)
				if !ok {
					return fmt.Errorf("--warehouse needs warehouse_driver=%s, have %q", config.DriverBigQuery, cfg.WarehouseDriver)
				}
				ids, err := bq.ListDatasets(ctx)
				if err != nil {
					return err
				}
				res := &models.QueryResult{Columns: []string{"dataset_id"}}
				for _, id := range ids {
					res.Rows = append(res.Rows, map[string]interface{}{"dataset_id": id})
				}
				fmt.Fprintln(out, renderTable(res, 0))
				return nil
			}

			res, err := a.Backend.ListDatabases(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderTable(res, 0))
			return nil
		},
	}
	cmd.Flags().BoolVar(&direct, "warehouse", false, "list datasets straight from BigQuery instead of the backend")
	return cmd
}

func newQuestionsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List known questions for the configured dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, a, err := flags.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Backend.KnownSQL(ctx, cfg.Database())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, q := range handler.Questions(res) {
				fmt.Fprintln(out, styleDimmed.Render("•"), q)
			}
			return nil
		},
	}
}
