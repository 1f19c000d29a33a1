package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cortexai/datachat/internal/models"
	"github.com/cortexai/datachat/internal/render"
	"github.com/spf13/cobra"
)

func newAskCmd(flags *globalFlags) *cobra.Command {
	var (
		maxRows int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Run one question through the pipeline and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, a, err := flags.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			question := strings.Join(args, " ")
			s := a.Conversations.Create()
			reply := a.Orchestrator.Handle(ctx, s, question)

			out := cmd.OutOrStdout()
			if asJSON {
				resp := models.ChatResponse{
					Status:      "success",
					Message:     reply.Message,
					Succeeded:   reply.Succeeded,
					Stages:      reply.StageNames(),
					FailureKind: reply.FailureKind,
					Turns:       s.Len(),
				}
				if reply.Succeeded {
					resp.SQL = reply.SQL
					resp.Columns = reply.Result.Columns
					resp.Rows = reply.Result.Matrix()
					resp.Charts = reply.Charts
					resp.ChartDocuments = render.ChartDocuments(reply.Charts)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			if !reply.Succeeded {
				fmt.Fprintln(out, styleApology.Render(reply.Message))
				return nil
			}
			fmt.Fprintln(out, styleAnswer.Render(reply.Message))
			fmt.Fprintln(out, renderTable(reply.Result, maxRows))
			fmt.Fprintln(out, styleSQL.Render(reply.SQL))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxRows, "max-rows", 50, "rows to print (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reply as the /chat JSON response")
	return cmd
}
