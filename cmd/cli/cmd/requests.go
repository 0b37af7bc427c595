package cmd

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"vcrts/pkg/api"
)

var requestsCmd = &cobra.Command{
	Use:   "requests [client_id]",
	Short: "List a client's requests and their statuses",
	Long:  `The client's view: its pending requests first, then decided ones.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		clientID, err := strconv.Atoi(args[0])
		if err != nil {
			cmd.Printf("Error: client_id must be numeric, got %q\n", args[0])
			return
		}

		coord, _, err := openCore()
		if err != nil {
			cmd.Printf("Failed to open data dir: %v\n", err)
			return
		}

		requests := coord.ClientRequests(context.Background(), clientID)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			summaries := make([]api.RequestSummary, 0, len(requests))
			for _, req := range requests {
				summaries = append(summaries, api.RequestSummary{
					ID:              req.ID,
					ClientID:        req.ClientID,
					ClientName:      req.ClientName,
					Type:            string(req.Type),
					Data:            req.Data,
					Status:          string(req.Status),
					Timestamp:       req.Timestamp,
					ResponseMessage: req.ResponseMessage,
				})
			}
			out, err := json.MarshalIndent(summaries, "", "  ")
			if err != nil {
				cmd.Printf("Failed to encode requests: %v\n", err)
				return
			}
			cmd.Println(string(out))
			return
		}

		if len(requests) == 0 {
			cmd.Printf("No requests for client %d.\n", clientID)
			return
		}

		table := newTable()
		table.AddRow("ID", "TYPE", "STATUS", "SUBMITTED", "MESSAGE")
		for _, req := range requests {
			table.AddRow(req.ID,
				requestTypeLabel(string(req.Type)),
				colorizeStatus(string(req.Status)),
				formatTimestamp(req.Timestamp),
				req.ResponseMessage)
		}
		cmd.Println(table.String())
	},
}

func init() {
	requestsCmd.Flags().Bool("json", false, "Emit machine-readable JSON instead of a table")
	rootCmd.AddCommand(requestsCmd)
}
