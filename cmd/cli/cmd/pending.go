package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List requests awaiting a decision",
	Long:  `The cloud controller's view: every request still PENDING, in submission order.`,
	Run: func(cmd *cobra.Command, args []string) {
		coord, _, err := openCore()
		if err != nil {
			cmd.Printf("Failed to open data dir: %v\n", err)
			return
		}

		pending := coord.PendingRequests(context.Background())
		if len(pending) == 0 {
			cmd.Println("No pending requests.")
			return
		}

		table := newTable()
		table.AddRow("ID", "CLIENT", "TYPE", "SUBMITTED", "DATA")
		for _, req := range pending {
			table.AddRow(req.ID,
				req.ClientName,
				requestTypeLabel(string(req.Type)),
				formatTimestamp(req.Timestamp),
				req.Data)
		}
		cmd.Println(table.String())
	},
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}
