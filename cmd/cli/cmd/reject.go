package cmd

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"vcrts/internal/coordinator"
)

var rejectCmd = &cobra.Command{
	Use:   "reject [request_id]",
	Short: "Reject a pending request",
	Long:  `Reject a pending request as the cloud controller. No side effect runs.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requestID, err := strconv.Atoi(args[0])
		if err != nil {
			cmd.Printf("Error: request_id must be numeric, got %q\n", args[0])
			return
		}
		message, _ := cmd.Flags().GetString("message")

		coord, _, err := openCore()
		if err != nil {
			cmd.Printf("Failed to open data dir: %v\n", err)
			return
		}

		if err := coord.Reject(context.Background(), requestID, message); err != nil {
			if errors.Is(err, coordinator.ErrNotFound) {
				cmd.Printf("Request %d is not pending (already decided or unknown).\n", requestID)
			} else {
				cmd.Printf("Reject failed: %v\n", err)
			}
			return
		}

		cmd.Printf("%s Request %d rejected.\n", statusIcon("REJECTED"), requestID)
	},
}

func init() {
	rejectCmd.Flags().StringP("message", "m", "Request rejected", "Reason shown to the client")
	rootCmd.AddCommand(rejectCmd)
}
