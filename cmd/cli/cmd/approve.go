package cmd

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"vcrts/internal/coordinator"
)

var approveCmd = &cobra.Command{
	Use:   "approve [request_id]",
	Short: "Approve a pending request",
	Long: `Approve a pending request as the cloud controller. The request's side
effect runs first (vehicle registration or job creation); a malformed
payload leaves the request pending.`,
	Args: cobra.ExactArgs(1),
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

		if err := coord.Approve(context.Background(), requestID, message); err != nil {
			switch {
			case errors.Is(err, coordinator.ErrNotFound):
				cmd.Printf("Request %d is not pending (already decided or unknown).\n", requestID)
			case errors.Is(err, coordinator.ErrInvalidPayload):
				cmd.Printf("Request %d has a malformed payload and stays pending: %v\n", requestID, err)
			default:
				cmd.Printf("Approve failed: %v\n", err)
			}
			return
		}

		cmd.Printf("%s Request %d approved.\n", statusIcon("APPROVED"), requestID)
	},
}

func init() {
	approveCmd.Flags().StringP("message", "m", "Request approved", "Response message shown to the client")
	rootCmd.AddCommand(approveCmd)
}
