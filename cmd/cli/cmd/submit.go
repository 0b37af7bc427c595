package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vcrts/internal/coordinator"
	"vcrts/internal/store"
)

var submitCmd = &cobra.Command{
	Use:   "submit vehicle|job",
	Short: "Submit a request to the cloud controller",
	Long: `Open a session for the client and submit a request for the controller
to decide. The request starts PENDING; follow it with 'vcrtsctl requests'
or 'vcrtsctl watch'.

Examples:
  vcrtsctl submit vehicle --client-id 7 --model Civic --make Honda --year 2020 --vin VIN123 --residency 01:00:00
  vcrtsctl submit job --client-id 8 --job-id J-100 --job-name "Render frames" --duration 02:30:00 --deadline 2026-12-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"vehicle", "job"},
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		clientID, _ := flags.GetInt("client-id")

		if clientID == 0 {
			cmd.Println("Error: --client-id is required")
			return
		}

		coord, st, err := openCore()
		if err != nil {
			cmd.Printf("Failed to open data dir: %v\n", err)
			return
		}

		user, err := requireUser(st, clientID)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		var reqType store.RequestType
		var payload string
		switch args[0] {
		case "vehicle":
			model, _ := flags.GetString("model")
			make, _ := flags.GetString("make")
			year, _ := flags.GetString("year")
			vin, _ := flags.GetString("vin")
			residency, _ := flags.GetString("residency")
			if model == "" || make == "" || year == "" || vin == "" || residency == "" {
				cmd.Println("Error: --model, --make, --year, --vin and --residency are required for vehicle requests")
				return
			}
			reqType = store.RequestTypeRegisterVehicle
			payload = strings.Join([]string{
				fmt.Sprintf("%d", clientID), model, make, year, vin, residency,
			}, store.FieldSeparator)

		case "job":
			jobID, _ := flags.GetString("job-id")
			jobName, _ := flags.GetString("job-name")
			duration, _ := flags.GetString("duration")
			deadline, _ := flags.GetString("deadline")
			if jobID == "" || jobName == "" || duration == "" || deadline == "" {
				cmd.Println("Error: --job-id, --job-name, --duration and --deadline are required for job requests")
				return
			}
			reqType = store.RequestTypeAddJob
			payload = strings.Join([]string{
				jobID, jobName, fmt.Sprintf("%d", clientID), duration, deadline, store.JobStatusQueued,
			}, store.FieldSeparator)

		default:
			cmd.Printf("Error: unknown request kind %q (want vehicle or job)\n", args[0])
			return
		}

		// Session lives for this invocation only: connect, submit,
		// disconnect.
		registry := coord.Registry()
		if _, err := registry.Connect(*user); err != nil {
			cmd.Printf("Failed to connect: %v\n", err)
			return
		}
		defer registry.Disconnect(clientID)

		id, err := coord.Submit(context.Background(), &store.Request{
			ClientID:   clientID,
			ClientName: user.FullName,
			Type:       reqType,
			Data:       payload,
		})
		if err != nil {
			if errors.Is(err, coordinator.ErrNotConnected) {
				cmd.Println("Submit failed: client is not connected")
			} else {
				cmd.Printf("Submit failed: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Request submitted!\nRequest ID: %d\nStatus: PENDING\n", id)
	},
}

func init() {
	flags := submitCmd.Flags()
	flags.IntP("client-id", "c", 0, "Submitting client's user id (required)")

	flags.String("model", "", "Vehicle model")
	flags.String("make", "", "Vehicle make")
	flags.String("year", "", "Vehicle year")
	flags.String("vin", "", "Vehicle identification number")
	flags.String("residency", "", "Vehicle residency time (HH:MM:SS)")

	flags.String("job-id", "", "Job identifier")
	flags.String("job-name", "", "Job name")
	flags.String("duration", "", "Job duration (HH:MM:SS)")
	flags.String("deadline", "", "Job deadline (YYYY-MM-DD)")

	rootCmd.AddCommand(submitCmd)
}
