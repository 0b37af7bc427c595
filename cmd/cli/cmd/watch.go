package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vcrts/internal/logger"
	"vcrts/internal/notify"
	"vcrts/internal/store"
	"vcrts/internal/store/filestore"
)

// storeLister feeds the monitor straight from the request file so that
// decisions made by other processes are visible on every tick.
type storeLister struct {
	st *filestore.Store
}

func (l storeLister) ClientRequests(ctx context.Context, clientID int) []store.Request {
	reqs, err := l.st.RequestsByClient(ctx, clientID)
	if err != nil {
		return nil
	}
	return reqs
}

var watchCmd = &cobra.Command{
	Use:   "watch [client_id]",
	Short: "Watch a client's requests for status changes",
	Long: `Poll the client's requests on a fixed interval and print one line per
request the moment it leaves PENDING. Decisions made before the watch
started are not reported. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		clientID, err := strconv.Atoi(args[0])
		if err != nil {
			cmd.Printf("Error: client_id must be numeric, got %q\n", args[0])
			return
		}
		interval, _ := cmd.Flags().GetDuration("interval")

		_, st, err := openCore()
		if err != nil {
			cmd.Printf("Failed to open data dir: %v\n", err)
			return
		}
		if _, err := requireUser(st, clientID); err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		monitor := notify.NewMonitor(storeLister{st}, interval, logger.NewQuiet(os.Stderr))
		monitor.Start(clientID)
		defer monitor.Stop()

		cmd.Printf("Watching requests for client %d (every %s, Ctrl-C to stop)...\n", clientID, interval)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case <-quit:
				cmd.Println("\nStopped watching.")
				return
			case n := <-monitor.Events():
				cmd.Printf("%s Request %d (%s): %s %s\n",
					statusIcon(n.Status),
					n.RequestID,
					requestTypeLabel(n.RequestType),
					colorizeStatus(n.Status),
					n.ResponseMessage)
			}
		}
	},
}

func init() {
	watchCmd.Flags().Duration("interval", 2*time.Second, "Poll interval")
	rootCmd.AddCommand(watchCmd)
}
