package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"vcrts/internal/coordinator"
	"vcrts/internal/logger"
	"vcrts/internal/store"
	"vcrts/internal/store/filestore"
)

// openCore builds the coordinator stack over the configured data
// directory. Every CLI invocation is its own short-lived process, so the
// connection registry starts empty each time; commands that act as a
// client open a session themselves.
func openCore() (*coordinator.Coordinator, *filestore.Store, error) {
	log := logger.NewQuiet(os.Stderr)

	st, err := filestore.New(viper.GetString("data_dir"), log)
	if err != nil {
		return nil, nil, fmt.Errorf("open data dir: %w", err)
	}

	coord, err := coordinator.New(log, st, st, st, coordinator.NewRegistry(), coordinator.Config{})
	if err != nil {
		return nil, nil, err
	}
	return coord, st, nil
}

// requireUser loads a registered account or fails with a readable error.
func requireUser(st *filestore.Store, id int) (*store.User, error) {
	u, err := st.UserByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d is not registered (run 'vcrtsctl register' first)", id)
	}
	return u, nil
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(store.TimestampLayout, ts)
	if err != nil {
		return ts
	}
	return t.Format("Mon, 02 Jan 2006 15:04:05")
}
