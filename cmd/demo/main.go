// Package main runs the vcrts client/server demo in a single process: two
// clients submit requests, the cloud controller decides them, and the
// notification poller reports the status transitions, all over the shared
// data directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"vcrts/internal/auth"
	"vcrts/internal/config"
	"vcrts/internal/coordinator"
	"vcrts/internal/logger"
	"vcrts/internal/notify"
	"vcrts/internal/observability"
	"vcrts/internal/store"
	"vcrts/internal/store/filestore"
)

const (
	vehicleOwnerID = 7
	jobOwnerID     = 8
	controllerID   = 1
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	shutdownTracer, err := observability.InitTracer(ctx, "vcrts-demo", cfg.OTELEndpoint)
	if err != nil {
		log.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Warn("failed to shutdown tracer", "error", err)
			}
		}()
	}

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Warn("failed to shutdown metrics", "error", err)
		}
	}()

	// Shared line store and the core
	st, err := filestore.New(cfg.DataDir, log)
	if err != nil {
		log.Error("failed to open data dir", "error", err)
		os.Exit(1)
	}

	registry := coordinator.NewRegistry()
	coord, err := coordinator.New(log, st, st, st, registry, coordinator.Config{
		HeartbeatInterval: cfg.HeartbeatInterval,
	})
	if err != nil {
		log.Error("failed to build coordinator", "error", err)
		os.Exit(1)
	}

	// Pending depth gauge, queried only when scraped.
	meter := otel.Meter("vcrts-demo")
	if _, err := meter.Int64ObservableGauge("vcrts.requests.pending_depth",
		metric.WithDescription("Current number of pending requests"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			obs.Observe(int64(coord.PendingDepth()))
			return nil
		}),
	); err != nil {
		log.Warn("failed to register pending depth gauge", "error", err)
	}

	go func() {
		if err := coord.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("coordinator heartbeat stopped", "error", err)
		}
	}()

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		log.Info("metrics listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warn("metrics server stopped", "error", err)
		}
	}()

	monitor := notify.NewMonitor(coord, cfg.PollInterval, log)

	scenarioDone := make(chan struct{})
	go func() {
		defer close(scenarioDone)
		if err := runScenario(ctx, log, st, coord, monitor); err != nil {
			log.Error("demo scenario failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("interrupted, shutting down")
	case <-scenarioDone:
	}

	cancel()
	monitor.Stop()
	log.Info("demo finished")
}

// runScenario drives the request/approval workflow end to end: register
// accounts, connect, submit one vehicle and one job request, decide both
// from the controller role and wait for the poller's notifications.
func runScenario(ctx context.Context, log *slog.Logger, st *filestore.Store, coord *coordinator.Coordinator, monitor *notify.Monitor) error {
	users := []store.User{
		{ID: controllerID, FullName: "Dana Cruz", Role: store.RoleCloudController, CredentialHash: auth.HashCredential("controller-demo")},
		{ID: vehicleOwnerID, FullName: "Ava Torres", Role: store.RoleVehicleOwner, CredentialHash: auth.HashCredential("vehicle-demo")},
		{ID: jobOwnerID, FullName: "Noah Reed", Role: store.RoleJobOwner, CredentialHash: auth.HashCredential("job-demo")},
	}
	for _, u := range users {
		existing, err := st.UserByID(ctx, u.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := st.AddUser(ctx, &u); err != nil {
				return err
			}
		}
	}

	registry := coord.Registry()
	for _, id := range []int{vehicleOwnerID, jobOwnerID} {
		u, err := st.UserByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := registry.Connect(*u); err != nil {
			return fmt.Errorf("connect user %d: %w", id, err)
		}
	}

	monitor.Start(vehicleOwnerID)
	monitor.Start(jobOwnerID)

	vehicleID, err := coord.Submit(ctx, &store.Request{
		ClientID:   vehicleOwnerID,
		ClientName: "Ava Torres",
		Type:       store.RequestTypeRegisterVehicle,
		Data:       "7|Civic|Honda|2020|VIN123|01:00:00",
	})
	if err != nil {
		return fmt.Errorf("submit vehicle request: %w", err)
	}

	jobID, err := coord.Submit(ctx, &store.Request{
		ClientID:   jobOwnerID,
		ClientName: "Noah Reed",
		Type:       store.RequestTypeAddJob,
		Data:       "J-100|Render frames|8|02:30:00|2026-12-01|QUEUED",
	})
	if err != nil {
		return fmt.Errorf("submit job request: %w", err)
	}

	log.Info("requests submitted, controller deciding shortly",
		"vehicle_request", vehicleID, "job_request", jobID)

	// Give the poller a tick to observe both requests as pending.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(3 * time.Second):
	}

	if err := coord.Approve(ctx, vehicleID, "Vehicle registered, welcome aboard"); err != nil {
		return fmt.Errorf("approve request %d: %w", vehicleID, err)
	}
	if err := coord.Reject(ctx, jobID, "Cloud capacity reached, resubmit tomorrow"); err != nil {
		return fmt.Errorf("reject request %d: %w", jobID, err)
	}

	// Both clients get exactly one notification each.
	for received := 0; received < 2; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-monitor.Events():
			log.Info("status notification",
				"request_id", n.RequestID,
				"client_id", n.ClientID,
				"type", n.RequestType,
				"status", n.Status,
				"message", n.ResponseMessage)
			received++
		case <-time.After(30 * time.Second):
			return fmt.Errorf("timed out waiting for notifications")
		}
	}

	for _, id := range []int{vehicleOwnerID, jobOwnerID} {
		if err := registry.Disconnect(id); err != nil {
			return err
		}
	}
	return nil
}
