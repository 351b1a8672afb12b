package httpapi

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"healthgrid.org/internal/obs"
)

// NewGRPCServer exposes the standard gRPC health service, kept in sync with
// the readiness probe by a background poll.
func NewGRPCServer(probe readinessChecker, pollEvery time.Duration) (*grpc.Server, func()) {
	if pollEvery <= 0 {
		pollEvery = 10 * time.Second
	}
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	update := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		status := healthpb.HealthCheckResponse_SERVING
		ready := probe.Check(ctx) == nil
		if !ready {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		obs.SetReady(ready)
		hs.SetServingStatus("", status)
		hs.SetServingStatus(serviceName, status)
	}
	update()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pollEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				update()
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		close(done)
		hs.Shutdown()
		srv.GracefulStop()
	}
	return srv, stop
}
