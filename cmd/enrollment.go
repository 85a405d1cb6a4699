package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"course-enrollment/internal/api/middleware"
	"course-enrollment/internal/api/router"
	"course-enrollment/internal/config"
	"course-enrollment/internal/domain/enrollment"
	"course-enrollment/internal/infrastructure/directory"
	"course-enrollment/internal/infrastructure/discovery"
	"course-enrollment/internal/infrastructure/queue"
	"course-enrollment/internal/infrastructure/repository"
	"course-enrollment/internal/service"
	"course-enrollment/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	enrollmentPort  string
	propagationMode string
)

var enrollmentCmd = &cobra.Command{
	Use:   "enrollment",
	Short: "Start the enrollment workflow service",
	Long: `Start the enrollment HTTP server. Each enrollment checks the student
against the user service and the seat count against the catalog, records the
enrollment locally and then pushes the new count back to the catalog.
Seat count propagation modes:
- sync: inline after the local commit (default)
- queue: in-process worker pool, ordered per course
- redis: Redis list backed worker pool, ordered per course`,
	Run: func(cmd *cobra.Command, args []string) {
		startEnrollmentServer()
	},
}

func init() {
	rootCmd.AddCommand(enrollmentCmd)
	enrollmentCmd.Flags().StringVarP(&enrollmentPort, "port", "p", "", "Port for the enrollment server (default 8083)")
	enrollmentCmd.Flags().StringVar(&propagationMode, "propagation", "", "Seat count propagation mode: sync, queue or redis")
}

// seatPropagator is implemented by the queue-backed propagators.
type seatPropagator interface {
	enrollment.SeatCountPropagator
	StartWorkers()
	StopWorkers()
}

func startEnrollmentServer() {
	cfg := config.Get()
	port := resolvePort(enrollmentPort, cfg.Server.Port, "8083")
	if propagationMode != "" {
		cfg.Propagation.Mode = propagationMode
	}

	needRedis := cfg.Propagation.Mode == config.PropagationRedis || cfg.Idempotency.Enabled
	rt, err := newServiceRuntime(context.Background(), cfg.Discovery.EnrollmentService, port, runtimeOptions{
		needRedis: needRedis,
		models:    []any{&enrollment.Record{}},
	})
	if err != nil {
		logger.Error("Failed to start enrollment service: %v", err)
		os.Exit(1)
	}

	var enrollmentRepo enrollment.Repository = repository.NewMemoryEnrollmentRepository()
	if rt.db != nil {
		enrollmentRepo = repository.NewEnrollmentRepository(rt.db)
	}

	httpClient := directory.NewHTTPClient(config.Seconds(cfg.Directory.Timeout, 5*time.Second))
	courses := directory.NewCatalogClient(cfg.Directory.CatalogURL, httpClient)
	students := directory.NewStudentClient(cfg.Directory.UserURL, httpClient)

	propagator, workers, err := newSeatPropagator(rt, courses)
	if err != nil {
		logger.Error("Failed to configure seat propagation: %v", err)
		rt.close()
		os.Exit(1)
	}
	var stopWorkers []func()
	if workers != nil {
		workers.StartWorkers()
		stopWorkers = append(stopWorkers, workers.StopWorkers)
	}

	enrollmentService := service.NewEnrollmentService(service.EnrollmentDeps{
		Repository:         enrollmentRepo,
		Courses:            courses,
		Students:           students,
		Locator:            newLocator(rt),
		Propagator:         propagator,
		UserServiceName:    cfg.Discovery.UserService,
		CatalogServiceName: cfg.Discovery.CatalogService,
	})

	var idempotency middleware.IdempotencyStore
	if cfg.Idempotency.Enabled {
		ttl := time.Duration(cfg.Idempotency.TTL) * time.Hour
		idempotency = service.NewIdempotencyService(repository.NewRedisIdempotencyRepository(rt.redis), ttl)
	}

	r := router.NewEnrollmentRouter(router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Health:         rt.healthHandler(),
	}, enrollmentService, idempotency)

	rt.serve(r, stopWorkers...)
}

func newSeatPropagator(rt *serviceRuntime, courses *directory.CatalogClient) (enrollment.SeatCountPropagator, seatPropagator, error) {
	p := rt.cfg.Propagation
	timeout := config.Seconds(p.JobTimeout, queue.DefaultJobTimeout)

	switch p.Mode {
	case "", config.PropagationSync:
		logger.Info("Seat counts propagate synchronously")
		return service.NewDirectSeatPropagator(courses, timeout), nil, nil
	case config.PropagationQueue:
		logger.Info("Seat counts propagate through the in-memory queue (%d workers)", p.Workers)
		q := queue.NewInMemoryQueue(courses, p.BufferSize, p.Workers, timeout)
		return q, q, nil
	case config.PropagationRedis:
		logger.Info("Seat counts propagate through the Redis queue (%d workers)", p.Workers)
		q := queue.NewRedisQueue(rt.redis, courses, p.Workers, timeout)
		return q, q, nil
	default:
		return nil, nil, fmt.Errorf("unknown propagation mode %q", p.Mode)
	}
}

// newLocator returns nil when discovery is off, which skips the
// availability checks entirely.
func newLocator(rt *serviceRuntime) enrollment.ServiceLocator {
	d := rt.cfg.Discovery
	if !d.Enabled {
		return nil
	}

	switch d.Backend {
	case config.DiscoveryRedis:
		return discovery.NewRedisRegistry(rt.redis, config.Seconds(d.TTL, 30*time.Second))
	default:
		return discovery.NewStaticLocator(d.Instances)
	}
}
