package cmd

import (
	"context"
	"os"

	"course-enrollment/internal/api/router"
	"course-enrollment/internal/config"
	"course-enrollment/internal/domain/catalog"
	"course-enrollment/internal/infrastructure/repository"
	"course-enrollment/internal/service"
	"course-enrollment/pkg/logger"

	"github.com/spf13/cobra"
)

var catalogPort string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Start the course catalog service",
	Long: `Start the course directory HTTP server. It owns courses, their
capacity and the enrolled count that the enrollment service keeps in sync.`,
	Run: func(cmd *cobra.Command, args []string) {
		startCatalogServer()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVarP(&catalogPort, "port", "p", "", "Port for the catalog server (default 8081)")
}

func startCatalogServer() {
	cfg := config.Get()
	port := resolvePort(catalogPort, cfg.Server.Port, "8081")

	rt, err := newServiceRuntime(context.Background(), cfg.Discovery.CatalogService, port, runtimeOptions{
		models: []any{&catalog.Course{}},
	})
	if err != nil {
		logger.Error("Failed to start catalog service: %v", err)
		os.Exit(1)
	}

	var courseRepo catalog.Repository = repository.NewMemoryCourseRepository()
	if rt.db != nil {
		courseRepo = repository.NewCourseRepository(rt.db)
	}

	r := router.NewCatalogRouter(router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Health:         rt.healthHandler(),
	}, service.NewCourseService(courseRepo))

	rt.serve(r)
}
