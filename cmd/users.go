package cmd

import (
	"context"
	"os"

	"course-enrollment/internal/api/router"
	"course-enrollment/internal/config"
	"course-enrollment/internal/domain/user"
	"course-enrollment/internal/infrastructure/repository"
	"course-enrollment/internal/service"
	"course-enrollment/pkg/logger"

	"github.com/spf13/cobra"
)

var usersPort string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Start the student and teacher directory service",
	Run: func(cmd *cobra.Command, args []string) {
		startUsersServer()
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.Flags().StringVarP(&usersPort, "port", "p", "", "Port for the user server (default 8082)")
}

func startUsersServer() {
	cfg := config.Get()
	port := resolvePort(usersPort, cfg.Server.Port, "8082")

	rt, err := newServiceRuntime(context.Background(), cfg.Discovery.UserService, port, runtimeOptions{
		models: []any{&user.Student{}, &user.Teacher{}},
	})
	if err != nil {
		logger.Error("Failed to start user service: %v", err)
		os.Exit(1)
	}

	var (
		studentRepo user.StudentRepository = repository.NewMemoryStudentRepository()
		teacherRepo user.TeacherRepository = repository.NewMemoryTeacherRepository()
	)
	if rt.db != nil {
		studentRepo = repository.NewStudentRepository(rt.db)
		teacherRepo = repository.NewTeacherRepository(rt.db)
	}

	r := router.NewUserRouter(router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Health:         rt.healthHandler(),
	}, service.NewStudentService(studentRepo), service.NewTeacherService(teacherRepo))

	rt.serve(r)
}
