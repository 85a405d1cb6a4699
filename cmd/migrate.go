package cmd

import (
	"fmt"
	"os"

	"course-enrollment/internal/config"
	"course-enrollment/internal/infrastructure/database"
	"course-enrollment/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	migrateService string
	migrationsRoot string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration management",
	Long:  "Manage the SQL migrations of the catalog, users and enrollment databases",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run pending migrations",
	Long:  "Execute all pending migrations of one service",
	Run:   runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long:  "Display the status of all migrations of one service",
	Run:   runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().StringVarP(&migrateService, "service", "s", "", "service whose migrations to manage: catalog, users or enrollment")
	migrateCmd.PersistentFlags().StringVar(&migrationsRoot, "dir", "migrations", "root directory of the per-service migrations")
	migrateCmd.MarkPersistentFlagRequired("service")
}

func newMigrationRunner() *database.MigrationRunner {
	dir, err := database.MigrationsDir(migrationsRoot, migrateService)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(databaseConfig(config.Get()))
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	return database.NewMigrationRunner(db, dir)
}

func runMigrateUp(cmd *cobra.Command, args []string) {
	applied, err := newMigrationRunner().RunMigrations()
	if err != nil {
		logger.Error("Migration failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Applied %d migration(s) for %s\n", applied, migrateService)
}

func runMigrateStatus(cmd *cobra.Command, args []string) {
	migrations, err := newMigrationRunner().Status()
	if err != nil {
		logger.Error("Failed to get migration status: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Migration Status (%s):\n", migrateService)
	fmt.Println("================")
	for _, migration := range migrations {
		status := "Pending"
		if migration.AppliedAt != nil {
			status = fmt.Sprintf("Applied at %s", migration.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%s - %s [%s]\n", migration.ID, migration.Description, status)
	}
}
