package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medassist/medassist/internal/config"
	"github.com/medassist/medassist/internal/domain/bootstrap"
	"github.com/medassist/medassist/internal/domain/caserecord"
	"github.com/medassist/medassist/internal/domain/consultation"
	"github.com/medassist/medassist/internal/domain/diagnosis"
	"github.com/medassist/medassist/internal/platform/auth"
	"github.com/medassist/medassist/internal/platform/db"
	"github.com/medassist/medassist/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "medassist",
		Short:        "Symptom-based diagnosis assistant",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(recordsCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(env string, out io.Writer) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func sourcesFrom(cfg *config.Config) consultation.Sources {
	return consultation.Sources{
		SymptomsPath: cfg.SymptomsFile,
		DiseasesPath: cfg.DiseasesFile,
		RecordsPath:  cfg.RecordsFile,
	}
}

func seedPaths(cfg *config.Config) bootstrap.Paths {
	return bootstrap.Paths{
		Symptoms: cfg.SymptomsFile,
		Diseases: cfg.DiseasesFile,
		Records:  cfg.RecordsFile,
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the diagnosis API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run one consultation and append it to the record store",
		Long: "Run one consultation. Symptoms come from --symptom flags or, when none are\n" +
			"given, from standard input one per line until an empty line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			name, _ := cmd.Flags().GetString("name")
			symptoms, _ := cmd.Flags().GetStringArray("symptom")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Env, cmd.ErrOrStderr())

			if len(symptoms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Enter symptoms, one per line. Finish with an empty line.")
				symptoms, err = readSymptoms(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			svc := consultation.NewService(sourcesFrom(cfg), nil, logger)
			result, err := svc.Run(cmd.Context(), &consultation.Request{
				PatientID:   id,
				PatientName: name,
				Symptoms:    symptoms,
			})
			if err != nil {
				if names := diagnosis.Unrecognized(err, diagnosis.KindUnrecognizedSymptom); len(names) > 0 {
					return fmt.Errorf("unrecognized symptoms: %s", strings.Join(names, ", "))
				}
				return err
			}
			writeResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().String("id", "", "Patient identifier")
	cmd.Flags().String("name", "", "Patient name")
	cmd.Flags().StringArray("symptom", nil, "Symptom (repeatable)")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("name")
	return cmd
}

// readSymptoms reads one symptom per line until an empty line or EOF.
func readSymptoms(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			break
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

func writeResult(w io.Writer, res *consultation.Result) {
	fmt.Fprintf(w, "Patient:   %s (%s)\n", res.PatientName, res.PatientID)
	fmt.Fprintf(w, "Symptoms:  %s\n", strings.Join(res.Symptoms, ", "))
	if len(res.Diseases) == 0 {
		fmt.Fprintln(w, "Diseases:  no matching disease found")
	} else {
		fmt.Fprintf(w, "Diseases:  %s\n", strings.Join(res.Diseases, ", "))
	}
	fmt.Fprintf(w, "Saved to:  %s\n", res.RecordsPath)
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the default vocabulary and history files when absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			created, err := bootstrap.Seed(seedPaths(cfg))
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "All data files already exist.")
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			}
			return nil
		},
	}
}

func recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Print the consultation record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			records, skipped, err := caserecord.NewStore(cfg.RecordsFile).ReadAll()
			if err != nil {
				return err
			}
			writeRecords(cmd.OutOrStdout(), records)
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d malformed row(s) skipped\n", skipped)
			}
			return nil
		},
	}
}

func writeRecords(w io.Writer, records []*caserecord.Record) {
	fmt.Fprintf(w, "%-10s %-20s %-40s %s\n", "ID", "NAME", "SYMPTOMS", "DISEASES")
	for _, r := range records {
		fmt.Fprintf(w, "%-10s %-20s %-40s %s\n",
			r.PatientID, r.PatientName,
			strings.Join(r.Symptoms, ","), strings.Join(r.Diseases, ","))
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run consultation archive migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *db.Migrator) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				writeStatuses(cmd.OutOrStdout(), statuses)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(ctx context.Context, fn func(context.Context, *db.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.ArchiveEnabled() {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, db.NewMigrator(pool, cfg.MigrationsDir))
}

func writeStatuses(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func runServer() error {
	// Config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Env, os.Stdout)
	if cfg.IsDev() {
		logger.Warn().Msg("development mode: every request is granted the admin role")
	}

	// Data files
	if cfg.SeedOnStart {
		created, err := bootstrap.Seed(seedPaths(cfg))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed data files")
		}
		for _, path := range created {
			logger.Info().Str("path", path).Msg("seeded data file")
		}
	}

	// Archive (optional)
	ctx := context.Background()
	var pool *pgxpool.Pool
	var archive caserecord.ArchiveRepository
	if cfg.ArchiveEnabled() {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		archive = caserecord.NewArchiveRepoPG(pool)
		logger.Info().Msg("connected to consultation archive")
	}

	svc := consultation.NewService(sourcesFrom(cfg), archive, logger)
	e := newServer(cfg, svc, pool, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires middleware and routes. pool may be nil.
func newServer(cfg *config.Config, svc *consultation.Service, pool *pgxpool.Pool, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// Auth covers the API group only
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	consultation.NewHandler(svc).RegisterRoutes(apiV1)
	return e
}
