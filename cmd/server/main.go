package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/vibewatch/internal/api"
	"github.com/RMahshie/vibewatch/internal/api/handlers"
	"github.com/RMahshie/vibewatch/internal/config"
	"github.com/RMahshie/vibewatch/internal/dashboard"
	"github.com/RMahshie/vibewatch/internal/repository"
	"github.com/RMahshie/vibewatch/internal/repository/postgres"
	"github.com/RMahshie/vibewatch/internal/repository/supabase"
	"github.com/RMahshie/vibewatch/internal/snapshot"
	"github.com/RMahshie/vibewatch/internal/storage"
	"github.com/RMahshie/vibewatch/internal/web"
	"github.com/RMahshie/vibewatch/pkg/models"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Server.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	repo, closeRepo := newMeasurementRepository(cfg)
	defer closeRepo()

	dashboards := dashboard.NewDashboardService(repo)

	var snapshots snapshot.SnapshotService
	if cfg.SnapshotsEnabled() {
		snapshots = newSnapshotService(cfg, dashboards)
	} else {
		log.Info().Msg("S3_BUCKET not set, snapshots disabled")
	}

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Vibewatch API", "1.0.0")
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = "1.0.0"
		resp.Body.Time = time.Now()
		return resp, nil
	})

	dashboardHandler := handlers.NewDashboardHandler(dashboards, snapshots, cfg.Measurements.SampleLimit)
	api.RegisterRoutes(router, humaAPI, dashboardHandler, web.NewDashboardPage(dashboards))

	// Start server
	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", addr).Msg("Starting Vibewatch server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newMeasurementRepository opens the configured measurements source
func newMeasurementRepository(cfg *config.Config) (repository.MeasurementRepository, func()) {
	switch cfg.Measurements.Source {
	case config.SourcePostgres:
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Measurements.FetchTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}

		log.Info().Str("table", cfg.Measurements.Table).Msg("Reading measurements from Postgres")
		return postgres.NewPostgresMeasurementRepository(db, cfg.Measurements.Table), func() { db.Close() }
	default:
		repo, err := supabase.NewSupabaseMeasurementRepository(supabase.Config{
			URL:     cfg.Supabase.URL,
			Key:     cfg.Supabase.ServiceRoleKey,
			Table:   cfg.Measurements.Table,
			Timeout: cfg.Measurements.FetchTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Supabase client")
		}

		log.Info().Str("table", cfg.Measurements.Table).Msg("Reading measurements from Supabase")
		return repo, func() {}
	}
}

// newSnapshotService connects the snapshot bucket, creating it on local
// S3-compatible endpoints
func newSnapshotService(cfg *config.Config, dashboards dashboard.DashboardService) snapshot.SnapshotService {
	s3Config := storage.S3Config{
		Bucket:    cfg.AWS.S3Bucket,
		Endpoint:  cfg.AWS.S3Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		SecretKey: cfg.AWS.SecretAccessKey,
		URLExpiry: cfg.AWS.URLExpiry,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ctx, s3Config); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare snapshot bucket")
	}

	s3Service, err := storage.NewS3Service(s3Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 service")
	}

	log.Info().Str("bucket", s3Config.Bucket).Msg("Snapshots enabled")
	return snapshot.NewSnapshotService(dashboards, s3Service, s3Config.URLExpiry)
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
