// Command charapid is the CharAPI platform service.
// It serves the evaluation REST API backed by Postgres history storage and
// the configured report archive.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/charapi/charapi/internal/api"
	"github.com/charapi/charapi/internal/archive"
	"github.com/charapi/charapi/internal/history"
	"github.com/charapi/charapi/internal/manualdata"
	"github.com/charapi/charapi/internal/platform"
	"github.com/charapi/charapi/internal/registry"
	"github.com/charapi/charapi/pkg/config"
	"github.com/charapi/charapi/pkg/evaluate"
)

type daemonConfig struct {
	Port        string
	DatabaseURL string
	ConfigPath  string
	APIKey      string
	MockMode    bool
}

func loadDaemonConfig() daemonConfig {
	return daemonConfig{
		Port:        envOrDefault("PORT", "8080"),
		DatabaseURL: envOrDefault("DATABASE_URL", "postgres://localhost:5432/charapi?sslmode=disable"),
		ConfigPath:  os.Getenv("CHARAPI_CONFIG"),
		APIKey:      os.Getenv("CHARAPI_API_KEY"),
		MockMode:    os.Getenv("CHARAPI_MOCK") == "1",
	}
}

func main() {
	dcfg := loadDaemonConfig()

	cfg, err := config.Load(dcfg.ConfigPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sql.Open("postgres", dcfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}
	if err := platform.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	historySvc := history.NewService(db)

	storage, err := archive.NewStorage(ctx, cfg.Archive)
	if err != nil {
		log.Fatalf("open archive storage: %v", err)
	}
	archiver := archive.NewArchiver(storage)

	manual := manualdata.NewStore(cfg.ManualData.Path)

	var (
		evaluator *evaluate.Evaluator
		searcher  api.Searcher
	)
	if dcfg.MockMode || cfg.MockMode {
		mock := registry.NewMockFilingsClient()
		evaluator = evaluate.NewEvaluator(cfg, mock, registry.NewMockDirectoryClient(), manual)
		searcher = mock
	} else {
		var cache *registry.Cache
		if cfg.Caching.Enabled {
			cache = registry.NewCache(
				cfg.CacheDir(dcfg.ConfigPath),
				time.Duration(cfg.Caching.DefaultTTLHours)*time.Hour,
				time.Duration(cfg.Caching.ErrorTTLHours)*time.Hour,
			)
		}
		filings := registry.NewProPublicaClient(cfg.ProPublica, cache)
		evaluator = evaluate.NewEvaluator(cfg, filings, registry.NewCharityAPIClient(cfg.CharityAPI, cache), manual)
		searcher = filings
	}

	handler := api.NewHandler(evaluator, historySvc, archiver, searcher, nil)

	// Set up HTTP routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:    ":" + dcfg.Port,
		Handler: api.CORS(api.APIKeyAuth(dcfg.APIKey)(mux)),
	}

	go func() {
		log.Printf("starting charapid on :%s", dcfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
