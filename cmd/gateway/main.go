package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/processlens/gateway/pkg/authguard"
	"github.com/processlens/gateway/pkg/config"
	"github.com/processlens/gateway/pkg/gateway"
	"github.com/processlens/gateway/pkg/httpserver"
	"github.com/processlens/gateway/pkg/logger"
	"github.com/processlens/gateway/pkg/metrics"
	"github.com/processlens/gateway/pkg/relay"
	"github.com/processlens/gateway/pkg/requestid"
	"github.com/processlens/gateway/pkg/tempstore"
	"github.com/processlens/gateway/pkg/token"
	"github.com/processlens/gateway/pkg/upload"
)

type appConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	BackendURL      string        `env:"BACKEND_URL,required"`
	AuthSigningKey  string        `env:"AUTH_SIGNING_KEY,required"`
	TempDir         string        `env:"TEMP_DIR"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"104857600"`
	RelayTimeout    time.Duration `env:"RELAY_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithAttr(logger.Component("gateway")),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	tokens, err := token.NewService([]byte(cfg.AuthSigningKey))
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}

	backend, err := relay.NewClient(cfg.BackendURL, relay.WithTimeout(cfg.RelayTimeout))
	if err != nil {
		return fmt.Errorf("init relay client: %w", err)
	}

	store := tempstore.New(cfg.TempDir)
	recorder := metrics.NewRecorder()

	gw := gateway.New(
		authguard.New(authguard.NewSessionVerifier(tokens)),
		store,
		upload.NewValidator(upload.WithMaxBytes(cfg.MaxUploadBytes)),
		backend,
		gateway.WithLogger(log),
		gateway.WithMetrics(recorder),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestid.Header},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware(recorder))

	r.Post("/upload", gw.HandleUpload)
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// uploads can be large and the backend slow; the write timeout must
	// outlast the relay timeout or long analyses get cut off mid-response.
	srv := httpserver.New(
		httpserver.WithAddr(cfg.Addr),
		httpserver.WithReadTimeout(10*time.Minute),
		httpserver.WithWriteTimeout(cfg.RelayTimeout+30*time.Second),
		httpserver.WithIdleTimeout(2*time.Minute),
		httpserver.WithShutdownTimeout(cfg.ShutdownTimeout),
		httpserver.WithLogger(log),
	)

	log.InfoContext(ctx, "starting upload gateway",
		slog.String("addr", cfg.Addr),
		slog.String("scratch_dir", store.Root()),
		slog.Int64("max_upload_bytes", cfg.MaxUploadBytes))

	return srv.Run(ctx, r)
}
