package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/grievance-management/api"
	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/account"
	accountPostgres "github.com/frahmantamala/grievance-management/internal/account/postgres"
	"github.com/frahmantamala/grievance-management/internal/audit"
	auditPostgres "github.com/frahmantamala/grievance-management/internal/audit/postgres"
	"github.com/frahmantamala/grievance-management/internal/auth"
	authPostgres "github.com/frahmantamala/grievance-management/internal/auth/postgres"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	grievancePostgres "github.com/frahmantamala/grievance-management/internal/grievance/postgres"
	"github.com/frahmantamala/grievance-management/internal/grievancetype"
	grievancetypePostgres "github.com/frahmantamala/grievance-management/internal/grievancetype/postgres"
	"github.com/frahmantamala/grievance-management/internal/transport/rest"
	"github.com/frahmantamala/grievance-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config         *internal.Config
	DB             *sqlx.DB
	Gorm           *gorm.DB
	Redis          *redis.Client
	EventBus       *events.EventBus
	Accounts       *account.Service
	Grievances     *grievance.Service
	GrievanceTypes *grievancetype.Service
	Auth           *auth.Service
	Audit          *audit.Recorder
	Router         *chi.Mux
	Logger         *slog.Logger
}

func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func startHTTPServer() {
	ctx := context.Background()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	deps, err := initializeDependencies(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if cfg.Bootstrap.Enabled() {
		if err := bootstrapAdmin(ctx, deps.Accounts, cfg.Bootstrap); err != nil {
			deps.Logger.Error("Admin bootstrap failed", "error", err)
			return
		}
	}

	if err := setupRoutes(ctx, deps); err != nil {
		deps.Logger.Error("Failed to set up routes", "error", err)
		return
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			return
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(ctx context.Context, deps *Dependencies) error {
	// refuse to serve a broken contract
	if _, err := api.Load(ctx); err != nil {
		return fmt.Errorf("openapi document: %w", err)
	}

	var extra map[string]rest.Checker
	if deps.Redis != nil {
		extra = map[string]rest.Checker{
			"redis": func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() },
		}
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:        rest.NewHealthHandler(deps.DB.DB, extra),
		Auth:          auth.NewHandler(deps.Auth),
		Account:       account.NewHandler(deps.Accounts),
		Grievance:     grievance.NewHandler(deps.Grievances),
		GrievanceType: grievancetype.NewHandler(deps.GrievanceTypes),
		Audit:         audit.NewHandler(deps.Audit),
	}, rest.Options{
		AllowedOrigins:  deps.Config.Server.Origins(),
		OpenAPIDocument: api.Document,
	}, deps.Logger)
	return nil
}

func initializeDependencies(ctx context.Context, cfg *internal.Config) (*Dependencies, error) {
	lg := setupLogger(cfg.Observability.Logging)

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db, cfg.Database, lg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	deps := &Dependencies{
		Config: cfg,
		DB:     db,
		Gorm:   gdb,
		Router: chi.NewRouter(),
		Logger: lg,
	}

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Addr != "" {
		client, err := initRedis(ctx, cfg.Redis)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		deps.Redis = client
		blacklist = auth.NewRedisBlacklist(client, "")
	} else {
		lg.Warn("redis not configured, revoked tokens are kept in memory")
		blacklist = auth.NewMemoryBlacklist()
	}

	deps.EventBus = events.NewEventBus(lg)
	deps.Audit = audit.NewRecorder(auditPostgres.NewAuditRepository(gdb), lg)
	deps.Audit.Register(deps.EventBus)

	hasher := auth.NewBcryptHasher(cfg.Security.BCryptCost)
	deps.Accounts = account.NewService(accountPostgres.NewAccountRepository(gdb), hasher, deps.EventBus, lg)
	deps.Grievances = grievance.NewService(
		grievancePostgres.NewGrievanceRepository(gdb),
		grievancePostgres.NewNoteQuery(db),
		deps.EventBus,
		lg,
	)
	deps.GrievanceTypes = grievancetype.NewService(grievancetypePostgres.NewGrievanceTypeRepository(gdb), lg)
	deps.Auth = auth.NewService(
		authPostgres.NewRepository(gdb),
		hasher,
		auth.NewJWTTokenGenerator(
			cfg.Security.JWTAccessSecret,
			cfg.Security.JWTRefreshSecret,
			cfg.Security.AccessTokenDuration,
			cfg.Security.RefreshTokenDuration,
		),
		blacklist,
		lg,
	)

	return deps, nil
}

func setupLogger(cfg internal.LoggingConfig) *slog.Logger {
	return logger.Setup(logger.Options{
		Level:      cfg.Level,
		Format:     cfg.Format,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	})
}

// sqlDriver maps the configured database to its database/sql driver name.
func sqlDriver(cfg internal.DatabaseConfig) string {
	if cfg.DriverName() == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	driver := sqlDriver(cfg)

	dbConn, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	if cfg.DriverName() == internal.DriverSQLite {
		// a single long-lived connection: sqlite serializes writers, and
		// :memory: databases and PRAGMAs live only as long as their connection
		dbConn.SetMaxOpenConns(1)
		dbConn.SetMaxIdleConns(1)
	} else {
		dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
		dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.DriverName() == internal.DriverSQLite {
		if _, err := dbConn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return dbConn, nil
}

// initGorm runs gorm over the pool initDB opened, so both share connections.
func initGorm(db *sqlx.DB, cfg internal.DatabaseConfig, lg *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DriverName() == internal.DriverSQLite {
		dialector = sqlite.New(sqlite.Config{Conn: db.DB})
	} else {
		dialector = postgres.New(postgres.Config{Conn: db.DB})
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			slog.NewLogLogger(lg.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
}

func initRedis(ctx context.Context, cfg internal.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
