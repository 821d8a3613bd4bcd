package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/sbilibin2017/gw-firebase-auth/internal/auth"
	"github.com/sbilibin2017/gw-firebase-auth/internal/handlers"
	"github.com/sbilibin2017/gw-firebase-auth/internal/logger"
	"github.com/sbilibin2017/gw-firebase-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-firebase-auth/internal/repositories"
	"github.com/sbilibin2017/gw-firebase-auth/internal/services"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-firebase-auth API
// @version 1.0.0
// @description Service bridging Firebase Authentication with the users profile table
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, appEnv, logLevel, corsOrigins,
		dbDriver, dbMaxOpenConns, dbMaxIdleConns,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		myHost, myPort, myUser, myPassword, myDB,
		fbProjectID, fbCredentials,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, appEnv, logLevel, corsOrigins,
		dbDriver, dbMaxOpenConns, dbMaxIdleConns,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		myHost, myPort, myUser, myPassword, myDB,
		fbProjectID, fbCredentials,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, CORS and Firebase configuration.
func parseConfig(path string) (
	appHost, appPort, appEnv, logLevel string, corsOrigins []string,
	dbDriver string, dbMaxOpenConns, dbMaxIdleConns int,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	myHost string, myPort int, myUser, myPassword, myDB string,
	fbProjectID, fbCredentials string,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	appEnv = getEnv("APP_ENV", "development")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// CORS config
	corsOrigins = strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}

	// Database config (pool knobs apply to whichever driver is selected)
	dbDriver = getEnv("DB_DRIVER", "postgres")
	if dbDriver != "postgres" && dbDriver != "mysql" {
		err = fmt.Errorf("unsupported DB_DRIVER %q", dbDriver)
		return
	}
	if dbMaxOpenConns, err = strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if dbMaxIdleConns, err = strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}

	// MySQL config
	myHost = getEnv("MYSQL_HOST", "localhost")
	myUser = getEnv("MYSQL_USER", "user")
	myPassword = getEnv("MYSQL_PASSWORD", "password")
	myDB = getEnv("MYSQL_DB", "database")
	if myPort, err = strconv.Atoi(getEnv("MYSQL_PORT", "3306")); err != nil {
		return
	}

	// Firebase config
	fbProjectID = getEnv("FIREBASE_PROJECT_ID", "")
	fbCredentials = getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")

	return
}

// run initializes the logger, database, Firebase client, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, appEnv, logLevel string, corsOrigins []string,
	dbDriver string, dbMaxOpenConns, dbMaxIdleConns int,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	myHost string, myPort int, myUser, myPassword, myDB string,
	fbProjectID, fbCredentials string,
) error {
	production := appEnv == "production"

	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to the database
	var (
		db  *sqlx.DB
		err error
	)
	switch dbDriver {
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			pgUser, pgPassword, pgHost, pgPort, pgDB)
		logger.Log.Infof("Connecting to PostgreSQL at %s:%d", pgHost, pgPort)
		db, err = sqlx.ConnectContext(ctx, "pgx", dsn)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			myUser, myPassword, myHost, myPort, myDB)
		logger.Log.Infof("Connecting to MySQL at %s:%d", myHost, myPort)
		db, err = sqlx.ConnectContext(ctx, "mysql", dsn)
	}
	if err != nil {
		logger.Log.Fatal("database connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("database ping failed:", err)
	}

	// Initialize the identity verifier
	var verifier services.Verifier
	if fbProjectID == "" && !production {
		logger.Log.Warn("FIREBASE_PROJECT_ID not set, using insecure token verification (development only)")
		verifier = auth.NewInsecureAuth()
	} else {
		fb, err := auth.NewFirebaseAuth(ctx, fbProjectID, fbCredentials)
		if err != nil {
			logger.Log.Fatal("Firebase initialization error:", err)
		}
		verifier = fb
	}

	// Initialize repositories
	var (
		reader services.UserReader
		writer services.UserWriter
	)
	switch dbDriver {
	case "postgres":
		repo := repositories.NewPostgresUserRepository(db)
		reader, writer = repo, repo
	case "mysql":
		repo := repositories.NewMySQLUserRepository(db)
		reader, writer = repo, repo
	}

	// Initialize services
	authService := services.NewAuthService(verifier, reader, writer)

	// Initialize handlers
	signupHandler := handlers.NewSignupHandler(authService, production)
	loginHandler := handlers.NewLoginHandler(authService, production)
	logoutHandler := handlers.NewLogoutHandler()
	meHandler := handlers.NewMeHandler(authService)
	usersHandler := handlers.NewUsersHandler(authService, production)
	tokenHandler := handlers.NewTokenHandler(authService, production)
	googleHandler := handlers.NewGoogleAuthHandler()
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Route("/auth", func(r chi.Router) {
		// Public routes
		r.Post("/signup", signupHandler)
		r.Post("/login", loginHandler)
		r.Post("/logout", logoutHandler)
		r.Get("/me", meHandler)
		r.Get("/profile", meHandler)
		r.Get("/google", googleHandler)
		r.Post("/token", tokenHandler)
		r.Post("/callback", tokenHandler)

		// Protected routes behind the auth middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(verifier))
			r.Get("/users", usersHandler)
		})
	})

	r.Get("/health", healthHandler)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s in %s mode", appHost, appPort, appEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
