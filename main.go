package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/config"
	"github.com/nmatss/prova-modelagem-app/src/db"
	"github.com/nmatss/prova-modelagem-app/src/logger"
	"github.com/nmatss/prova-modelagem-app/src/middleware"
	"github.com/nmatss/prova-modelagem-app/src/models"
	"github.com/nmatss/prova-modelagem-app/src/routes"
	"github.com/nmatss/prova-modelagem-app/src/seed"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

func main() {

	// Configuration and directories
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v\n", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("Error creating data directories: %v\n", err)
	}

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Error building logger: %v\n", err)
	}
	defer zlog.Sync()

	// Database connection
	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v\n", err)
	}

	// Auto-migrate models
	if err := conn.AutoMigrate(
		&models.UsuarioModel{},
		&models.RelatorioModel{},
		&models.ReferenciaModel{},
		&models.ProvaModel{},
		&models.FotoModel{},
		&models.AuditLogModel{},
	); err != nil {
		log.Fatalf("Error during auto-migration: %v\n", err)
	}

	seed.Seed(conn)

	middleware.SetSecretKey(cfg.SecretKey)

	// Audit sink selected at startup; the recorder contract is the same
	// whichever backend is active.
	var sink services.AuditSink
	switch cfg.AuditBackend {
	case "noop":
		sink = services.NoopSink{}
	case "async":
		asyncSink := services.NewAsyncSink(services.NewGormSink(conn), zlog, 256)
		defer asyncSink.Close()
		sink = asyncSink
	default:
		sink = services.NewGormSink(conn)
	}

	// Services setup
	auditService := services.NewAuditService(conn, sink, zlog)
	intake := services.NewFileIntake(cfg, zlog)
	usuarioService := services.NewUsuarioService(conn, cfg.SecretKey, auditService, zlog)
	relatorioService := services.NewRelatorioService(conn, intake, auditService, zlog)
	exportService := services.NewExportService(relatorioService, cfg, auditService, zlog)

	// Gin router setup
	router := gin.Default()
	router.Use(middleware.SetupCORS())
	router.Use(middleware.SecurityHeaders())

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	// Routes setup
	routes.SetupUsuarioRoutes(router, usuarioService, limiter)
	routes.SetupRelatorioRoutes(router, relatorioService, exportService, cfg)
	routes.SetupAdminRoutes(router, usuarioService, relatorioService)
	routes.SetupAuditRoutes(router, auditService)

	zlog.Info("servidor iniciado", "host", cfg.ServerHost, "auditBackend", cfg.AuditBackend)

	// Server run
	if err := router.Run(cfg.ServerHost); err != nil {
		log.Fatalf("Error starting server on %s: %v\n", cfg.ServerHost, err)
	}
}
