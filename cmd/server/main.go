package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/subosito/gotenv"
	"github.com/tradiefy/voice-invoicing/internal/ai"
	"github.com/tradiefy/voice-invoicing/internal/clients"
	"github.com/tradiefy/voice-invoicing/internal/config"
	"github.com/tradiefy/voice-invoicing/internal/draft"
	"github.com/tradiefy/voice-invoicing/internal/email"
	"github.com/tradiefy/voice-invoicing/internal/export"
	"github.com/tradiefy/voice-invoicing/internal/httpapi"
	"github.com/tradiefy/voice-invoicing/internal/invoice"
	"github.com/tradiefy/voice-invoicing/internal/pdf"
	"github.com/tradiefy/voice-invoicing/internal/reminders"
	"github.com/tradiefy/voice-invoicing/internal/repository"
	"github.com/tradiefy/voice-invoicing/internal/storage"
	"github.com/tradiefy/voice-invoicing/pkg/database"
	"github.com/tradiefy/voice-invoicing/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting voice invoicing service",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	profileRepo := repository.NewProfileRepository(db.DB, logger)
	clientRepo := repository.NewClientRepository(db.DB, logger)
	materialRepo := repository.NewMaterialRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db, logger)
	photoRepo := repository.NewPhotoRepository(db.DB, logger)

	// AI components
	openaiClient := openai.NewClient(cfg.OpenAI.APIKey)
	drafter := ai.NewDrafter(openaiClient, cfg.OpenAI.Model, cfg.OpenAI.Temperature, cfg.Invoice.DueDays, logger)
	reconciler := ai.NewReconciler(openaiClient, cfg.OpenAI.Model, cfg.OpenAI.Temperature, logger)

	// Drafting session store and customer resolution
	sessions := draft.NewStore(logger)
	resolver := clients.NewResolver(clientRepo, logger)

	// Output side: PDF rendering, email dispatch, reminders capability
	renderer := pdf.NewRenderer(logger)
	mailer := email.NewSender(email.Config{
		APIURL:    cfg.Email.APIURL,
		APIKey:    cfg.Email.APIKey,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		Timeout:   cfg.Email.APITimeout,
	}, logger)
	reminderScheduler := reminders.NewUnsupported(logger)

	invoiceService := invoice.NewService(
		invoiceRepo,
		profileRepo,
		renderer,
		mailer,
		reminderScheduler,
		cfg.Storage.PDFDir,
		logger,
	)

	photoStore, err := storage.NewPhotoStore(cfg.Storage.UploadDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize photo storage", zap.Error(err))
	}

	exporter := export.NewExporter(logger)

	handler := httpapi.NewHandler(httpapi.Deps{
		Sessions:   sessions,
		Drafter:    drafter,
		Reconciler: reconciler,
		Resolver:   resolver,
		InvoiceSvc: invoiceService,
		Renderer:   renderer,
		Exporter:   exporter,
		PhotoStore: photoStore,
		Profiles:   profileRepo,
		Clients:    clientRepo,
		Materials:  materialRepo,
		Invoices:   invoiceRepo,
		Photos:     photoRepo,
		Logger:     logger,
	})

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "voice-invoicing",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	handler.Register(router.Group("/api/v1"))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers for the browser client
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
