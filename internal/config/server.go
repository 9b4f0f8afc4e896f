package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"docverify/database/postgres"
	adminHandler "docverify/internal/api/admin/handler"
	adminService "docverify/internal/api/admin/service"
	documentHandler "docverify/internal/api/document/handler"
	documentRepository "docverify/internal/api/document/repository"
	documentService "docverify/internal/api/document/service"
	verificationHandler "docverify/internal/api/verification/handler"
	verificationRepository "docverify/internal/api/verification/repository"
	verificationService "docverify/internal/api/verification/service"
	"docverify/internal/middleware"
	"docverify/pkg/bcrypt"
	"docverify/pkg/gemini"
	"docverify/pkg/google"
	"docverify/pkg/nlp"
	"docverify/pkg/ocr"
	"docverify/pkg/redis"
	"docverify/pkg/s3"
	"docverify/pkg/utils"
	"docverify/pkg/verifier"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redis.IRedis
	awsSession     *session.Session
	s3Client       s3.ItfS3
	geminiClient   gemini.IGemini
	ocrEngine      ocr.Engine
	extractor      *nlp.FieldExtractor
	verifier       *verifier.Verifier
	documentConfig documentService.Config
	bcryptUtils    bcrypt.IBcrypt
	admin          adminService.Credentials
	sheets         google.ItfSheets
	closers        []func() error
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{
		documentConfig: documentService.DefaultConfig(),
		admin:          adminService.CredentialsFromEnv(),
	}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if server.ocrEngine == nil {
		return nil, fmt.Errorf("OCR engine is required")
	}
	if server.s3Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}

	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log)
	}
	if server.extractor == nil {
		server.extractor = nlp.NewFieldExtractor(nlp.DefaultExtractorConfig())
	}
	if server.verifier == nil {
		server.verifier = verifier.New(verifier.DefaultConfig())
	}
	if server.bcryptUtils == nil {
		server.bcryptUtils = bcrypt.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		s.closers = append(s.closers, db.Close)
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

// WithAWSSession creates the session shared by S3 storage and Rekognition.
func WithAWSSession() ServerOption {
	return func(s *Server) error {
		sess, err := s3.NewSession()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create AWS session: %v", err)
			}
			return fmt.Errorf("failed to create AWS session: %w", err)
		}
		s.awsSession = sess
		s.s3Client = s3.New(sess)
		return nil
	}
}

// WithGeminiClient is a no-op when GEMINI_API_KEY is unset.
func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		if os.Getenv("GEMINI_API_KEY") == "" {
			return nil
		}

		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		s.closers = append(s.closers, client.Close)
		return nil
	}
}

// WithExtractor reads EXTRACT_COUNTRY_CODE, the dialling code phone numbers
// are normalized to.
func WithExtractor() ServerOption {
	return func(s *Server) error {
		cfg := nlp.DefaultExtractorConfig()
		if code := os.Getenv("EXTRACT_COUNTRY_CODE"); code != "" {
			cfg.CountryCode = code
		}
		s.extractor = nlp.NewFieldExtractor(cfg)
		return nil
	}
}

func WithVerifier() ServerOption {
	return func(s *Server) error {
		cfg := verifier.DefaultConfig()

		var err error
		if cfg.TextThreshold, err = envInt("VERIFY_TEXT_THRESHOLD", cfg.TextThreshold); err != nil {
			return err
		}
		if cfg.OverallMatchRatio, err = envFloat("VERIFY_OVERALL_RATIO", cfg.OverallMatchRatio); err != nil {
			return err
		}
		if cfg.MinAverageConfidence, err = envInt("VERIFY_MIN_AVERAGE", cfg.MinAverageConfidence); err != nil {
			return err
		}

		if cfg.TextThreshold < 0 || cfg.TextThreshold > 100 ||
			cfg.MinAverageConfidence < 0 || cfg.MinAverageConfidence > 100 ||
			cfg.OverallMatchRatio < 0 || cfg.OverallMatchRatio > 1 {
			return errors.New("verification thresholds out of range")
		}

		s.verifier = verifier.New(cfg)
		return nil
	}
}

// WithDocumentConfig reads OCR_TIMEOUT.
func WithDocumentConfig() ServerOption {
	return func(s *Server) error {
		timeout, err := envDuration("OCR_TIMEOUT", s.documentConfig.OCRTimeout)
		if err != nil {
			return err
		}
		s.documentConfig.OCRTimeout = timeout
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

// WithGoogleSheets enables the registration export. It is a no-op when the
// sheet credentials are unset, and a sheet that cannot be reached at startup
// only logs a warning.
func WithGoogleSheets() ServerOption {
	return func(s *Server) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		exporter, err := google.New(ctx)
		if errors.Is(err, google.ErrNotConfigured) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create Google Sheets client: %w", err)
		}

		if err := exporter.EnsureHeaders(ctx); err != nil && s.log != nil {
			s.log.Warnf("Failed to prepare Google Sheet headers: %v", err)
		}

		s.sheets = exporter
		return nil
	}
}

// WithMiddleware reads RATE_LIMIT_RPS and RATE_LIMIT_BURST.
func WithMiddleware() ServerOption {
	return func(s *Server) error {
		limit := middleware.DefaultRateLimit()

		var err error
		if limit.PerSecond, err = envFloat("RATE_LIMIT_RPS", limit.PerSecond); err != nil {
			return err
		}
		if limit.Burst, err = envInt("RATE_LIMIT_BURST", limit.Burst); err != nil {
			return err
		}
		if limit.PerSecond <= 0 || limit.Burst <= 0 {
			return errors.New("rate limit must be positive")
		}

		s.middleware = middleware.NewWithRateLimit(s.log, limit)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Document Domain
	documentRepo := documentRepository.New(s.db, s.log)
	documentServices := documentService.NewDocumentService(s.log, documentRepo, s.s3Client, s.ocrEngine, s.extractor, s.utils, s.documentConfig)
	documentHandlers := documentHandler.New(s.log, s.validator, s.middleware, documentServices)

	// Verification Domain
	verificationRepo := verificationRepository.New(s.db, s.log)
	verificationServices := verificationService.NewVerificationService(s.log, verificationRepo, s.verifier, s.utils, s.sheets)
	verificationHandlers := verificationHandler.New(s.log, s.validator, s.middleware, verificationServices)

	// Admin Domain
	adminServices := adminService.NewAdminService(s.log, s.admin, s.bcryptUtils, middleware.AccessTokenSecret)
	adminHandlers := adminHandler.New(s.log, s.validator, s.middleware, adminServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, documentHandlers, verificationHandlers, adminHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1", s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting requests and releases clients in reverse order
// of creation.
func (s *Server) Shutdown() error {
	errs := []error{s.engine.Shutdown()}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
