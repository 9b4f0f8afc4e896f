package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"docverify/pkg/ocr"

	"google.golang.org/api/option"
)

const (
	engineVision      = "vision"
	engineGemini      = "gemini"
	engineRekognition = "rekognition"
	engineBest        = "best"
)

// WithOCREngine builds the recognition pipeline from OCR_ENGINE. PDFs always
// go to the text parser; images go to the chosen engine. Results are cached
// in Redis for OCR_CACHE_TTL (24h by default, 0 disables).
// Depends on WithRedisServer, WithAWSSession and WithGeminiClient when the
// chosen engine needs them.
func WithOCREngine() ServerOption {
	return func(s *Server) error {
		ctx := context.Background()

		name := strings.ToLower(strings.TrimSpace(os.Getenv("OCR_ENGINE")))
		if name == "" {
			name = engineVision
		}

		images, err := s.imageEngine(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to create %s OCR engine: %w", name, err)
		}

		pdfs, err := ocr.NewPDFEngine(ctx)
		if err != nil {
			return fmt.Errorf("failed to create PDF parser: %w", err)
		}

		var engine ocr.Engine = ocr.NewRouter(images, pdfs)

		ttl, err := envDuration("OCR_CACHE_TTL", 24*time.Hour)
		if err != nil {
			return err
		}
		if ttl > 0 && s.redisServer != nil {
			engine = ocr.NewCachedEngine(engine, s.redisServer, ttl, s.log)
		}

		if s.log != nil {
			s.log.WithField("engine", engine.Name()).Info("OCR engine ready")
		}

		s.ocrEngine = engine
		return nil
	}
}

func (s *Server) imageEngine(ctx context.Context, name string) (ocr.Engine, error) {
	switch name {
	case engineVision:
		return s.visionEngine(ctx)
	case engineGemini:
		if s.geminiClient == nil {
			return nil, fmt.Errorf("gemini client is not configured")
		}
		return ocr.NewGeminiEngine(s.geminiClient), nil
	case engineRekognition:
		if s.awsSession == nil {
			return nil, fmt.Errorf("AWS session is not configured")
		}
		return ocr.NewRekognitionEngine(s.awsSession), nil
	case engineBest:
		var engines []ocr.Engine
		if vision, err := s.visionEngine(ctx); err == nil {
			engines = append(engines, vision)
		} else if s.log != nil {
			s.log.WithField("error", err.Error()).Warn("Vision engine unavailable")
		}
		if s.geminiClient != nil {
			engines = append(engines, ocr.NewGeminiEngine(s.geminiClient))
		}
		if s.awsSession != nil {
			engines = append(engines, ocr.NewRekognitionEngine(s.awsSession))
		}
		if len(engines) == 0 {
			return nil, fmt.Errorf("no image engine is configured")
		}
		return ocr.NewBestOf(engines...), nil
	}

	return nil, fmt.Errorf("unknown OCR_ENGINE %q", name)
}

func (s *Server) visionEngine(ctx context.Context) (ocr.Engine, error) {
	var opts []option.ClientOption
	if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	engine, err := ocr.NewVisionEngine(ctx, opts...)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, engine.Close)

	return engine, nil
}
