package ocr

import (
	"context"
	"errors"
	"strings"
	"sync"
)

const MimePDF = "application/pdf"

var (
	ErrNoText      = errors.New("no text detected in document")
	ErrUnsupported = errors.New("unsupported document type")
)

// Input is one uploaded document. MimeType decides which engine reads it.
type Input struct {
	Data     []byte
	MimeType string
	Filename string
}

func (in Input) IsPDF() bool {
	return strings.EqualFold(in.MimeType, MimePDF)
}

func (in Input) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(in.MimeType), "image/")
}

// Result is the recognised text with a 0..100 confidence.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Engine     string  `json:"engine"`
}

type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// Router sends PDFs to one engine and images to another.
type Router struct {
	images Engine
	pdfs   Engine
}

func NewRouter(images, pdfs Engine) *Router {
	return &Router{images: images, pdfs: pdfs}
}

func (r *Router) Name() string {
	return "router"
}

func (r *Router) Recognize(ctx context.Context, input Input) (Result, error) {
	switch {
	case input.IsPDF() && r.pdfs != nil:
		return r.pdfs.Recognize(ctx, input)
	case input.IsImage() && r.images != nil:
		return r.images.Recognize(ctx, input)
	}
	return Result{}, ErrUnsupported
}

// BestOf runs every engine on the same input concurrently and keeps the
// result with the highest confidence. It fails only when all engines fail.
type BestOf struct {
	engines []Engine
}

func NewBestOf(engines ...Engine) *BestOf {
	return &BestOf{engines: engines}
}

func (b *BestOf) Name() string {
	names := make([]string, len(b.engines))
	for i, e := range b.engines {
		names[i] = e.Name()
	}
	return "best(" + strings.Join(names, ",") + ")"
}

func (b *BestOf) Recognize(ctx context.Context, input Input) (Result, error) {
	if len(b.engines) == 0 {
		return Result{}, ErrUnsupported
	}

	results := make([]Result, len(b.engines))
	errs := make([]error, len(b.engines))

	var wg sync.WaitGroup
	for i, e := range b.engines {
		wg.Add(1)
		go func(i int, e Engine) {
			defer wg.Done()
			results[i], errs[i] = e.Recognize(ctx, input)
		}(i, e)
	}
	wg.Wait()

	best := -1
	for i := range results {
		if errs[i] != nil || strings.TrimSpace(results[i].Text) == "" {
			continue
		}
		if best < 0 || results[i].Confidence > results[best].Confidence {
			best = i
		}
	}

	if best < 0 {
		for _, err := range errs {
			if err != nil {
				return Result{}, err
			}
		}
		return Result{}, ErrNoText
	}
	return results[best], nil
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	}
	return c
}
