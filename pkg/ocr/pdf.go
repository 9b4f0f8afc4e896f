package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// pdfConfidence is reported for embedded PDF text, which is read rather than
// recognised.
const pdfConfidence = 90

type PDFEngine struct {
	parser *pdf.PDFParser
}

func NewPDFEngine(ctx context.Context) (*PDFEngine, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF parser: %w", err)
	}
	return &PDFEngine{parser: p}, nil
}

func (p *PDFEngine) Name() string {
	return "pdf"
}

func (p *PDFEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	if !input.IsPDF() {
		return Result{}, ErrUnsupported
	}

	docs, err := p.parser.Parse(ctx, bytes.NewReader(input.Data),
		einoParser.WithURI(input.Filename),
		einoParser.WithExtraMeta(map[string]any{"mime_type": input.MimeType}),
	)
	if err != nil {
		return Result{}, fmt.Errorf("PDF parser failed for %s: %w", input.Filename, err)
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if content := strings.TrimSpace(doc.Content); content != "" {
			parts = append(parts, content)
		}
	}
	if len(parts) == 0 {
		return Result{}, ErrNoText
	}

	return Result{
		Text:       strings.Join(parts, "\n"),
		Confidence: pdfConfidence,
		Engine:     p.Name(),
	}, nil
}
