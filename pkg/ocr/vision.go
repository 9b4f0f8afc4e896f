package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

type VisionEngine struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionEngine uses application default credentials unless a
// credentials file option is passed.
func NewVisionEngine(ctx context.Context, opts ...option.ClientOption) (*VisionEngine, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision API client: %w", err)
	}
	return &VisionEngine{client: client}, nil
}

func (v *VisionEngine) Name() string {
	return "vision"
}

func (v *VisionEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	if !input.IsImage() {
		return Result{}, ErrUnsupported
	}

	image, err := vision.NewImageFromReader(bytes.NewReader(input.Data))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read image: %w", err)
	}

	annotation, err := v.client.DetectDocumentText(ctx, image, nil)
	if err != nil {
		return Result{}, fmt.Errorf("vision text detection failed: %w", err)
	}
	if annotation == nil || strings.TrimSpace(annotation.GetText()) == "" {
		return Result{}, ErrNoText
	}

	return Result{
		Text:       annotation.GetText(),
		Confidence: pageConfidence(annotation.GetPages()),
		Engine:     v.Name(),
	}, nil
}

func (v *VisionEngine) Close() error {
	return v.client.Close()
}

// pageConfidence averages the per page confidence onto the 0..100 scale.
func pageConfidence(pages []*visionpb.Page) float64 {
	if len(pages) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pages {
		sum += float64(p.GetConfidence())
	}
	return clampConfidence(100 * sum / float64(len(pages)))
}
