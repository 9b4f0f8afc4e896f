package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
)

type RekognitionEngine struct {
	client *rekognition.Rekognition
}

func NewRekognitionEngine(sess *session.Session) *RekognitionEngine {
	return &RekognitionEngine{client: rekognition.New(sess)}
}

func (r *RekognitionEngine) Name() string {
	return "rekognition"
}

// Recognize accepts only JPEG and PNG, the formats DetectText reads.
func (r *RekognitionEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	switch strings.ToLower(input.MimeType) {
	case "image/jpeg", "image/jpg", "image/png":
	default:
		return Result{}, ErrUnsupported
	}

	out, err := r.client.DetectTextWithContext(ctx, &rekognition.DetectTextInput{
		Image: &rekognition.Image{Bytes: input.Data},
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to call AWS rekognition: %w", err)
	}

	text, confidence := joinLines(out.TextDetections)
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrNoText
	}

	return Result{Text: text, Confidence: confidence, Engine: r.Name()}, nil
}

// joinLines keeps LINE detections in reading order, one per line, and
// averages their confidence.
func joinLines(detections []*rekognition.TextDetection) (string, float64) {
	var sb strings.Builder
	var sum float64
	count := 0

	for _, d := range detections {
		if aws.StringValue(d.Type) != rekognition.TextTypesLine {
			continue
		}
		if count > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(aws.StringValue(d.DetectedText))
		sum += aws.Float64Value(d.Confidence)
		count++
	}

	if count == 0 {
		return "", 0
	}
	return sb.String(), clampConfidence(sum / float64(count))
}
