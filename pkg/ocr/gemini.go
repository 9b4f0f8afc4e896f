package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docverify/pkg/gemini"

	jsoniter "github.com/json-iterator/go"
)

const transcriptionPrompt = `Transcribe every line of text in this document exactly as printed, keeping one printed line per output line and keeping labels such as "Name:" next to their values.
Do not translate, summarise or correct anything.
Respond only with JSON in this shape:
{"text": "<transcribed text with \n between lines>", "confidence": <0-100 estimate of transcription accuracy>}`

type GeminiEngine struct {
	client gemini.IGemini
}

func NewGeminiEngine(client gemini.IGemini) *GeminiEngine {
	return &GeminiEngine{client: client}
}

func (g *GeminiEngine) Name() string {
	return "gemini"
}

func (g *GeminiEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	if !input.IsImage() && !input.IsPDF() {
		return Result{}, ErrUnsupported
	}

	response, err := g.client.AnalyzeDocument(ctx, input.MimeType, input.Data, transcriptionPrompt)
	if err != nil {
		return Result{}, fmt.Errorf("gemini transcription failed: %w", err)
	}

	result, err := parseTranscription(response)
	if err != nil {
		return Result{}, err
	}
	result.Engine = g.Name()

	return result, nil
}

type transcription struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func parseTranscription(response string) (Result, error) {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")

	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return Result{}, errors.New("cannot find valid JSON in response")
	}

	var t transcription
	if err := jsoniter.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &t); err != nil {
		return Result{}, fmt.Errorf("failed to parse transcription: %w", err)
	}
	if strings.TrimSpace(t.Text) == "" {
		return Result{}, ErrNoText
	}

	return Result{Text: t.Text, Confidence: clampConfidence(t.Confidence)}, nil
}
