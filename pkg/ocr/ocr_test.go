package ocr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	name   string
	result Result
	err    error

	mu    sync.Mutex
	calls int
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Recognize(_ context.Context, _ Input) (Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.result, s.err
}

type memoryCache struct {
	values map[string]string
	getErr error
}

func (m *memoryCache) SetCache(_ context.Context, key string, value string, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memoryCache) GetCache(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

type stubGemini struct {
	response string
	err      error
	mimeType string
}

func (s *stubGemini) AnalyzeDocument(_ context.Context, mimeType string, _ []byte, _ string) (string, error) {
	s.mimeType = mimeType
	return s.response, s.err
}

func (s *stubGemini) Close() error { return nil }

func TestRouterDispatchesByMimeType(t *testing.T) {
	images := &stubEngine{name: "img", result: Result{Text: "image text", Engine: "img"}}
	pdfs := &stubEngine{name: "pdf", result: Result{Text: "pdf text", Engine: "pdf"}}
	router := NewRouter(images, pdfs)

	res, err := router.Recognize(context.Background(), Input{MimeType: "application/PDF"})
	require.NoError(t, err)
	assert.Equal(t, "pdf text", res.Text)

	res, err = router.Recognize(context.Background(), Input{MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "image text", res.Text)

	_, err = router.Recognize(context.Background(), Input{MimeType: "text/plain"})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = NewRouter(images, nil).Recognize(context.Background(), Input{MimeType: MimePDF})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestBestOfPicksHighestConfidence(t *testing.T) {
	low := &stubEngine{name: "low", result: Result{Text: "lo", Confidence: 40}}
	high := &stubEngine{name: "high", result: Result{Text: "hi", Confidence: 85}}
	failing := &stubEngine{name: "bad", err: errors.New("boom")}
	blank := &stubEngine{name: "blank", result: Result{Text: "  ", Confidence: 99}}

	best := NewBestOf(low, failing, high, blank)
	assert.Equal(t, "best(low,bad,high,blank)", best.Name())

	res, err := best.Recognize(context.Background(), Input{MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Text)
	assert.Equal(t, 1, low.calls)
	assert.Equal(t, 1, failing.calls)
}

func TestBestOfAllFailing(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewBestOf(&stubEngine{name: "a", err: boom}).Recognize(context.Background(), Input{})
	assert.ErrorIs(t, err, boom)

	_, err = NewBestOf(&stubEngine{name: "a", result: Result{Text: ""}}).Recognize(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrNoText)

	_, err = NewBestOf().Recognize(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCachedEngineMemoisesByContent(t *testing.T) {
	inner := &stubEngine{name: "vision", result: Result{Text: "Name: Jane", Confidence: 93, Engine: "vision"}}
	cache := &memoryCache{values: map[string]string{}}
	engine := NewCachedEngine(inner, cache, time.Hour, nil)

	in := Input{Data: []byte("same bytes"), MimeType: "image/png"}

	first, err := engine.Recognize(context.Background(), in)
	require.NoError(t, err)
	second, err := engine.Recognize(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Contains(t, cache.values, CacheKey("vision", in.Data))

	_, err = engine.Recognize(context.Background(), Input{Data: []byte("other bytes"), MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedEngineFallsThroughOnCacheError(t *testing.T) {
	inner := &stubEngine{name: "vision", result: Result{Text: "x"}}
	cache := &memoryCache{values: map[string]string{}, getErr: errors.New("redis down")}

	log, hook := logtest.NewNullLogger()

	res, err := NewCachedEngine(inner, cache, time.Minute, log).Recognize(context.Background(), Input{Data: []byte("a")})
	require.NoError(t, err)
	assert.Equal(t, "x", res.Text)
	assert.Equal(t, 1, inner.calls)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "ocr cache lookup failed", entry.Message)
	assert.Equal(t, CacheKey("vision", []byte("a")), entry.Data["key"])
}

func TestCachedEngineLogsUnreadableEntry(t *testing.T) {
	inner := &stubEngine{name: "vision", result: Result{Text: "fresh"}}
	key := CacheKey("vision", []byte("a"))
	cache := &memoryCache{values: map[string]string{key: "{not json"}}
	log, hook := logtest.NewNullLogger()

	res, err := NewCachedEngine(inner, cache, time.Minute, log).Recognize(context.Background(), Input{Data: []byte("a")})
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Text)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "discarding unreadable ocr cache entry", hook.Entries[0].Message)
}

func TestCachedEngineDoesNotStoreFailures(t *testing.T) {
	inner := &stubEngine{name: "vision", err: ErrNoText}
	cache := &memoryCache{values: map[string]string{}}

	_, err := NewCachedEngine(inner, cache, time.Minute, nil).Recognize(context.Background(), Input{Data: []byte("a")})
	assert.ErrorIs(t, err, ErrNoText)
	assert.Empty(t, cache.values)
}

func TestGeminiEngine(t *testing.T) {
	client := &stubGemini{response: "```json\n{\"text\": \"Name: Jane Doe\\nAge: 30\", \"confidence\": 87.5}\n```"}
	engine := NewGeminiEngine(client)

	res, err := engine.Recognize(context.Background(), Input{Data: []byte{1}, MimeType: MimePDF})
	require.NoError(t, err)
	assert.Equal(t, Result{Text: "Name: Jane Doe\nAge: 30", Confidence: 87.5, Engine: "gemini"}, res)
	assert.Equal(t, MimePDF, client.mimeType)

	_, err = engine.Recognize(context.Background(), Input{MimeType: "text/csv"})
	assert.ErrorIs(t, err, ErrUnsupported)

	client.err = errors.New("quota")
	_, err = engine.Recognize(context.Background(), Input{MimeType: "image/jpeg"})
	assert.Error(t, err)
}

func TestParseTranscription(t *testing.T) {
	res, err := parseTranscription(`{"text": "a", "confidence": 140}`)
	require.NoError(t, err)
	assert.Equal(t, float64(100), res.Confidence)

	_, err = parseTranscription("I could not read this image")
	assert.Error(t, err)

	_, err = parseTranscription(`{"text": "", "confidence": 10}`)
	assert.ErrorIs(t, err, ErrNoText)

	_, err = parseTranscription(`{"text": 12}`)
	assert.Error(t, err)
}

func TestJoinLines(t *testing.T) {
	detections := []*rekognition.TextDetection{
		{Type: aws.String("LINE"), DetectedText: aws.String("Name: Jane Doe"), Confidence: aws.Float64(98)},
		{Type: aws.String("WORD"), DetectedText: aws.String("Name:"), Confidence: aws.Float64(10)},
		{Type: aws.String("LINE"), DetectedText: aws.String("Age: 30"), Confidence: aws.Float64(90)},
	}

	text, conf := joinLines(detections)
	assert.Equal(t, "Name: Jane Doe\nAge: 30", text)
	assert.InDelta(t, 94, conf, 0.001)

	text, conf = joinLines(nil)
	assert.Empty(t, text)
	assert.Zero(t, conf)
}

func TestPageConfidence(t *testing.T) {
	pages := []*visionpb.Page{{Confidence: 0.9}, {Confidence: 0.7}}
	assert.InDelta(t, 80, pageConfidence(pages), 0.01)
	assert.Zero(t, pageConfidence(nil))
}

func TestEnginesRejectWrongTypes(t *testing.T) {
	_, err := (&RekognitionEngine{}).Recognize(context.Background(), Input{MimeType: "image/webp"})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = (&VisionEngine{}).Recognize(context.Background(), Input{MimeType: MimePDF})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = (&PDFEngine{}).Recognize(context.Background(), Input{MimeType: "image/png"})
	assert.ErrorIs(t, err, ErrUnsupported)
}
