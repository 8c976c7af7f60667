package gemini

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel      = "text-embedding-004"
	defaultMaxRetries = 3
	taskType          = "SEMANTIC_SIMILARITY"
)

var sleep = time.Sleep

type embedClient interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder wraps the Google GenAI client to produce sentence embeddings.
// Vectors are cached by content hash for the lifetime of the Embedder.
type Embedder struct {
	client     embedClient
	model      string
	maxRetries int
	logger     *zap.Logger

	cacheMu sync.RWMutex
	cache   map[[sha256.Size]byte][]float32
}

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, model, maxRetries, logger), nil
}

func newEmbedder(client embedClient, model string, maxRetries int, logger *zap.Logger) *Embedder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		client:     client,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
		cache:      make(map[[sha256.Size]byte][]float32),
	}
}

// Embed returns one vector per text. Only texts missing from the cache are sent.
func (e *Embedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	if e == nil || e.client == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	vectors := make([][]float32, len(texts))
	keys := make([][sha256.Size]byte, len(texts))

	var (
		missing  []int
		contents []*genai.Content
	)

	e.cacheMu.RLock()
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			e.cacheMu.RUnlock()
			return nil, fmt.Errorf("text %d must not be empty", i)
		}
		keys[i] = sha256.Sum256([]byte(text))
		if v, ok := e.cache[keys[i]]; ok {
			vectors[i] = v
			continue
		}
		missing = append(missing, i)
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}
	e.cacheMu.RUnlock()

	if len(missing) == 0 {
		return vectors, nil
	}

	resp, err := e.embedWithRetry(ctx, contents)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(missing) {
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", len(resp.Embeddings), len(missing))
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	for j, idx := range missing {
		emb := resp.Embeddings[j]
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini api returned empty embedding for text %d", idx)
		}
		vectors[idx] = emb.Values
		e.cache[keys[idx]] = emb.Values
	}

	return vectors, nil
}

func (e *Embedder) embedWithRetry(ctx context.Context, contents []*genai.Content) (*genai.EmbedContentResponse, error) {
	cfg := &genai.EmbedContentConfig{TaskType: taskType}

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		resp, err := e.client.EmbedContent(ctx, e.model, contents, cfg)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isTemporary(err) || attempt == e.maxRetries || ctx.Err() != nil {
			break
		}

		delay := time.Duration(attempt) * 500 * time.Millisecond
		e.logger.Debug("retrying embedding request",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := waitFor(ctx, delay); err != nil {
			return nil, fmt.Errorf("embed content: %w", err)
		}
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}

// waitFor pauses for d or until ctx is done.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func isTemporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests
}

func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}
