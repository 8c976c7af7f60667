package ai

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrUnavailable is returned by capabilities that were never configured.
var ErrUnavailable = errors.New("capability is not configured")

// EntityRecognizer finds person names in free text.
type EntityRecognizer interface {
	People(text string) ([]string, error)
}

// Embedder turns texts into dense vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts ...string) ([][]float32, error)
}

// RecognizerFactory builds an EntityRecognizer. It is called at most once.
type RecognizerFactory func() (EntityRecognizer, error)

// EmbedderFactory builds an Embedder. It is called at most once.
type EmbedderFactory func(ctx context.Context) (Embedder, error)

// Services is the process wide handle for the optional language
// capabilities. Each capability is built on first use, and the instance or
// the construction error is cached for every later call.
type Services struct {
	logger *zap.Logger

	recognizerFactory RecognizerFactory
	recognizerOnce    sync.Once
	recognizer        EntityRecognizer
	recognizerErr     error

	embedderFactory EmbedderFactory
	embedderOnce    sync.Once
	embedder        Embedder
	embedderErr     error
}

type ServicesOption func(*Services)

func WithRecognizerFactory(f RecognizerFactory) ServicesOption {
	return func(s *Services) {
		s.recognizerFactory = f
	}
}

func WithEmbedderFactory(f EmbedderFactory) ServicesOption {
	return func(s *Services) {
		s.embedderFactory = f
	}
}

func NewServices(logger *zap.Logger, opts ...ServicesOption) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Services{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Services) loadRecognizer() (EntityRecognizer, error) {
	s.recognizerOnce.Do(func() {
		if s.recognizerFactory == nil {
			s.recognizerErr = ErrUnavailable
			return
		}
		s.recognizer, s.recognizerErr = s.recognizerFactory()
		if s.recognizerErr != nil {
			s.logger.Warn("entity recognition disabled", zap.Error(s.recognizerErr))
			return
		}
		s.logger.Debug("entity recognizer initialized")
	})
	return s.recognizer, s.recognizerErr
}

func (s *Services) loadEmbedder(ctx context.Context) (Embedder, error) {
	s.embedderOnce.Do(func() {
		if s.embedderFactory == nil {
			s.embedderErr = ErrUnavailable
			return
		}
		s.embedder, s.embedderErr = s.embedderFactory(ctx)
		if s.embedderErr != nil {
			s.logger.Warn("semantic embeddings disabled", zap.Error(s.embedderErr))
			return
		}
		s.logger.Debug("embedder initialized")
	})
	return s.embedder, s.embedderErr
}

// EntityRecognizer returns a recognizer that initializes lazily.
// It returns nil when no factory was configured.
func (s *Services) EntityRecognizer() EntityRecognizer {
	if s == nil || s.recognizerFactory == nil {
		return nil
	}
	return lazyRecognizer{s: s}
}

// Embedder returns an embedder that initializes lazily.
// It returns nil when no factory was configured.
func (s *Services) Embedder() Embedder {
	if s == nil || s.embedderFactory == nil {
		return nil
	}
	return lazyEmbedder{s: s}
}

type lazyRecognizer struct{ s *Services }

func (l lazyRecognizer) People(text string) ([]string, error) {
	r, err := l.s.loadRecognizer()
	if err != nil {
		return nil, err
	}
	return r.People(text)
}

type lazyEmbedder struct{ s *Services }

func (l lazyEmbedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	e, err := l.s.loadEmbedder(ctx)
	if err != nil {
		return nil, err
	}
	return e.Embed(ctx, texts...)
}
