package dictation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"stillhouse/domain"
	"stillhouse/internal/metrics"

	"go.uber.org/zap"
)

const (
	maxAttempts = 3
	baseDelay   = time.Second
)

var codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

type (
	// Completer turns a prompt into JSON text shaped by fields.
	Completer interface {
		Complete(ctx context.Context, prompt string, fields []domain.DictationField) (string, error)
	}

	DictationService interface {
		Prefill(ctx context.Context, kind string, req domain.DictationRequest) (domain.DictationResponse, error)
	}

	dictationService struct {
		completer   Completer
		logger      *zap.Logger
		maxAttempts int
		baseDelay   time.Duration
		sleep       func(ctx context.Context, d time.Duration) error
	}
)

// NewDictationService returns a service that reports ErrDictationUnavailable
// when completer is nil.
func NewDictationService(completer Completer, logger *zap.Logger) DictationService {
	return &dictationService{
		completer:   completer,
		logger:      logger,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       sleepCtx,
	}
}

func (s *dictationService) Prefill(ctx context.Context, kind string, req domain.DictationRequest) (domain.DictationResponse, error) {
	fields, ok := Fields(kind)
	if !ok {
		return domain.DictationResponse{}, domain.ErrUnknownDictationKind
	}
	if s.completer == nil {
		return domain.DictationResponse{}, domain.ErrDictationUnavailable
	}

	res := domain.DictationResponse{
		Kind:    kind,
		Fields:  copyForm(req.Current),
		Updated: []string{},
	}

	parsed, attempts, err := s.complete(ctx, buildPrompt(kind, fields, req.Transcript), fields)
	res.Attempts = attempts
	if err != nil {
		return res, err
	}

	res.Fields, res.Updated = Merge(req.Current, parsed, fields)
	return res, nil
}

// complete waits 1s, 2s, then 4s after each failed attempt.
func (s *dictationService) complete(ctx context.Context, prompt string, fields []domain.DictationField) (map[string]any, int, error) {
	delay := s.baseDelay
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		parsed, err := s.try(ctx, prompt, fields)
		if err == nil {
			metrics.DictationAttempts.WithLabelValues("ok").Inc()
			return parsed, attempt, nil
		}
		lastErr = err
		metrics.DictationAttempts.WithLabelValues("failed").Inc()
		s.logger.Warn("dictation attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err))

		if err := s.sleep(ctx, delay); err != nil {
			return nil, attempt, err
		}
		delay *= 2
	}

	return nil, s.maxAttempts, fmt.Errorf("%w after %d attempts: %v", domain.ErrDictationFailed, s.maxAttempts, lastErr)
}

func (s *dictationService) try(ctx context.Context, prompt string, fields []domain.DictationField) (map[string]any, error) {
	text, err := s.completer.Complete(ctx, prompt, fields)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if text == "" {
		return nil, domain.ErrEmptyCompletion
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	if parsed == nil {
		return nil, domain.ErrEmptyCompletion
	}
	return parsed, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func copyForm(current map[string]any) map[string]any {
	form := make(map[string]any, len(current))
	for k, v := range current {
		form[k] = v
	}
	return form
}
