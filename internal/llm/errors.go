package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/openai/openai-go"

	"askpdf/internal/domain"
)

// WrapError classifies an OpenAI SDK error as a *domain.Error.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.Error{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) domain.ErrorKind {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return domain.KindAuth
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return domain.KindRateLimit
		case apiErr.StatusCode >= 500:
			return domain.KindUnavailable
		case apiErr.StatusCode >= 400:
			return domain.KindInvalidInput
		}
		return domain.KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.KindNetwork
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return domain.KindNetwork
	}
	return domain.KindUnknown
}
