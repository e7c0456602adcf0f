package claude

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
	"github.com/kirillkom/claims-reconciler/internal/infrastructure/resilience"
)

// ClassifyBackendError drives retry and breaker accounting for Messages API
// calls. Context expiry is never retried: the pair's extraction budget is
// spent.
func ClassifyBackendError(err error) resilience.Classification {
	if err == nil {
		return resilience.Classification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Classification{}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Classification{Retry: false, CountFailure: false}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return resilience.Classification{Retry: true, CountFailure: true}
		}
		return resilience.Classification{}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Classification{Retry: true, CountFailure: true}
	}

	return resilience.Classification{CountFailure: true}
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// toExtractionError maps transport failures onto the capability's failure
// contract.
func toExtractionError(filename string, err error) *domain.ExtractionError {
	if extractionErr, ok := domain.AsExtractionError(err); ok {
		return extractionErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewExtractionError(filename, domain.ReasonTimeout, err)
	}
	return domain.NewExtractionError(filename, domain.ReasonBackend, err)
}
