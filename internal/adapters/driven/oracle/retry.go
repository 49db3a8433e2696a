package oracle

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/matn/internal/core/domain"
)

// Classify maps a failed call to an ErrorKind.
// ctx is the caller's context: once it is done every failure counts as canceled.
func Classify(ctx context.Context, err error) domain.ErrorKind {
	if err == nil {
		return ""
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return domain.ErrorKindCanceled
	}

	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		switch {
		case upErr.StatusCode == http.StatusTooManyRequests:
			return domain.ErrorKindRateLimited
		case upErr.StatusCode >= 500:
			return domain.ErrorKindServer
		case upErr.StatusCode == http.StatusRequestTimeout:
			return domain.ErrorKindNetwork
		case upErr.StatusCode >= 400:
			return domain.ErrorKindClient
		default:
			return domain.ErrorKindUnknown
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.ErrorKindNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.ErrorKindNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrorKindNetwork
	}
	return domain.ErrorKindUnknown
}

// retryAfter returns the server-requested wait carried by err, if any.
func retryAfter(err error) time.Duration {
	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		return upErr.RetryAfter
	}
	return 0
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
