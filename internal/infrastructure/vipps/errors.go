package vipps

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// ProviderError is a non-200 answer from the provider API.
type ProviderError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("vipps %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

func IsProviderError(err error) (*ProviderError, bool) {
	var provErr *ProviderError
	ok := errors.As(err, &provErr)
	return provErr, ok
}

func newProviderError(endpoint string, resp *resty.Response) *ProviderError {
	return &ProviderError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}
}
