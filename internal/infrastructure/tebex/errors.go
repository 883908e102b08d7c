package tebex

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// StoreError is a non-success answer from the store webhook API.
type StoreError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("tebex %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

func IsStoreError(err error) (*StoreError, bool) {
	var storeErr *StoreError
	ok := errors.As(err, &storeErr)
	return storeErr, ok
}

func newStoreError(endpoint string, resp *resty.Response) *StoreError {
	return &StoreError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}
}
