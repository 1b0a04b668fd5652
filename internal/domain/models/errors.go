package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUniverseResolution aborts the pass before any instrument is sampled.
	ErrUniverseResolution = errors.New("universe resolution failed")
	// ErrSampleFetch covers transport, status and malformed candle failures.
	ErrSampleFetch = errors.New("sample fetch failed")
	// ErrSampleCompute covers an empty candle list and a missing or
	// non-positive open price.
	ErrSampleCompute = errors.New("sample compute failed")

	// ErrNotification is logged and counted; it never fails the pass.
	ErrNotification = errors.New("notification failed")
	// ErrPassInProgress refuses a trigger while another pass holds the lock.
	ErrPassInProgress = errors.New("scan pass already in progress")
)

// SampleError is a per-instrument failure. errors.Is matches both the kind
// sentinel and the underlying cause.
type SampleError struct {
	InstID string
	Kind   error
	Err    error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.InstID, e.Kind, e.Err)
}

func (e *SampleError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NewFetchError(instID string, err error) *SampleError {
	return &SampleError{InstID: instID, Kind: ErrSampleFetch, Err: err}
}

func NewComputeError(instID string, err error) *SampleError {
	return &SampleError{InstID: instID, Kind: ErrSampleCompute, Err: err}
}
