package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/coinscope/market-pipeline/coingecko"
	"github.com/coinscope/market-pipeline/gemini"
)

// ErrorKind classifies a failure for the consuming layer
type ErrorKind int

const (
	// KindNetwork is a transport-level failure, including timeouts
	KindNetwork ErrorKind = iota
	// KindUpstreamStatus is a non-2xx response from a provider
	KindUpstreamStatus
	// KindMalformed is a response body that did not match the expected schema
	KindMalformed
	// KindCancelled marks a superseded cycle; never user-visible
	KindCancelled
	// KindConfiguration is a missing or placeholder credential
	KindConfiguration
	// KindNoData is an unmet data precondition for analysis
	KindNoData
)

func (k ErrorKind) String() string {
	switch k {
	case KindUpstreamStatus:
		return "upstream status failure"
	case KindMalformed:
		return "malformed response"
	case KindCancelled:
		return "cancelled"
	case KindConfiguration:
		return "configuration error"
	case KindNoData:
		return "no data"
	default:
		return "network failure"
	}
}

// Failure is a classified pipeline error
type Failure struct {
	Kind ErrorKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsCancelled reports whether the failure belongs to a superseded cycle
func (f *Failure) IsCancelled() bool { return f != nil && f.Kind == KindCancelled }

// NewFailure builds a failure of the given kind
func NewFailure(kind ErrorKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

// Classify maps a raw provider or transport error onto the error taxonomy
func Classify(err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &Failure{Kind: KindCancelled, Err: err}
	case errors.Is(err, coingecko.ErrMalformedPayload),
		errors.Is(err, gemini.ErrMalformedPayload),
		errors.Is(err, gemini.ErrUnexpectedShape):
		return &Failure{Kind: KindMalformed, Err: err}
	case errors.Is(err, gemini.ErrMissingCredential):
		return &Failure{Kind: KindConfiguration, Err: err}
	}

	var cgStatus *coingecko.StatusError
	if errors.As(err, &cgStatus) {
		return &Failure{Kind: KindUpstreamStatus, Err: err}
	}
	var gmStatus *gemini.StatusError
	if errors.As(err, &gmStatus) {
		return &Failure{Kind: KindUpstreamStatus, Err: err}
	}

	return &Failure{Kind: KindNetwork, Err: err}
}
