package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType classifies where in the pipeline an error happened and
// whether it is worth retrying.
type ErrorType string

const (
	// ErrorTypeFetchTransient represents recoverable fetch errors (timeouts, 5xx)
	ErrorTypeFetchTransient ErrorType = "fetch_transient"
	// ErrorTypeFetchTerminal represents non-recoverable fetch errors (4xx, malformed responses)
	ErrorTypeFetchTerminal ErrorType = "fetch_terminal"
	// ErrorTypeRateLimit represents storefront rate limiting
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeIndex represents search store write errors
	ErrorTypeIndex ErrorType = "index"
	// ErrorTypeStore represents bookkeeping store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a pipeline error attributed to a seller
type ScrapeError struct {
	Type     ErrorType
	SellerID string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.SellerID, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.SellerID, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth another attempt
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeFetchTransient, ErrorTypeRateLimit, ErrorTypeIndex:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, sellerID, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:     errType,
		SellerID: sellerID,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewFetchTransient creates a transient fetch error
func NewFetchTransient(sellerID, message string, err error) *ScrapeError {
	return New(ErrorTypeFetchTransient, sellerID, message, err)
}

// NewFetchTerminal creates a terminal fetch error
func NewFetchTerminal(sellerID, message string, err error) *ScrapeError {
	return New(ErrorTypeFetchTerminal, sellerID, message, err)
}

// NewRateLimit creates a rate limit error
func NewRateLimit(sellerID string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, sellerID, message, nil)
}

// NewParsing creates a parsing error
func NewParsing(sellerID, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, sellerID, message, err)
}

// NewIndex creates a search store write error
func NewIndex(sellerID, message string, err error) *ScrapeError {
	return New(ErrorTypeIndex, sellerID, message, err)
}

// NewStore creates a bookkeeping store error
func NewStore(message string, err error) *ScrapeError {
	return New(ErrorTypeStore, "", message, err)
}

// NewConfiguration creates a configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a ScrapeError of the given type.
func IsType(err error, errType ErrorType) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Type == errType
	}
	return false
}
