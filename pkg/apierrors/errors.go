// Package apierrors defines the error kinds surfaced by the search client.
//
// Every typed error matches its sentinel through errors.Is, so callers can
// branch on the kind without a type assertion:
//
//	resp, err := c.SendSearchRequest(ctx, req)
//	if errors.Is(err, apierrors.ErrServiceUnavailable) {
//	    // render the fallback listing
//	}
//
// Messages name parameters and endpoints, never the rejected values.
package apierrors

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigInvalid indicates a malformed shopkey or a config value of the wrong type.
	ErrConfigInvalid = errors.New("config invalid")

	// ErrInvalidParameter indicates a setter received a value failing its rule.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrRequiredParameterMissing indicates a dispatch before all required parameters were set.
	ErrRequiredParameterMissing = errors.New("required parameter missing")

	// ErrServiceUnavailable indicates a failed alivetest, a transport error or a non-200 status.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrMalformedResponse indicates the response body could not be parsed at all.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrBodyUnsupported is returned when the body of a body-less request is accessed.
	ErrBodyUnsupported = errors.New("request body is not supported for GET requests")
)

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	msg := "config invalid"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfigInvalid
}

// InvalidParameterError reports the query parameter whose value failed validation.
type InvalidParameterError struct {
	Param string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("parameter %s is not valid", e.Param)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// RequiredParameterError reports the first required parameter that was not set.
type RequiredParameterError struct {
	Param string
}

func (e *RequiredParameterError) Error() string {
	return fmt.Sprintf("required parameter %s is not set", e.Param)
}

func (e *RequiredParameterError) Is(target error) bool {
	return target == ErrRequiredParameterMissing
}

// ServiceUnavailableError reports why a dispatch to Endpoint was aborted.
// StatusCode is 0 when the transport failed before a response was read.
type ServiceUnavailableError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ServiceUnavailableError) Error() string {
	msg := "service unavailable"
	if e.Endpoint != "" {
		msg += ": " + e.Endpoint
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Cause
}

func (e *ServiceUnavailableError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

// MalformedResponseError reports a top-level parse failure of a response body.
type MalformedResponseError struct {
	Format string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	msg := "malformed response"
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// InvalidParameter is a shorthand used by the request setters.
func InvalidParameter(param string) error {
	return &InvalidParameterError{Param: param}
}
