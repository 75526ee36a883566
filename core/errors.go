package core

import (
	"errors"
	"fmt"
)

// ConfigError indicates a problem with local configuration or credentials:
// an unreadable credentials file, a missing apikey/tenantid entry, or an
// invalid option value.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// AuthError indicates that the token exchange failed: the token endpoint
// returned a non-success status or the response body did not contain
// result.token / result.expiration.
type AuthError struct {
	URL        string
	StatusCode int
	Reason     string
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token request to %s returned status code %d: %s", e.URL, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("token request to %s failed: %s", e.URL, e.Reason)
}

// OutputError indicates that writing an optional output file failed.
// It wraps the underlying I/O error.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned by Get-style lookups when no record matches
// the given params.
type NotFoundError struct {
	Resource string
	Query    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource '%s' not found for params '%s'", e.Resource, e.Query)
}

// TooManyRecordsError is returned by Get-style lookups when more than one
// record matches the given params.
type TooManyRecordsError struct {
	ResourcePath string
	Params       Params
}

func (e *TooManyRecordsError) Error() string {
	return fmt.Sprintf("too many records found for resource '%s' with params '%v'", e.ResourcePath, e.Params)
}

func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

func IsOutputError(err error) bool {
	var outErr *OutputError
	return errors.As(err, &outErr)
}

func IsNotFoundErr(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

func IgnoreNotFound(val Record, err error) (Record, error) {
	if IsNotFoundErr(err) {
		return val, nil
	}
	return val, err
}

func IsTooManyRecordsErr(err error) bool {
	var tooManyRecordsErr *TooManyRecordsError
	return errors.As(err, &tooManyRecordsErr)
}
