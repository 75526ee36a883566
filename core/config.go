package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"
)

// TenantConfig represents the configuration required to create a tenant session.
type TenantConfig struct {
	Host           string         // The hostname of the Storage Insights API server.
	ApiKey         string         // The long-lived API key used to obtain a token.
	TenantID       string         // The tenant UUID that scopes every API call.
	SslVerify      bool           // Whether to verify SSL certificates.
	Timeout        *time.Duration // HTTP client timeout. If nil, a default is applied by validators.
	MaxConnections int            // Maximum number of concurrent HTTP connections.
	UserAgent      string         // Optional custom User-Agent header. If empty, a default is applied.
	ApiVersion     string         // API version path segment (default "v1").
	// Context is an optional external context for controlling HTTP request lifecycle.
	// When provided, it is used as the parent context for all HTTP requests made by the client.
	Context context.Context

	// BeforeRequestFn is an optional hook executed before an API request is sent.
	// It allows for request inspection, mutation, or logging. Any error returned
	// aborts the request.
	BeforeRequestFn func(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error

	// AfterRequestFn is an optional hook executed after receiving an API response.
	// It can transform the decoded Renderable before it is returned to the caller.
	AfterRequestFn func(ctx context.Context, response Renderable) (Renderable, error)

	// FillFn optionally overrides the default function used to populate structs
	// from generic Record maps.
	FillFn func(r Record, container any) error
}

// TenantConfigFunc defines a function that can modify or validate a TenantConfig.
type TenantConfigFunc func(*TenantConfig) error

// Validate applies the given TenantConfigFunc validators to the config.
// Panics if any validator returns an error.
func (config *TenantConfig) Validate(validators ...TenantConfigFunc) {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			panic(err)
		}
	}
}

// WithTimeout returns a TenantConfigFunc that sets a default timeout if none is provided.
func WithTimeout(timeout time.Duration) TenantConfigFunc {
	return func(config *TenantConfig) error {
		if config.Timeout == nil {
			config.Timeout = &timeout
		}
		return nil
	}
}

// WithMaxConnections returns a TenantConfigFunc that sets the maximum number
// of connections if not explicitly provided.
func WithMaxConnections(maxConnections int) TenantConfigFunc {
	return func(config *TenantConfig) error {
		if config.MaxConnections == 0 {
			config.MaxConnections = maxConnections
		}
		return nil
	}
}

// WithHost returns a TenantConfigFunc that sets a default host if none is provided.
func WithHost(defaultHost string) TenantConfigFunc {
	return func(config *TenantConfig) error {
		if config.Host == "" {
			config.Host = defaultHost
		}
		return nil
	}
}

// WithAuth validates that both an API key and a tenant id are provided.
// Tokens are always tenant-scoped, so neither can be defaulted.
func WithAuth(config *TenantConfig) error {
	if config.ApiKey == "" || config.TenantID == "" {
		return errors.New("both api key and tenant id must be provided")
	}
	return nil
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
func WithUserAgent(config *TenantConfig) error {
	if config.UserAgent == "" {
		config.UserAgent = fmt.Sprintf(
			"%s,os:%s,arch:%s",
			fmt.Sprintf("insights-go-client-%s", ClientVersion()),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// WithApiVersion sets a default API version path segment.
func WithApiVersion(defaultVer string) TenantConfigFunc {
	return func(config *TenantConfig) error {
		if config.ApiVersion == "" {
			config.ApiVersion = defaultVer
		}
		return nil
	}
}

// WithFillFn installs a custom FillFn into the global fillFunc used by
// the Record.Fill method.
func WithFillFn(config *TenantConfig) error {
	if config.FillFn != nil {
		fillFunc = config.FillFn
	}
	return nil
}
