package core

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RESTSession is the transport surface used by resources. The tenant API is
// read-only apart from the token exchange, so only GET and POST are exposed.
type RESTSession interface {
	Get(context.Context, string, Params, []http.Header) (Renderable, error)
	Post(context.Context, string, Params, []http.Header) (Renderable, error)
	GetConfig() *TenantConfig
	GetAuthenticator() Authenticator
}

// ApiError represents an error returned from a data API request.
type ApiError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("response body: %s", e.Body)
	}
	return fmt.Sprintf(
		"%s request to %s returned status code %d"+
			" - response body: %s", e.Method, e.URL, e.StatusCode, e.Body,
	)
}

func IsApiError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr)
}

func IgnoreStatusCodes(err error, codes ...int) error {
	if !IsApiError(err) {
		return err
	}
	apiErr := err.(*ApiError)
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return nil
		}
	}
	return err
}

func ExpectStatusCodes(err error, codes ...int) bool {
	if !IsApiError(err) {
		return false
	}
	apiErr := err.(*ApiError)
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}

// InsightsSession is the concrete RESTSession for a single tenant.
// Constructing it performs the token exchange eagerly; every later request
// sends the obtained token in the x-api-token header.
type InsightsSession struct {
	config *TenantConfig
	client *http.Client
	auth   Authenticator
}

type sessionMethod func(context.Context, string, Params, []http.Header) (Renderable, error)

func NewInsightsSession(config *TenantConfig) (*InsightsSession, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !config.SslVerify}
	transport.MaxConnsPerHost = config.MaxConnections
	transport.IdleConnTimeout = *config.Timeout
	client := &http.Client{Transport: transport, Timeout: *config.Timeout}
	authenticator, err := createAuthenticator(config)
	if err != nil {
		return nil, err
	}
	session := &InsightsSession{
		config: config,
		client: client,
		auth:   authenticator,
	}
	return session, nil
}

// Request performs a tenant-scoped API request and asserts the decoded
// response shape against the generic type T.
func Request[T RecordUnion](
	ctx context.Context,
	session RESTSession,
	verb, path string,
	params, body Params,
) (T, error) {
	var (
		method sessionMethod
		query  string
	)
	if ctx == nil {
		ctx = context.Background()
	}
	verb = strings.ToUpper(verb)
	switch verb {
	case http.MethodGet:
		method = session.Get
	case http.MethodPost:
		method = session.Post
	default:
		return nil, fmt.Errorf("unknown verb: %s", verb)
	}
	if params != nil {
		query = params.ToQuery()
	}
	url, err := buildUrl(session, path, query)
	if err != nil {
		return nil, err
	}

	response, err := method(ctx, url, body, nil)
	if err != nil {
		return nil, err
	}

	if typeMatch[Record](response) {
		// Allow callers expecting a list to treat a single object as a
		// one-element set.
		var zero T
		if typeMatch[RecordSet](Renderable(zero)) {
			if !response.(Record).Empty() {
				response = RecordSet{response.(Record)}
			} else {
				response = RecordSet{}
			}
		}
	}

	resultVal, ok := response.(T)
	if !ok {
		return nil, fmt.Errorf(
			"unexpected response type for request to %s: got %T, expected %T",
			url, response, *new(T),
		)
	}
	return resultVal, nil
}

func (s *InsightsSession) Get(ctx context.Context, url string, _ Params, headers []http.Header) (Renderable, error) {
	return doRequest(ctx, s, http.MethodGet, url, nil, headers)
}

func (s *InsightsSession) Post(ctx context.Context, url string, body Params, headers []http.Header) (Renderable, error) {
	return doRequest(ctx, s, http.MethodPost, url, body, headers)
}

func (s *InsightsSession) GetConfig() *TenantConfig {
	return s.config
}

func (s *InsightsSession) GetAuthenticator() Authenticator {
	return s.auth
}

func consolidateHeaders(s RESTSession, customHeaders []http.Header) http.Header {
	finalHeaders := make(http.Header)

	for _, header := range customHeaders {
		for key, values := range header {
			for _, value := range values {
				finalHeaders.Add(key, value)
			}
		}
	}

	// Set default headers only if not already provided
	if finalHeaders.Get(HeaderAccept) == "" {
		finalHeaders.Set(HeaderAccept, ContentTypeJSON)
	}
	if finalHeaders.Get(HeaderContentType) == "" {
		finalHeaders.Set(HeaderContentType, ContentTypeJSON)
	}
	if finalHeaders.Get(HeaderUserAgent) == "" {
		finalHeaders.Set(HeaderUserAgent, s.GetConfig().UserAgent)
	}

	return finalHeaders
}

func setupHeaders(s RESTSession, r *http.Request, headers http.Header) {
	// Always set the token header
	s.GetAuthenticator().setAuthHeader(&r.Header)

	for key, values := range headers {
		for _, value := range values {
			r.Header.Add(key, value)
		}
	}
}

// doRequest creates and processes a single HTTP request using the context.
// There is no retry and no mid-run token renewal: a 401 from an expired
// token surfaces as an ApiError and the tool is simply re-invoked.
func doRequest(ctx context.Context, s *InsightsSession, verb, url string, body Params, headers []http.Header) (Renderable, error) {
	var (
		config      = s.GetConfig()
		requestData io.Reader
		err         error
	)

	finalHeaders := consolidateHeaders(s, headers)

	if body == nil {
		requestData = bytes.NewReader(nil)
	} else {
		if requestData, err = body.ToBody(); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, verb, url, requestData)
	if err != nil {
		return nil, err
	}
	setupHeaders(s, req, finalHeaders)

	if config.BeforeRequestFn != nil {
		var beforeRequestData io.Reader
		if body != nil {
			if beforeRequestData, err = body.ToBody(); err != nil {
				return nil, err
			}
		}
		if err = config.BeforeRequestFn(ctx, req, verb, url, beforeRequestData); err != nil {
			return nil, err
		}
	}

	response, responseErr := s.client.Do(req)
	if responseErr != nil {
		return nil, fmt.Errorf("failed to perform %s request to %s, error %v", verb, url, responseErr)
	}
	if err = validateResponse(response); err != nil {
		return nil, err
	}
	result, err := unmarshalToRecordUnion(response)
	if err != nil {
		return nil, err
	}
	if config.AfterRequestFn != nil {
		return config.AfterRequestFn(ctx, result)
	}
	return result, nil
}
