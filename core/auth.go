package core

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Authenticator obtains and applies the per-run credential used on data
// requests.
type Authenticator interface {
	authorize() error
	setAuthHeader(headers *http.Header)
	Token() *Token
}

// Token is the short-lived credential produced by the token exchange.
// It is held only for the duration of one run; there is no renewal.
type Token struct {
	Value      string
	Expiration int64 // epoch millis
}

// ExpirationTime returns the token expiration as a UTC time.
func (t *Token) ExpirationTime() time.Time {
	return time.UnixMilli(t.Expiration).UTC()
}

// createAuthenticator creates an Authenticator based on the provided config
// and performs the token exchange immediately. Each session gets its own
// authenticator instance.
func createAuthenticator(config *TenantConfig) (Authenticator, error) {
	if config.ApiKey == "" || config.TenantID == "" {
		panic("createAuthenticator: api key and tenant id are required")
	}
	authenticator := &ApiKeyAuthenticator{
		Host:       config.Host,
		ApiVersion: config.ApiVersion,
		TenantID:   config.TenantID,
		ApiKey:     config.ApiKey,
		SslVerify:  config.SslVerify,
		UserAgent:  config.UserAgent,
	}
	if err := authenticator.authorize(); err != nil {
		return nil, err
	}
	return authenticator, nil
}

// ApiKeyAuthenticator exchanges a long-lived API key for a short-lived token
// via POST /restapi/{version}/tenants/{tenantId}/token with the key in the
// x-api-key header. The obtained token is sent on data requests in the
// x-api-token header.
type ApiKeyAuthenticator struct {
	Host       string
	ApiVersion string
	TenantID   string
	ApiKey     string
	SslVerify  bool
	UserAgent  string
	token      *Token
}

// tokenEnvelope mirrors the token endpoint response shape:
// { "result": { "token": "...", "expiration": 1700003600000 } }
type tokenEnvelope struct {
	Result struct {
		Token      string      `json:"token"`
		Expiration json.Number `json:"expiration"`
	} `json:"result"`
}

func (auth *ApiKeyAuthenticator) authorize() error {
	url, err := buildTenantUrl(auth.Host, auth.ApiVersion, auth.TenantID, "token", "")
	if err != nil {
		return &AuthError{URL: url, Reason: err.Error()}
	}

	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !auth.SslVerify},
	}
	client := &http.Client{
		Transport: tr,
		Timeout:   20 * time.Second,
	}

	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return &AuthError{URL: url, Reason: err.Error()}
	}
	req.Header.Set(HeaderApiKey, auth.ApiKey)
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	req.Header.Set(HeaderAccept, ContentTypeJSON)
	if auth.UserAgent != "" {
		req.Header.Set(HeaderUserAgent, auth.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &AuthError{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &AuthError{URL: url, StatusCode: resp.StatusCode, Reason: getResponseBodyAsStr(resp)}
	}

	token, err := parseToken(resp)
	if err != nil {
		return &AuthError{URL: url, Reason: err.Error()}
	}
	auth.token = token
	return nil
}

// parseToken decodes the token exchange response. Both result.token and
// result.expiration must be present.
func parseToken(rsp *http.Response) (*Token, error) {
	out, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, err
	}
	var envelope tokenEnvelope
	if err = json.Unmarshal(out, &envelope); err != nil {
		return nil, fmt.Errorf("invalid token response: %w", err)
	}
	if envelope.Result.Token == "" {
		return nil, fmt.Errorf("unexpected token response structure: missing result.token")
	}
	expiration, err := envelope.Result.Expiration.Int64()
	if err != nil || envelope.Result.Expiration.String() == "" {
		return nil, fmt.Errorf("unexpected token response structure: missing result.expiration")
	}
	return &Token{Value: envelope.Result.Token, Expiration: expiration}, nil
}

func (auth *ApiKeyAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Set(HeaderApiToken, auth.token.Value)
}

// Token returns the token obtained during authorization.
func (auth *ApiKeyAuthenticator) Token() *Token {
	return auth.token
}
