package core

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
)

// validateResponse checks the response for a 2xx HTTP status code.
// It returns an *ApiError if the status code is outside the 2xx range
// or if the response is nil.
func validateResponse(response *http.Response) error {
	requestURL := "<unknown URL>"
	method := "<unknown method>"
	if response == nil {
		return &ApiError{
			Method:     method,
			URL:        requestURL,
			StatusCode: 0,
			Body:       "server unreachable: verify the host is correct and the network is accessible",
		}
	}
	if response.StatusCode >= 200 && response.StatusCode <= 299 {
		return nil
	}
	if response.Request != nil {
		if response.Request.URL != nil {
			requestURL = response.Request.URL.String()
		}
		method = response.Request.Method
	}
	return &ApiError{
		Method:     method,
		URL:        requestURL,
		StatusCode: response.StatusCode,
		Body:       getResponseBodyAsStr(response),
	}
}

// buildUrl builds a full tenant-scoped URL for the given sub-resource path
// and optional raw query. Every endpoint of the tenant API lives under
// /restapi/{version}/tenants/{tenantId}/.
func buildUrl(s RESTSession, path, query string) (string, error) {
	config := s.GetConfig()
	return buildTenantUrl(config.Host, config.ApiVersion, config.TenantID, path, query)
}

func buildTenantUrl(host, apiVersion, tenantID, path, query string) (string, error) {
	joinedPath, err := urlpkg.JoinPath(ApiBasePath, apiVersion, "tenants", tenantID, strings.Trim(path, "/"))
	if err != nil {
		return "", err
	}
	url := urlpkg.URL{
		Scheme: "https",
		Host:   host,
		Path:   joinedPath,
	}
	if query != "" {
		url.RawQuery = query
	}
	return url.String(), nil
}

// getResponseBodyAsStr reads and returns the HTTP response body as a string.
// If the body contains valid JSON, a pretty-printed version is returned.
// This function consumes the response body.
func getResponseBodyAsStr(r *http.Response) string {
	var b bytes.Buffer
	if r == nil {
		return ""
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	if err = json.Indent(&b, body, "", "  "); err == nil {
		return b.String()
	}
	return string(body)
}
