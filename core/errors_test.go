package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	cfgErr := &ConfigError{Reason: "missing apikey"}
	authErr := &AuthError{URL: "https://x/token", StatusCode: 401, Reason: "denied"}
	apiErr := &ApiError{Method: "GET", URL: "https://x/storage-systems", StatusCode: 500, Body: "boom"}
	outErr := &OutputError{Path: "/tmp/out.json", Err: errors.New("disk full")}

	if !IsConfigError(cfgErr) || IsConfigError(authErr) {
		t.Error("IsConfigError misclassified")
	}
	if !IsAuthError(authErr) || IsAuthError(apiErr) {
		t.Error("IsAuthError misclassified")
	}
	if !IsApiError(apiErr) || IsApiError(cfgErr) {
		t.Error("IsApiError misclassified")
	}
	if !IsOutputError(outErr) || IsOutputError(apiErr) {
		t.Error("IsOutputError misclassified")
	}
}

func TestErrorTaxonomyWrapped(t *testing.T) {
	wrapped := fmt.Errorf("run failed: %w", &AuthError{URL: "u", Reason: "r"})
	if !IsAuthError(wrapped) {
		t.Error("IsAuthError should detect wrapped AuthError")
	}
}

func TestOutputErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	outErr := &OutputError{Path: "p", Err: inner}
	if !errors.Is(outErr, inner) {
		t.Error("OutputError should unwrap to the inner error")
	}
	if !strings.Contains(outErr.Error(), "disk full") {
		t.Errorf("Error() = %q, want inner error included", outErr.Error())
	}
}

func TestIgnoreStatusCodes(t *testing.T) {
	apiErr := &ApiError{StatusCode: http.StatusNotFound}
	if err := IgnoreStatusCodes(apiErr, http.StatusNotFound); err != nil {
		t.Errorf("IgnoreStatusCodes() = %v, want nil", err)
	}
	if err := IgnoreStatusCodes(apiErr, http.StatusForbidden); err == nil {
		t.Error("IgnoreStatusCodes() = nil, want error for unmatched code")
	}
	plain := errors.New("plain")
	if err := IgnoreStatusCodes(plain, http.StatusNotFound); err != plain {
		t.Errorf("IgnoreStatusCodes() = %v, want original error", err)
	}
}

func TestExpectStatusCodes(t *testing.T) {
	apiErr := &ApiError{StatusCode: http.StatusNotFound}
	if !ExpectStatusCodes(apiErr, http.StatusNotFound) {
		t.Error("ExpectStatusCodes() = false for matching code")
	}
	if ExpectStatusCodes(apiErr, http.StatusForbidden) {
		t.Error("ExpectStatusCodes() = true for non-matching code")
	}
	if ExpectStatusCodes(errors.New("plain"), http.StatusNotFound) {
		t.Error("ExpectStatusCodes() = true for non-api error")
	}
}

func TestNotFoundHelpers(t *testing.T) {
	nfErr := &NotFoundError{Resource: "StorageSystems", Query: "name=missing"}
	if !IsNotFoundErr(nfErr) {
		t.Error("IsNotFoundErr = false")
	}
	rec, err := IgnoreNotFound(Record{"a": 1}, nfErr)
	if err != nil {
		t.Errorf("IgnoreNotFound() error = %v, want nil", err)
	}
	if rec["a"] != 1 {
		t.Error("IgnoreNotFound() dropped record")
	}
	tooMany := &TooManyRecordsError{ResourcePath: "storage-systems", Params: Params{"condition": "normal"}}
	if !IsTooManyRecordsErr(tooMany) {
		t.Error("IsTooManyRecordsErr = false")
	}
}
