package core

import (
	"strings"
	"testing"
	"time"
)

func TestTenantConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    *TenantConfig
		validator TenantConfigFunc
		wantPanic bool
	}{
		{
			name: "valid config with key and tenant",
			config: &TenantConfig{
				Host:     "test.com",
				ApiKey:   "key",
				TenantID: "tenant",
			},
			validator: WithAuth,
			wantPanic: false,
		},
		{
			name: "invalid config - no api key",
			config: &TenantConfig{
				Host:     "test.com",
				TenantID: "tenant",
			},
			validator: WithAuth,
			wantPanic: true,
		},
		{
			name: "invalid config - no tenant id",
			config: &TenantConfig{
				Host:   "test.com",
				ApiKey: "key",
			},
			validator: WithAuth,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPanic {
					t.Errorf("TenantConfig.Validate() panic = %v, wantPanic %v", r != nil, tt.wantPanic)
				}
			}()
			tt.config.Validate(tt.validator)
		})
	}
}

func TestWithTimeout(t *testing.T) {
	timeout := 60 * time.Second
	validator := WithTimeout(timeout)

	t.Run("sets timeout when nil", func(t *testing.T) {
		config := &TenantConfig{}
		if err := validator(config); err != nil {
			t.Errorf("WithTimeout() error = %v, wantErr false", err)
		}
		if *config.Timeout != timeout {
			t.Errorf("WithTimeout() timeout = %v, want %v", *config.Timeout, timeout)
		}
	})

	t.Run("keeps explicit timeout", func(t *testing.T) {
		explicit := 5 * time.Second
		config := &TenantConfig{Timeout: &explicit}
		if err := validator(config); err != nil {
			t.Errorf("WithTimeout() error = %v, wantErr false", err)
		}
		if *config.Timeout != explicit {
			t.Errorf("WithTimeout() timeout = %v, want %v", *config.Timeout, explicit)
		}
	})
}

func TestWithHost(t *testing.T) {
	config := &TenantConfig{}
	if err := WithHost(DefaultHost)(config); err != nil {
		t.Fatalf("WithHost() error = %v", err)
	}
	if config.Host != DefaultHost {
		t.Errorf("Host = %q, want %q", config.Host, DefaultHost)
	}

	config = &TenantConfig{Host: "example.com"}
	if err := WithHost(DefaultHost)(config); err != nil {
		t.Fatalf("WithHost() error = %v", err)
	}
	if config.Host != "example.com" {
		t.Errorf("Host = %q, want explicit host preserved", config.Host)
	}
}

func TestWithApiVersion(t *testing.T) {
	config := &TenantConfig{}
	if err := WithApiVersion(DefaultApiVersion)(config); err != nil {
		t.Fatalf("WithApiVersion() error = %v", err)
	}
	if config.ApiVersion != DefaultApiVersion {
		t.Errorf("ApiVersion = %q, want %q", config.ApiVersion, DefaultApiVersion)
	}
}

func TestWithMaxConnections(t *testing.T) {
	config := &TenantConfig{}
	if err := WithMaxConnections(10)(config); err != nil {
		t.Fatalf("WithMaxConnections() error = %v", err)
	}
	if config.MaxConnections != 10 {
		t.Errorf("MaxConnections = %d, want 10", config.MaxConnections)
	}
}

func TestWithUserAgent(t *testing.T) {
	config := &TenantConfig{}
	if err := WithUserAgent(config); err != nil {
		t.Fatalf("WithUserAgent() error = %v", err)
	}
	if !strings.Contains(config.UserAgent, "insights-go-client-") {
		t.Errorf("UserAgent = %q, want default client identifier", config.UserAgent)
	}
	if !strings.Contains(config.UserAgent, ClientVersion()) {
		t.Errorf("UserAgent = %q, want embedded client version %q", config.UserAgent, ClientVersion())
	}

	config = &TenantConfig{UserAgent: "custom"}
	if err := WithUserAgent(config); err != nil {
		t.Fatalf("WithUserAgent() error = %v", err)
	}
	if config.UserAgent != "custom" {
		t.Errorf("UserAgent = %q, want custom value preserved", config.UserAgent)
	}
}
