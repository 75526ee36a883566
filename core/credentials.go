package core

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Credentials holds the API key and tenant id parsed from a local
// credentials file. They are loaded once per invocation and never
// persisted anywhere else.
type Credentials struct {
	ApiKey   string
	TenantID string
}

// LoadCredentials parses a simple "key: value" credentials file.
// Recognized keys are "apikey" and "tenantid" (case insensitive).
// Blank lines, lines starting with '#' and lines without a colon are
// skipped; surrounding whitespace is trimmed from keys and values.
// Returns a ConfigError if the file is unreadable or either key is missing.
func LoadCredentials(path string) (Credentials, error) {
	file, err := os.Open(path)
	if err != nil {
		return Credentials{}, &ConfigError{Reason: fmt.Sprintf("credential file not found: %s", path)}
	}
	defer file.Close()

	var creds Credentials
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "apikey":
			creds.ApiKey = value
		case "tenantid":
			creds.TenantID = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Credentials{}, &ConfigError{Reason: fmt.Sprintf("failed to read %s: %v", path, err)}
	}

	if creds.ApiKey == "" || creds.TenantID == "" {
		return Credentials{}, &ConfigError{Reason: "both 'apikey' and 'tenantid' must be present in creds file"}
	}
	return creds, nil
}
