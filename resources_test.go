package insights_client

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibm-storage/go-insights-client/core"
)

type capturedRequest struct {
	Path   string
	Query  url.Values
	Token  string
	ApiKey string
}

// newTestRest starts a TLS test server serving the token endpoint and the
// given data handler, then builds a Rest facade against it.
func newTestRest(t *testing.T, dataHandler http.HandlerFunc) (*Rest, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = append(captured, capturedRequest{
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Token:  r.Header.Get(core.HeaderApiToken),
			ApiKey: r.Header.Get(core.HeaderApiKey),
		})
		if strings.HasSuffix(r.URL.Path, "/token") {
			w.Header().Set(core.HeaderContentType, core.ContentTypeJSON)
			w.Write([]byte(`{"result":{"token":"tok-xyz","expiration":1700003600000}}`))
			return
		}
		dataHandler(w, r)
	}))
	t.Cleanup(ts.Close)

	rest, err := NewRest(&core.TenantConfig{
		Host:     strings.TrimPrefix(ts.URL, "https://"),
		ApiKey:   "key-1",
		TenantID: "tenant-1",
	})
	require.NoError(t, err)
	return rest, &captured
}

func systemsHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(core.HeaderContentType, core.ContentTypeJSON)
		w.Write([]byte(body))
	}
}

func TestNewRestPerformsTokenExchange(t *testing.T) {
	rest, captured := newTestRest(t, systemsHandler(`{"data":[]}`))

	require.Len(t, *captured, 1, "construction performs exactly one request")
	tokenReq := (*captured)[0]
	assert.Equal(t, "/restapi/v1/tenants/tenant-1/token", tokenReq.Path)
	assert.Equal(t, "key-1", tokenReq.ApiKey)

	token := rest.Token()
	require.NotNil(t, token)
	assert.Equal(t, "tok-xyz", token.Value)
	assert.Equal(t, "tenant-1", rest.TenantID())
}

func TestNewRestRejectsMissingCredentials(t *testing.T) {
	_, err := NewRest(&core.TenantConfig{TenantID: "tenant-1"})
	assert.True(t, core.IsConfigError(err), "missing api key should be a ConfigError, got %v", err)

	_, err = NewRest(&core.TenantConfig{ApiKey: "key-1"})
	assert.True(t, core.IsConfigError(err), "missing tenant id should be a ConfigError, got %v", err)
}

func TestNewRestSurfacesAuthFailure(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(ts.Close)

	_, err := NewRest(&core.TenantConfig{
		Host:     strings.TrimPrefix(ts.URL, "https://"),
		ApiKey:   "bad-key",
		TenantID: "tenant-1",
	})
	assert.True(t, core.IsAuthError(err), "rejected key should be an AuthError, got %v", err)
}

func TestStorageSystemsListByTypeSendsFilter(t *testing.T) {
	rest, captured := newTestRest(t, systemsHandler(
		`{"tenantId":"tenant-1","storageType":"block","data":[{"name":"sys1"}]}`,
	))

	records, err := rest.StorageSystems.ListByType(core.StorageTypeBlock)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sys1", records[0]["name"])

	dataReq := (*captured)[len(*captured)-1]
	assert.Equal(t, "/restapi/v1/tenants/tenant-1/storage-systems", dataReq.Path)
	assert.Equal(t, core.StorageTypeBlock, dataReq.Query.Get(core.StorageSystemsQueryKey))
	assert.Equal(t, "tok-xyz", dataReq.Token, "data requests carry the exchanged token")
	assert.Empty(t, dataReq.ApiKey, "data requests must not leak the api key")
}

func TestStorageSystemsListByTypeAllOmitsFilter(t *testing.T) {
	rest, captured := newTestRest(t, systemsHandler(`{"data":[]}`))

	_, err := rest.StorageSystems.ListByType(core.StorageTypeAll)
	require.NoError(t, err)

	dataReq := (*captured)[len(*captured)-1]
	assert.False(t, dataReq.Query.Has(core.StorageSystemsQueryKey),
		"empty storage type must omit the filter param entirely")
}

func TestStorageSystemsListByTypeInvalid(t *testing.T) {
	rest, captured := newTestRest(t, systemsHandler(`{"data":[]}`))
	before := len(*captured)

	_, err := rest.StorageSystems.ListByType("tape")
	assert.True(t, core.IsConfigError(err))
	assert.Len(t, *captured, before, "invalid filter must fail before any request is made")
}

func TestStorageSystemsListRawByTypeKeepsEnvelope(t *testing.T) {
	rest, _ := newTestRest(t, systemsHandler(
		`{"tenantId":"tenant-1","storageType":"filer","data":[{"name":"nas1"}]}`,
	))

	payload, err := rest.StorageSystems.ListRawByType(core.StorageTypeFiler)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", payload["tenantId"])
	assert.Equal(t, "filer", payload["storageType"])

	records, err := core.ExtractData(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "nas1", records[0]["name"])
}

func TestStorageSystemsGetByName(t *testing.T) {
	rest, _ := newTestRest(t, systemsHandler(
		`{"data":[{"name":"sys1","condition":"normal"},{"name":"sys2","condition":"warning"}]}`,
	))

	record, err := rest.StorageSystems.GetByName("sys2")
	require.NoError(t, err)
	assert.Equal(t, "warning", record["condition"])

	_, err = rest.StorageSystems.GetByName("missing")
	assert.True(t, core.IsNotFoundErr(err))
}

func TestStorageSystemRecordFill(t *testing.T) {
	rest, _ := newTestRest(t, systemsHandler(
		`{"data":[{"name":"sys1","serial_number":75000123,"condition":"normal","last_successful_probe":1700000000000}]}`,
	))

	record, err := rest.StorageSystems.GetByName("sys1")
	require.NoError(t, err)

	var sys StorageSystem
	require.NoError(t, record.Fill(&sys))
	assert.Equal(t, "sys1", sys.Name)
	assert.Equal(t, "75000123", sys.SerialNumber, "numeric serials coerce to string")
	require.NotNil(t, sys.LastSuccessfulProbe)
	assert.Equal(t, int64(1700000000000), *sys.LastSuccessfulProbe)
}

func TestNestedResourcePaths(t *testing.T) {
	rest, captured := newTestRest(t, systemsHandler(`{"data":[{"id":"x"}]}`))

	tests := []struct {
		name     string
		list     func() (RecordSet, error)
		wantPath string
	}{
		{
			name:     "volumes",
			list:     func() (RecordSet, error) { return rest.Volumes.ListForSystem("sys-1") },
			wantPath: "/restapi/v1/tenants/tenant-1/storage-systems/sys-1/volumes",
		},
		{
			name:     "pools",
			list:     func() (RecordSet, error) { return rest.Pools.ListForSystem("sys-1") },
			wantPath: "/restapi/v1/tenants/tenant-1/storage-systems/sys-1/pools",
		},
		{
			name:     "system alerts",
			list:     func() (RecordSet, error) { return rest.Alerts.ListForSystem("sys-1") },
			wantPath: "/restapi/v1/tenants/tenant-1/storage-systems/sys-1/alerts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := tt.list()
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantPath, (*captured)[len(*captured)-1].Path)
		})
	}
}

func TestTenantAlerts(t *testing.T) {
	rest, captured := newTestRest(t, systemsHandler(`{"data":[{"severity":"critical"}]}`))

	records, err := rest.Alerts.List(nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "critical", records[0]["severity"])
	assert.Equal(t, "/restapi/v1/tenants/tenant-1/alerts", (*captured)[len(*captured)-1].Path)
}

func TestResourceMapWiring(t *testing.T) {
	rest, _ := newTestRest(t, systemsHandler(`{"data":[]}`))
	resourceMap := rest.GetResourceMap()
	for _, name := range []string{"StorageSystems", "Alerts"} {
		assert.Contains(t, resourceMap, name)
	}
	// Volumes and pools exist only under a storage system; a tenant-level
	// collection surface for them would list storage systems instead.
	assert.NotContains(t, resourceMap, "Volumes")
	assert.NotContains(t, resourceMap, "Pools")
}

func TestNestedResourcesOnlyRequestNestedPaths(t *testing.T) {
	rest, captured := newTestRest(t, systemsHandler(`{"data":[]}`))
	before := len(*captured)

	_, err := rest.Volumes.ListForSystem("sys-1")
	require.NoError(t, err)
	_, err = rest.Pools.ListForSystem("sys-1")
	require.NoError(t, err)

	for _, req := range (*captured)[before:] {
		assert.NotEqual(t, "/restapi/v1/tenants/tenant-1/storage-systems", req.Path,
			"nested resources must never hit the storage-systems collection")
	}
}

func TestLoadCredentialsAlias(t *testing.T) {
	// The root package re-exports credentials loading for library consumers.
	_, err := LoadCredentials("/nonexistent/creds")
	assert.True(t, core.IsConfigError(err))
}
