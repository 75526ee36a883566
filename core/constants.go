package core

// HTTP header names used by the Storage Insights REST API.
// The tenant API uses two custom headers: x-api-key carries the long-lived
// API key during token exchange, x-api-token carries the short-lived token
// on every data request.
const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"
	HeaderApiKey      = "x-api-key"
	HeaderApiToken    = "x-api-token"
)

// HTTP content types.
const (
	ContentTypeJSON = "application/json"
)

// API path layout. Every endpoint lives under
// /restapi/{version}/tenants/{tenantId}/.
const (
	ApiBasePath       = "restapi"
	DefaultApiVersion = "v1"
	DefaultHost       = "dev.insights.ibm.com"
)

// Storage type filter values accepted by the storage-systems endpoint.
// StorageTypeAll (empty) omits the filter and returns every type.
const (
	StorageTypeBlock  = "block"
	StorageTypeFiler  = "filer"
	StorageTypeObject = "object"
	StorageTypeAll    = ""
)

// StorageSystemsQueryKey is the query parameter carrying the storage type filter.
const StorageSystemsQueryKey = "storage-type"
