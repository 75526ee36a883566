/*
Package insights_client provides a typed and convenient interface to the
IBM Storage Insights tenant REST API.

It wraps raw HTTP operations in a structured client: a long-lived API key
is exchanged for a short-lived token when the client is constructed, and
tenant-scoped collections (storage systems, volumes, pools, alerts) are
exposed as sub-clients supporting read operations (List, Get, GetById).

The main entry point is the Rest client, which is initialized from a
TenantConfig. The configuration allows customization of the API host,
tenant credentials, SSL behavior, request timeouts, and request/response
hooks.
*/
package insights_client
