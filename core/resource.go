package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	version "github.com/hashicorp/go-version"
)

// TenantResource provides common read behavior for tenant-scoped
// collections. Concrete resources embed it and add endpoint-specific
// methods.
type TenantResource struct {
	resourcePath  string
	resourceType  string
	rest          Rester
	availableFrom *version.Version
}

func NewTenantResource(resourcePath, resourceType string, rest Rester, availableFrom *version.Version) *TenantResource {
	return &TenantResource{
		resourcePath:  resourcePath,
		resourceType:  resourceType,
		rest:          rest,
		availableFrom: availableFrom,
	}
}

// Session returns the session associated with the resource.
func (e *TenantResource) Session() RESTSession {
	return e.rest.GetSession()
}

// Ctx returns the context of the owning facade. Extra resource methods use
// it for their non-context variants.
func (e *TenantResource) Ctx() context.Context {
	return e.rest.GetCtx()
}

func (e *TenantResource) GetResourceType() string {
	return e.resourceType
}

func (e *TenantResource) GetResourcePath() string {
	return "/" + strings.Trim(e.resourcePath, "/") + "/"
}

// available checks whether the configured API version supports this
// resource. Unparseable configured versions disable the gate.
func (e *TenantResource) available() error {
	if e.availableFrom == nil {
		return nil
	}
	raw := strings.TrimPrefix(e.Session().GetConfig().ApiVersion, "v")
	current, err := version.NewVersion(raw)
	if err != nil {
		return nil
	}
	if current.LessThan(e.availableFrom) {
		return &ConfigError{Reason: fmt.Sprintf(
			"resource %q requires API version %s, configured version is %s",
			e.resourceType, e.availableFrom, current,
		)}
	}
	return nil
}

// ListRawWithContext fetches the whole list payload for the resource,
// including the envelope fields (tenantId, storageType, data).
func (e *TenantResource) ListRawWithContext(ctx context.Context, params Params) (Record, error) {
	if err := e.available(); err != nil {
		return nil, err
	}
	return Request[Record](ctx, e.Session(), http.MethodGet, e.resourcePath, params, nil)
}

// ListWithContext fetches the resource collection and unwraps the data
// envelope into a RecordSet.
func (e *TenantResource) ListWithContext(ctx context.Context, params Params) (RecordSet, error) {
	payload, err := e.ListRawWithContext(ctx, params)
	if err != nil {
		return nil, err
	}
	return ExtractData(payload)
}

// GetWithContext returns the single record whose fields match all the given
// params. The tenant API has no server-side field filtering, so matching is
// done client side. Returns NotFoundError when nothing matches and
// TooManyRecordsError when more than one record does.
func (e *TenantResource) GetWithContext(ctx context.Context, params Params) (Record, error) {
	records, err := e.ListWithContext(ctx, nil)
	if err != nil {
		return nil, err
	}
	var matches RecordSet
	for _, record := range records {
		if matchParams(record, params) {
			matches = append(matches, record)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Resource: e.resourceType, Query: params.ToQuery()}
	case 1:
		return matches[0], nil
	default:
		return nil, &TooManyRecordsError{ResourcePath: e.resourcePath, Params: params}
	}
}

// GetByIdWithContext fetches a single resource by its id path segment.
func (e *TenantResource) GetByIdWithContext(ctx context.Context, id any) (Record, error) {
	if err := e.available(); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("%s/%v", strings.Trim(e.resourcePath, "/"), id)
	return Request[Record](ctx, e.Session(), http.MethodGet, path, nil, nil)
}

// ExistsWithContext reports whether any record matches the given params.
func (e *TenantResource) ExistsWithContext(ctx context.Context, params Params) (bool, error) {
	if _, err := e.GetWithContext(ctx, params); err != nil {
		if IsNotFoundErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (e *TenantResource) List(params Params) (RecordSet, error) {
	return e.ListWithContext(e.rest.GetCtx(), params)
}

func (e *TenantResource) ListRaw(params Params) (Record, error) {
	return e.ListRawWithContext(e.rest.GetCtx(), params)
}

func (e *TenantResource) Get(params Params) (Record, error) {
	return e.GetWithContext(e.rest.GetCtx(), params)
}

func (e *TenantResource) GetById(id any) (Record, error) {
	return e.GetByIdWithContext(e.rest.GetCtx(), id)
}

func (e *TenantResource) Exists(params Params) (bool, error) {
	return e.ExistsWithContext(e.rest.GetCtx(), params)
}

// ListPathWithContext fetches an arbitrary tenant sub-collection path and
// unwraps its data envelope. Used by resources with nested endpoints such
// as storage-systems/{id}/volumes.
func ListPathWithContext(ctx context.Context, s RESTSession, path string, params Params) (RecordSet, error) {
	payload, err := Request[Record](ctx, s, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	return ExtractData(payload)
}

// ExtractData unwraps the "data" collection of a list payload.
// A payload without a data key yields an empty set; a data value that is
// not a list is an error.
func ExtractData(payload Record) (RecordSet, error) {
	raw, ok := payload["data"]
	if !ok || raw == nil {
		return RecordSet{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("malformed payload: data is %T, expected a list", raw)
	}
	records := make(RecordSet, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("malformed payload: data[%d] is %T, expected an object", i, item)
		}
		records = append(records, Record(m))
	}
	return records, nil
}

// matchParams reports whether every param key is present in the record with
// a matching stringified value.
func matchParams(record Record, params Params) bool {
	for key, want := range params {
		got, ok := record[key]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
