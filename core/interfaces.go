package core

import (
	"context"
)

// TenantResourceAPI defines read operations on a tenant-scoped collection.
// The Insights tenant API exposes no create/update/delete surface.
type TenantResourceAPI interface {
	Session() RESTSession
	GetResourceType() string
	GetResourcePath() string

	List(Params) (RecordSet, error)
	ListRaw(Params) (Record, error)
	Get(Params) (Record, error)
	GetById(any) (Record, error)
	Exists(Params) (bool, error)
}

type TenantResourceAPIWithContext interface {
	TenantResourceAPI
	ListWithContext(context.Context, Params) (RecordSet, error)
	ListRawWithContext(context.Context, Params) (Record, error)
	GetWithContext(context.Context, Params) (Record, error)
	GetByIdWithContext(context.Context, any) (Record, error)
	ExistsWithContext(context.Context, Params) (bool, error)
}

// Rester is the surface a resource needs from the facade that owns it.
type Rester interface {
	GetSession() RESTSession
	GetCtx() context.Context
}
