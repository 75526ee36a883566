package insights_client

import (
	"context"
	"fmt"

	"github.com/ibm-storage/go-insights-client/core"
)

// validateStorageType rejects filter values the storage-systems endpoint
// does not understand. The empty value means "all types".
func validateStorageType(storageType string) error {
	switch storageType {
	case core.StorageTypeBlock, core.StorageTypeFiler, core.StorageTypeObject, core.StorageTypeAll:
		return nil
	}
	return &core.ConfigError{Reason: fmt.Sprintf(
		"invalid storage type %q (expected block, filer, object or empty for all)", storageType,
	)}
}

// StorageSystems lists the monitored storage systems of the tenant.
type StorageSystems struct {
	*core.TenantResource
}

// ListRawByTypeWithContext fetches the whole storage-systems payload
// (envelope included) filtered by storage type. An empty storage type
// omits the filter so every type is returned.
func (s *StorageSystems) ListRawByTypeWithContext(ctx context.Context, storageType string) (Record, error) {
	if err := validateStorageType(storageType); err != nil {
		return nil, err
	}
	var params core.Params
	if storageType != core.StorageTypeAll {
		params = core.Params{core.StorageSystemsQueryKey: storageType}
	}
	return s.ListRawWithContext(ctx, params)
}

func (s *StorageSystems) ListRawByType(storageType string) (Record, error) {
	return s.ListRawByTypeWithContext(s.Ctx(), storageType)
}

// ListByTypeWithContext fetches storage systems filtered by storage type
// and unwraps the data envelope.
func (s *StorageSystems) ListByTypeWithContext(ctx context.Context, storageType string) (RecordSet, error) {
	payload, err := s.ListRawByTypeWithContext(ctx, storageType)
	if err != nil {
		return nil, err
	}
	return core.ExtractData(payload)
}

func (s *StorageSystems) ListByType(storageType string) (RecordSet, error) {
	return s.ListByTypeWithContext(s.Ctx(), storageType)
}

// GetByNameWithContext returns the single storage system with the given name.
func (s *StorageSystems) GetByNameWithContext(ctx context.Context, name string) (Record, error) {
	return s.GetWithContext(ctx, core.Params{"name": name})
}

func (s *StorageSystems) GetByName(name string) (Record, error) {
	return s.GetByNameWithContext(s.Ctx(), name)
}

// Volumes lists the volumes of a single storage system. The tenant API has
// no tenant-level volumes collection, so the whole surface is per-system
// and there is no embedded collection resource.
type Volumes struct {
	rest core.Rester
}

func (v *Volumes) ListForSystemWithContext(ctx context.Context, systemID string) (RecordSet, error) {
	path := fmt.Sprintf("storage-systems/%s/volumes", systemID)
	return core.ListPathWithContext(ctx, v.rest.GetSession(), path, nil)
}

func (v *Volumes) ListForSystem(systemID string) (RecordSet, error) {
	return v.ListForSystemWithContext(v.rest.GetCtx(), systemID)
}

// Pools lists the pools of a single storage system. Like volumes, pools
// exist only under a storage system.
type Pools struct {
	rest core.Rester
}

func (p *Pools) ListForSystemWithContext(ctx context.Context, systemID string) (RecordSet, error) {
	path := fmt.Sprintf("storage-systems/%s/pools", systemID)
	return core.ListPathWithContext(ctx, p.rest.GetSession(), path, nil)
}

func (p *Pools) ListForSystem(systemID string) (RecordSet, error) {
	return p.ListForSystemWithContext(p.rest.GetCtx(), systemID)
}

// Alerts lists tenant alerts, either for the whole tenant or for a single
// storage system.
type Alerts struct {
	*core.TenantResource
}

func (a *Alerts) ListForSystemWithContext(ctx context.Context, systemID string) (RecordSet, error) {
	path := fmt.Sprintf("storage-systems/%s/alerts", systemID)
	return core.ListPathWithContext(ctx, a.Session(), path, nil)
}

func (a *Alerts) ListForSystem(systemID string) (RecordSet, error) {
	return a.ListForSystemWithContext(a.Ctx(), systemID)
}

// StorageSystem is the typed projection of a storage system record.
// Additional payload fields pass through the underlying Record untouched.
type StorageSystem struct {
	Name                  string `json:"name"`
	StorageSystemID       string `json:"storage_system_id"`
	SerialNumber          string `json:"serial_number"`
	Type                  string `json:"type"`
	Vendor                string `json:"vendor"`
	Model                 string `json:"model"`
	Condition             string `json:"condition"`
	ProbeStatus           string `json:"probe_status"`
	LastSuccessfulProbe   *int64 `json:"last_successful_probe"`
	LastSuccessfulMonitor *int64 `json:"last_successful_monitor"`
}
