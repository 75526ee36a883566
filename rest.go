package insights_client

import (
	"context"
	"fmt"
	"reflect"
	"time"

	version "github.com/hashicorp/go-version"
	"github.com/ibm-storage/go-insights-client/core"
	"github.com/ibm-storage/go-insights-client/openapischema"
)

// MinApiDocVersion is the oldest tenant API document version this client
// understands.
const MinApiDocVersion = "1.0"

const noVersionGate = ""

// Rest is the facade over the tenant API. Constructing it performs the
// token exchange; resources share its session and context.
type Rest struct {
	ctx         context.Context
	Session     core.RESTSession
	resourceMap map[string]core.TenantResourceAPIWithContext

	StorageSystems *StorageSystems
	Volumes        *Volumes
	Pools          *Pools
	Alerts         *Alerts
}

// NewRest validates the config, obtains a token for the tenant and wires
// the resource set.
func NewRest(config *core.TenantConfig) (*Rest, error) {
	config.Validate(
		core.WithHost(core.DefaultHost),
		core.WithApiVersion(core.DefaultApiVersion),
		core.WithTimeout(30*time.Second),
		core.WithMaxConnections(10),
		core.WithUserAgent,
		core.WithFillFn,
	)
	if err := core.WithAuth(config); err != nil {
		return nil, &core.ConfigError{Reason: err.Error()}
	}
	if err := checkApiCompatibility(); err != nil {
		return nil, err
	}
	session, err := core.NewInsightsSession(config)
	if err != nil {
		return nil, err
	}
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}
	rest := &Rest{
		ctx:         ctx,
		Session:     session,
		resourceMap: make(map[string]core.TenantResourceAPIWithContext),
	}
	rest.StorageSystems = newResource[StorageSystems](rest, "storage-systems", noVersionGate)
	rest.Alerts = newResource[Alerts](rest, "alerts", "1.0")
	// Volumes and pools have no tenant-level collection endpoint, only the
	// per-system paths, so they are not wired as collection resources.
	rest.Volumes = &Volumes{rest: rest}
	rest.Pools = &Pools{rest: rest}

	return rest, nil
}

func (rest *Rest) GetSession() core.RESTSession {
	return rest.Session
}

func (rest *Rest) GetResourceMap() map[string]core.TenantResourceAPIWithContext {
	return rest.resourceMap
}

func (rest *Rest) GetCtx() context.Context {
	return rest.ctx
}

func (rest *Rest) SetCtx(ctx context.Context) {
	rest.ctx = ctx
}

// Token returns the short-lived token obtained during construction.
func (rest *Rest) Token() *core.Token {
	return rest.Session.GetAuthenticator().Token()
}

// TenantID returns the tenant this client is scoped to.
func (rest *Rest) TenantID() string {
	return rest.Session.GetConfig().TenantID
}

// restResourceType constrains newResource to the resources backed by a
// tenant-level collection endpoint. All members share the same underlying
// struct so the generic composite literal below is valid.
type restResourceType interface {
	StorageSystems | Alerts
}

func newResource[T restResourceType](rest *Rest, resourcePath, availableFromVersion string) *T {
	var availableFrom *version.Version
	if availableFromVersion != noVersionGate {
		availableFrom, _ = version.NewVersion(availableFromVersion)
	}
	resourceType := reflect.TypeOf(*new(T)).Name()
	resource := &T{
		core.NewTenantResource(resourcePath, resourceType, rest, availableFrom),
	}
	if res, ok := any(resource).(core.TenantResourceAPIWithContext); ok {
		rest.resourceMap[resourceType] = res
	} else {
		panic(fmt.Sprintf("resource %s does not implement the tenant resource interface", resourceType))
	}
	return resource
}

// checkApiCompatibility verifies the embedded API document against the
// client's supported range.
func checkApiCompatibility() error {
	docVer, err := openapischema.DocVersion()
	if err != nil {
		return err
	}
	minVer, err := version.NewVersion(MinApiDocVersion)
	if err != nil {
		return err
	}
	if docVer.LessThan(minVer) {
		return &core.ConfigError{Reason: fmt.Sprintf(
			"embedded API document version %s is older than the minimum supported %s", docVer, minVer,
		)}
	}
	return nil
}
