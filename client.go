package insights_client

import (
	"github.com/ibm-storage/go-insights-client/core"
)

type (
	TenantConfig = core.TenantConfig
	Credentials  = core.Credentials
	Params       = core.Params
	Record       = core.Record
	RecordSet    = core.RecordSet
	EmptyRecord  = core.EmptyRecord
	Renderable   = core.Renderable
	Token        = core.Token
)

// LoadCredentials parses an "apikey:/tenantid:" credentials file.
func LoadCredentials(path string) (Credentials, error) {
	return core.LoadCredentials(path)
}
