package openapischema

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	version "github.com/hashicorp/go-version"
)

var (
	//go:embed api.json
	fs             embed.FS
	openApiDocOnce sync.Once
	openApiDoc     *openapi3.T
	openApiDocErr  error
	schemaRelPath  = "api.json"
)

// loadOpenAPIDocOnce loads and parses the embedded OpenAPI v3 document
// exactly once. Errors encountered during the initial load are cached and
// returned on subsequent calls.
func loadOpenAPIDocOnce() (*openapi3.T, error) {
	openApiDocOnce.Do(func() {
		data, err := fs.ReadFile(schemaRelPath)
		if err != nil {
			openApiDocErr = fmt.Errorf("read embedded api.json: %w", err)
			return
		}
		loader := openapi3.NewLoader()
		openApiDoc, openApiDocErr = loader.LoadFromData(data)
	})
	return openApiDoc, openApiDocErr
}

// GetDocument returns the parsed API document.
func GetDocument() (*openapi3.T, error) {
	return loadOpenAPIDocOnce()
}

// DocVersion returns the API document's info version as a comparable version.
func DocVersion() (*version.Version, error) {
	doc, err := loadOpenAPIDocOnce()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if doc.Info == nil || doc.Info.Version == "" {
		return nil, fmt.Errorf("OpenAPI document has no info version")
	}
	ver, err := version.NewVersion(doc.Info.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document version %q: %w", doc.Info.Version, err)
	}
	return ver, nil
}

// GetPathItem looks up a path item, accepting both forms with and without a
// trailing slash.
func GetPathItem(resourcePath string) (*openapi3.PathItem, error) {
	base := "/" + strings.Trim(resourcePath, "/")
	withSlash := base + "/"

	doc, err := loadOpenAPIDocOnce()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	paths := doc.Paths.Map()
	if item := paths[base]; item != nil {
		return item, nil
	}
	if item := paths[withSlash]; item != nil {
		return item, nil
	}

	var available []string
	for path := range paths {
		available = append(available, path)
	}
	return nil, fmt.Errorf(
		"path %q not found in OpenAPI schema. Available paths:\n  - %s",
		resourcePath,
		strings.Join(available, "\n  - "),
	)
}

// GetComponents returns the document's component definitions.
func GetComponents() (*openapi3.Components, error) {
	doc, err := loadOpenAPIDocOnce()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("OpenAPI document has no components defined")
	}
	return doc.Components, nil
}
