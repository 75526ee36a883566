package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"

	"github.com/bndr/gotabulate"
)

var empty = struct{}{}

// printableAttrs are the record keys promoted to the top of PrettyTable
// output. Everything else is collapsed into a compact JSON blob.
var printableAttrs = map[string]struct{}{
	"name":                    empty,
	"storage_system_id":       empty,
	"serial_number":           empty,
	"type":                    empty,
	"vendor":                  empty,
	"model":                   empty,
	"condition":               empty,
	"probe_status":            empty,
	"last_successful_probe":   empty,
	"last_successful_monitor": empty,
	"capacity_bytes":          empty,
	"used_capacity_bytes":     empty,
	"severity":                empty,
	"volume_id":               empty,
	"pool_id":                 empty,
}

type FillFunc func(Record, any) error

var fillFunc FillFunc = func(r Record, container any) error {
	dbByte, err := json.Marshal(r)
	if err != nil {
		return err
	}
	// FlexibleUnmarshal converts numbers to strings for string fields;
	// several Insights payload fields flip between the two across releases.
	return FlexibleUnmarshal(dbByte, container)
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value parameters,
// used for constructing query strings or request bodies.
type Params map[string]any

// ToQuery serializes the Params into a URL-encoded query string.
func (pr *Params) ToQuery() string {
	return convertMapToQuery(*pr)
}

// ToBody serializes the Params into a JSON-encoded io.Reader,
// suitable for use as the body of an HTTP POST request.
func (pr *Params) ToBody() (io.Reader, error) {
	buffer, err := json.Marshal(*pr)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// Update merges another Params map into the original Params.
// Existing keys are overwritten only when override is true.
func (pr *Params) Update(other Params, override bool) {
	for key, value := range other {
		if _, exists := (*pr)[key]; exists && !override {
			continue
		}
		(*pr)[key] = value
	}
}

// Without removes the specified keys from the Params map.
func (pr *Params) Without(keys ...string) {
	for _, key := range keys {
		delete(*pr, key)
	}
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// getPrintableAttrs returns a sorted slice of keys to be printed from the Record.
func getPrintableAttrs(r Record) []string {
	var attrs []string
	for key := range r {
		if _, ok := printableAttrs[key]; ok {
			attrs = append(attrs, key)
		}
	}
	sort.Strings(attrs)
	return attrs
}

// Renderable is an interface implemented by types that can render themselves
// into a human-readable string format, typically for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Filler is a generic interface for filling a struct or slice of structs.
type Filler interface {
	// Fill populates the given container with data from the implementing type.
	// The container can be a pointer to a struct (for Record),
	// or a pointer to a slice of structs (for RecordSet).
	Fill(container any) error
}

// DisplayableRecord combines rendering and data population capabilities.
// It is implemented by Record and RecordSet, allowing generic handling of
// different response shapes (single item or list).
type DisplayableRecord interface {
	Renderable
	Filler
}

// Record represents a single generic data object as a key-value map.
// It's commonly used to unmarshal a single JSON object from an API response.
type Record map[string]any

// RecordSet represents a list of Record objects.
type RecordSet []Record

// EmptyRecord represents an intentionally empty response body
// (e.g., 204 No Content).
type EmptyRecord map[string]any

// RecordUnion defines a union of supported record types for generic operations.
type RecordUnion interface {
	Record | RecordSet | EmptyRecord
}

// Fill populates the exported fields of the given struct pointer using values
// from the Record. It uses JSON marshaling and unmarshaling to map keys to
// struct fields based on their `json` tags and perform type conversions
// where needed.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	return fillFunc(r, container)
}

// RecordName returns the name of the record as a string.
// It looks up the "name" field in the record map.
func (r Record) RecordName() string {
	nameVal, ok := r["name"]
	if !ok {
		panic(fmt.Sprintf("record name not found in record %s", r.PrettyTable()))
	}
	return fmt.Sprintf("%v", nameVal)
}

// SetMissingValue sets the key to the provided value if it is not already present.
func (r Record) SetMissingValue(key string, value any) {
	if _, exists := r[key]; !exists {
		r[key] = value
	}
}

// PrettyTable prints a single Record as a two-column attr/value table.
func (r Record) PrettyTable() string {
	headers := []string{"attr", "value"}
	var rows [][]any
	if len(r) == 0 {
		return "<>"
	}
	for _, key := range getPrintableAttrs(r) {
		if val, ok := r[key]; ok && val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}
	remainingAttrs := make(map[string]any)
	for key, value := range r {
		if _, ok := printableAttrs[key]; !ok {
			if value == nil {
				continue
			}
			remainingAttrs[key] = value
		}
	}
	if len(remainingAttrs) > 0 {
		remainingJSON, _ := json.Marshal(remainingAttrs)
		rows = append(rows, []any{"<<remaining attrs>>", string(remainingJSON)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson prints the Record as JSON, optionally indented.
func (r Record) PrettyJson(indent ...string) string {
	return renderJson(r, indent...)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

func (r Record) String() string {
	return r.PrettyTable()
}

// Fill populates the provided container slice with data from the RecordSet.
// The container must be a non-nil pointer to a slice of structs.
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}
	sliceVal := val.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}

	elemType := sliceVal.Type().Elem()
	isPtrElem := elemType.Kind() == reflect.Ptr
	var targetType reflect.Type
	if isPtrElem {
		if elemType.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be pointer to a struct")
		}
		targetType = elemType.Elem()
	} else {
		if elemType.Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be a struct")
		}
		targetType = elemType
	}

	result := reflect.MakeSlice(sliceVal.Type(), 0, len(rs))
	for i, record := range rs {
		elemPtr := reflect.New(targetType)
		if err := record.Fill(elemPtr.Interface()); err != nil {
			return fmt.Errorf("failed to fill element %d: %w", i, err)
		}
		if isPtrElem {
			result = reflect.Append(result, elemPtr)
		} else {
			result = reflect.Append(result, elemPtr.Elem())
		}
	}
	sliceVal.Set(result)
	return nil
}

// PrettyTable prints each record of the set as a table.
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	for _, record := range rs {
		buf.WriteString(record.PrettyTable())
		buf.WriteString("\n")
	}
	return buf.String()
}

// PrettyJson prints the RecordSet as JSON, optionally indented.
func (rs RecordSet) PrettyJson(indent ...string) string {
	return renderJson(rs, indent...)
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

func (rs RecordSet) String() string {
	return rs.PrettyTable()
}

func (er EmptyRecord) PrettyTable() string {
	return "<>"
}

func (er EmptyRecord) PrettyJson(indent ...string) string {
	return "{}"
}

func renderJson(val any, indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(val, "", indent[0])
	} else {
		b, err = json.Marshal(val)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// typeMatch checks whether the dynamic type of the given Renderable value
// matches the generic type T at runtime.
func typeMatch[T RecordUnion](val Renderable) bool {
	var zero T
	return reflect.TypeOf(val) == reflect.TypeOf(zero)
}

// unmarshalToRecordUnion decodes an HTTP response body into a Record,
// RecordSet or EmptyRecord depending on the JSON shape.
func unmarshalToRecordUnion(response *http.Response) (Renderable, error) {
	defer response.Body.Close()

	if response.ContentLength == 0 || response.StatusCode == http.StatusNoContent {
		return EmptyRecord{}, nil
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return EmptyRecord{}, nil
	}
	switch trimmed[0] {
	case '{':
		var rec Record
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case '[':
		var recSet RecordSet
		if err := json.Unmarshal(body, &recSet); err != nil {
			return nil, err
		}
		return recSet, nil
	default:
		return nil, fmt.Errorf("unsupported JSON format: must be object or array")
	}
}
