package insights_client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bndr/gotabulate"
)

// TimestampPlaceholder is rendered in place of an absent or zero timestamp.
const TimestampPlaceholder = "—"

var statusTableHeaders = []string{
	"Name",
	"Last Successful Probe (UTC)",
	"Last Successful Monitor (UTC)",
	"Condition",
}

// FormatTimestamp renders an epoch-millis payload value as ISO-8601 UTC.
// nil and zero values render as the placeholder; non-numeric values are
// passed through as-is.
func FormatTimestamp(val any) string {
	var ms int64
	switch v := val.(type) {
	case nil:
		return TimestampPlaceholder
	case int64:
		ms = v
	case int:
		ms = int64(v)
	case float64:
		ms = int64(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return v.String()
		}
		ms = parsed
	default:
		return fmt.Sprint(v)
	}
	if ms == 0 {
		return TimestampPlaceholder
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// BuildStatusTable renders the storage-system status table: one row per
// record with name, last probe/monitor timestamps and condition. A
// non-negative limit truncates the rows, preserving the record order, so a
// zero limit yields a header-only table; a negative limit renders every
// row. Rendering is deterministic: the same records always produce
// identical output.
func BuildStatusTable(records RecordSet, limit int) string {
	var rows [][]any
	for idx, record := range records {
		if limit >= 0 && idx >= limit {
			break
		}
		rows = append(rows, []any{
			stringField(record, "name"),
			FormatTimestamp(record["last_successful_probe"]),
			FormatTimestamp(record["last_successful_monitor"]),
			stringField(record, "condition"),
		})
	}
	if len(rows) == 0 {
		return headerOnlyTable()
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(statusTableHeaders)
	t.SetAlign("left")
	t.SetEmptyString("")
	return t.Render("simple")
}

// headerOnlyTable renders the header row and its divider with no data
// rows. The table library cannot render an empty row set, so the two lines
// are laid out directly, each column as wide as its header.
func headerOnlyTable() string {
	dashes := make([]string, len(statusTableHeaders))
	for i, header := range statusTableHeaders {
		dashes[i] = strings.Repeat("-", len(header))
	}
	return strings.Join(statusTableHeaders, " | ") + "\n" + strings.Join(dashes, "-+-")
}

func stringField(record Record, key string) string {
	val, ok := record[key]
	if !ok || val == nil {
		return ""
	}
	return fmt.Sprint(val)
}
