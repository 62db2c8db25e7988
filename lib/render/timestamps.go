package render

import (
	"fmt"
	"time"
)

var dateTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"}

// dateMarker renders a YYYY-MM-DD value as a Discord date marker. Values
// that do not parse are shown as they are.
func (r *Renderer) dateMarker(value string) string {
	t, err := time.ParseInLocation("2006-01-02", value, r.loc)
	if err != nil {
		return value
	}
	return fmt.Sprintf("<t:%d:D>", t.Unix())
}

// dateTimeMarker renders a local date-time as an absolute marker followed by
// a relative one. A bare date falls back to dateMarker.
func (r *Renderer) dateTimeMarker(value string) string {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, r.loc); err == nil {
			return fmt.Sprintf("<t:%d:F> (<t:%d:R>)", t.Unix(), t.Unix())
		}
	}
	return r.dateMarker(value)
}
