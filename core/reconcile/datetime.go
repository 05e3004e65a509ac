package reconcile

import (
	"strings"
	"time"
)

// DateLayouts are the accepted date and datetime input formats, tried in order.
// Month, day and time components accept one or two digits except in the compact form.
var DateLayouts = []string{
	"2006-1-2",                   // YYYY-MM-DD
	"2006/1/2",                   // YYYY/MM/DD
	"1/2/2006",                   // MM/DD/YYYY
	"2/1/2006",                   // DD/MM/YYYY
	"20060102",                   // YYYYMMDD
	"2.1.2006",                   // DD.MM.YYYY
	"2-1-2006",                   // DD-MM-YYYY
	"2006-1-2 15:4:5",            // YYYY-MM-DD HH:MM:SS
	"2-1-2006 15:4:5",            // DD-MM-YYYY HH:MM:SS
	"2006-1-2T15:4:5",            // YYYY-MM-DDTHH:MM:SS
	"2006-01-02 15:04:05.999999", // YYYY-MM-DD HH:MM:SS.ffffff
}

// ParseDateTime parses s against DateLayouts; the first layout that matches wins.
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeTime returns a KindTime value, or the trimmed input as text when no
// layout matches. Validate reports the latter as an invalid datetime.
func normalizeTime(raw string) Value {
	if t, ok := ParseDateTime(raw); ok {
		return Value{Kind: KindTime, Time: t}
	}
	return textValue(strings.TrimSpace(raw))
}
