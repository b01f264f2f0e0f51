package provider

import (
	"strconv"
	"strings"
)

// ExtractInt normalizes a numeric field from the provider's JSON.
//
// The provider returns most counters as JSON numbers but falls back to
// strings for some players ("12", "1.234", "-" for "none recorded").
// Returns ok=false when no integer can be extracted.
func ExtractInt(val interface{}) (int64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		// Thousands separators, e.g. "1.234" or "1,234"
		s = strings.NewReplacer(".", "", ",", "", "'", "").Replace(s)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// IntPtr returns a pointer to the extracted value, or nil when absent.
func IntPtr(val interface{}) *int {
	n, ok := ExtractInt(val)
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

// Int64Ptr is IntPtr for 64-bit values (market values exceed 2^31 euros).
func Int64Ptr(val interface{}) *int64 {
	n, ok := ExtractInt(val)
	if !ok {
		return nil
	}
	return &n
}

// IntOrZero returns the extracted value, or 0 when absent.
func IntOrZero(val interface{}) int {
	n, _ := ExtractInt(val)
	return int(n)
}

// ExtractString renders an identifier that may arrive as a JSON string or
// number ("clubID": 27 vs "clubID": "27").
func ExtractString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
