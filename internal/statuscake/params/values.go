package params

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Values maps field names to caller supplied values for one resource instance.
type Values map[string]interface{}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Keys returns the field names in lexical order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Form encodes the values as a urlencoded form. Nil values are skipped,
// booleans are sent as 1/0 and lists as comma separated strings.
func (v Values) Form() url.Values {
	form := url.Values{}
	for _, k := range v.Keys() {
		s, ok := formatValue(v[k])
		if !ok {
			continue
		}
		form.Set(k, s)
	}
	return form
}

func formatValue(value interface{}) (string, bool) {
	switch val := value.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		if val {
			return "1", true
		}
		return "0", true
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case []string:
		return strings.Join(val, ","), true
	case []int:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ","), true
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := formatValue(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	case fmt.Stringer:
		return val.String(), true
	}
	return fmt.Sprint(value), true
}
