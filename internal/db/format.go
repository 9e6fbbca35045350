package db

import (
	"fmt"
	"math/big"
	"net"
	"sort"
	"strings"
	"time"

	gocql "github.com/apache/cassandra-gocql-driver/v2"
)

// FormatValue renders a raw result value for display. Top-level strings are
// unquoted; strings nested inside collections are quoted.
func FormatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case string:
		return v
	case []any:
		return formatList(v)
	case map[string]any:
		return formatMap(v)
	case []string:
		if len(v) == 0 {
			return "[]"
		}
		return "[" + strings.Join(v, " ") + "]"
	case gocql.UUID:
		return v.String()
	case []byte:
		return fmt.Sprintf("0x%x", v)
	case time.Time:
		return v.Format(time.RFC3339)
	case time.Duration:
		return v.String()
	case net.IP:
		return v.String()
	case *big.Int:
		return v.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatNested(val any) string {
	if s, ok := val.(string); ok {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return FormatValue(val)
}

func formatList(items []any) string {
	if len(items) == 0 {
		return "[]"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatNested(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatMap(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, formatNested(m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
