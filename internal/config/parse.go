package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elliotchance/pie/v2"
)

// ParseKeywords normalizes trigger keywords given either as a comma separated
// string or as a list. Keywords are trimmed and lowercased; empty entries and
// duplicates are dropped, first occurrence order is kept.
func ParseKeywords(raw any) []string {
	keywords := pie.Map(splitList(raw), func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
	return dedupe(pie.Filter(keywords, func(s string) bool { return s != "" }))
}

// ParseUserIDs parses excluded user ids given either as a comma separated
// string or as a list. Entries that are not non-zero integers are returned in
// invalid rather than failing the whole list.
func ParseUserIDs(raw any) (ids []int64, invalid []string) {
	for _, item := range splitList(raw) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil || id == 0 {
			invalid = append(invalid, item)
			continue
		}
		ids = append(ids, id)
	}
	return dedupe(ids), invalid
}

func splitList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return strings.Split(v, ",")
	case []string:
		return v
	case []any:
		return pie.Map(v, func(item any) string { return fmt.Sprint(item) })
	default:
		return strings.Split(fmt.Sprint(v), ",")
	}
}

func dedupe[T comparable](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
