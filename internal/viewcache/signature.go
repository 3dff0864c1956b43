// Package viewcache memoizes the most recent filtered view and its map artifact.
package viewcache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/stats19/collision-explorer/internal/core/model"
)

// SignatureKey is a canonical, order-independent encoding of a FilterSpec.
// Two specs selecting the same records with the same mode always yield the
// same key, no matter the order multiselect options were chosen in.
type SignatureKey string

// Signature canonicalizes spec: each category set sorted, the year pair kept
// ordered, the mode retained, the whole thing collapsed to a readable prefix
// plus an xxhash digest of the full canonical text.
func Signature(spec model.FilterSpec) SignatureKey {
	sev := sortedCopy(severityStrings(spec.Severities))
	weather := sortedCopy(spec.Weathers)
	light := sortedCopy(spec.Lightings)
	road := sortedCopy(spec.RoadTypes)

	head := fmt.Sprintf("mode=%s|years=%d-%d", spec.Mode, spec.YearMin, spec.YearMax)

	// the hashed text length-prefixes every set element; a comma inside a
	// value cannot read as a separator between two values
	canon := head +
		"|sev=" + lengthPrefixed(sev) +
		"|weather=" + lengthPrefixed(weather) +
		"|light=" + lengthPrefixed(light) +
		"|road=" + lengthPrefixed(road)

	readable := sanitizeForKey(head +
		"|sev=" + strings.Join(sev, ",") +
		"|weather=" + strings.Join(weather, ",") +
		"|light=" + strings.Join(light, ",") +
		"|road=" + strings.Join(road, ","))
	const maxReadableLen = 160
	if len(readable) > maxReadableLen {
		readable = readable[:maxReadableLen]
	}
	return SignatureKey(fmt.Sprintf("%s:f=%016x", readable, xxhash.Sum64String(canon)))
}

func severityStrings(sevs []model.Severity) []string {
	out := make([]string, 0, len(sevs))
	for _, s := range sevs {
		out = append(out, string(s))
	}
	return out
}

func sortedCopy(vals []string) []string {
	cp := append([]string(nil), vals...)
	sort.Strings(cp)
	return cp
}

func lengthPrefixed(vals []string) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d:%s", len(v), v)
	}
	return b.String()
}

// keeps keys ASCII and shell/log friendly; runs of replaced runes collapse.
func sanitizeForKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		out := r
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-' || r == '=' || r == '|' || r == ',':
			// keep
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
