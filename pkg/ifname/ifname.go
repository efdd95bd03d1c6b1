// Package ifname resolves device interface names against inventory names
// that may use another rendering of the same port, such as "Et1" for
// "Ethernet1" or "ethernet51" for "Ethernet51/1".
package ifname

import (
	"regexp"
	"strings"
)

// Note describes how an observed name was found in the inventory.
type Note int

// Match notes. The numeric values are the report note codes.
const (
	Exact     Note = 0
	Alternate Note = 1
	LowerCase Note = 2
	NoSlash   Note = 3
	NotFound  Note = 4
)

// String implements fmt.Stringer.
func (n Note) String() string {
	switch n {
	case Exact:
		return "exact"
	case Alternate:
		return "alternate"
	case LowerCase:
		return "lowercase"
	case NoSlash:
		return "no-slash"
	case NotFound:
		return "not-found"
	}
	return "unknown"
}

var portPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+(?:/\d+)?)$`)

// Variants returns candidate renderings of name in lookup order, starting
// with the trimmed name itself. Duplicates are removed.
func Variants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	m := portPattern.FindStringSubmatch(name)
	if m == nil {
		return dedupe([]string{name, strings.ToLower(name)})
	}
	prefix, port := m[1], m[2]
	base, _, _ := strings.Cut(port, "/")

	var prefixes []string
	switch lower := strings.ToLower(prefix); {
	case strings.HasPrefix(lower, "ethernet"):
		prefixes = []string{"Ethernet", "ethernet", "Eth", "eth", "Et", "et"}
	case strings.HasPrefix(lower, "eth"):
		prefixes = []string{"Eth", "eth", "Et", "et"}
	case strings.HasPrefix(lower, "et"):
		prefixes = []string{"Et", "et"}
	default:
		prefixes = []string{prefix, lower}
	}

	out := []string{name}
	for _, p := range prefixes {
		out = append(out, p+port, p+base)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Resolve finds name among the keys of byName, trying Variants in order with
// case-sensitive equality. It returns the matched record and how it matched;
// on a miss the zero T and NotFound are returned.
func Resolve[T any](name string, byName map[string]T) (T, string, Note) {
	var zero T
	name = strings.TrimSpace(name)
	if rec, ok := byName[name]; ok {
		return rec, name, Exact
	}

	variants := Variants(name)
	for _, v := range variants[min(1, len(variants)):] {
		rec, ok := byName[v]
		if !ok {
			continue
		}
		switch {
		case v == strings.ToLower(name):
			return rec, v, LowerCase
		case strings.Contains(name, "/") && !strings.Contains(v, "/"):
			return rec, v, NoSlash
		default:
			return rec, v, Alternate
		}
	}
	return zero, "", NotFound
}
