package checks

import (
	"fmt"
	"strings"
)

// Key identifies a field check.
type Key string

// Check keys in registry order.
const (
	IntName         Key = "intname"
	Description     Key = "description"
	MediaType       Key = "mediatype"
	Bandwidth       Key = "bandwidth"
	Duplex          Key = "duplex"
	MAC             Key = "mac"
	MTU             Key = "mtu"
	TxPower         Key = "tx-power"
	ForwardingModel Key = "forwarding-model"
)

var order = []Key{IntName, Description, MediaType, Bandwidth, Duplex, MAC, MTU, TxPower, ForwardingModel}

// Keys returns every check key in registry order.
func Keys() []Key {
	return append([]Key(nil), order...)
}

// ParseKey parses a check key, accepting underscores for dashes.
func ParseKey(s string) (Key, error) {
	k := Key(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, known := range order {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown check %q", s)
}

// Set is an immutable set of enabled checks.
type Set struct {
	keys map[Key]struct{}
}

// NewSet returns a set holding keys.
func NewSet(keys ...Key) Set {
	m := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return Set{keys: m}
}

// All returns the set of every check.
func All() Set {
	return NewSet(order...)
}

// Has reports whether k is enabled.
func (s Set) Has(k Key) bool {
	_, ok := s.keys[k]
	return ok
}

// Len returns the number of enabled checks.
func (s Set) Len() int {
	return len(s.keys)
}

// Keys returns the enabled keys in registry order.
func (s Set) Keys() []Key {
	out := make([]Key, 0, len(s.keys))
	for _, k := range order {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (s Set) String() string {
	keys := s.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

// Resolve builds the enabled set for a run. With all set, or with nothing
// selected on a report run, every check is enabled. hideOKHosts with no
// check selected also enables every check. An apply run with nothing
// selected enables nothing.
func Resolve(selected []Key, all, apply, hideOKHosts bool) Set {
	switch {
	case all:
		return All()
	case len(selected) == 0 && (!apply || hideOKHosts):
		return All()
	}
	return NewSet(selected...)
}
