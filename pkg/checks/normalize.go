package checks

import (
	"math"
	"net"
	"strings"

	"github.com/agentstation/nbcheck/pkg/errors"
)

// Forwarding models reported by devices.
const (
	Routed  = "routed"
	Bridged = "bridged"
)

// ModeTagged is the inventory mode of a bridged port.
const ModeTagged = "tagged"

// BpsToKbps converts bits per second to kilobits per second, truncating.
func BpsToKbps(bps int64) int64 {
	return bps / 1000
}

// NormalizeDuplex folds a duplex string to "full", "half" or "auto".
// Other non-empty values are returned trimmed and lowercased.
func NormalizeDuplex(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "full"):
		return "full"
	case strings.Contains(s, "half"):
		return "half"
	case strings.Contains(s, "auto"):
		return "auto"
	}
	return s
}

// CanonicalMAC renders a hardware address as uppercase colon-separated hex.
// Colon, dash and dotted forms are accepted.
func CanonicalMAC(s string) (string, error) {
	hw, err := net.ParseMAC(strings.TrimSpace(s))
	if err != nil {
		return "", errors.NewValidationError(string(MAC), s, "not a hardware address")
	}
	return strings.ToUpper(hw.String()), nil
}

// ForwardingMode maps a device forwarding model to the inventory mode:
// routed maps to null and bridged to tagged. Any other value is an error.
func ForwardingMode(model string) (*string, error) {
	switch strings.ToLower(strings.TrimSpace(model)) {
	case Routed:
		return nil, nil
	case Bridged:
		mode := ModeTagged
		return &mode, nil
	}
	return nil, errors.NewValidationError(string(ForwardingModel), model, "expected routed or bridged")
}

// RoundTxPower rounds a dBm reading half away from zero.
func RoundTxPower(dbm float64) int64 {
	return int64(math.Round(dbm))
}
