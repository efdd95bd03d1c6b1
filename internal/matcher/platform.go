package matcher

import (
	"fmt"
	"strings"

	"github.com/agentstation/nbcheck/pkg/errors"
)

// Platform is a device platform family selectable with --platform.
type Platform string

const (
	// PlatformArista selects Arista EOS devices.
	PlatformArista Platform = "arista"
	// PlatformJuniper selects Juniper Junos devices.
	PlatformJuniper Platform = "juniper"
	// PlatformAll selects every device.
	PlatformAll Platform = "all"
)

// Platform names in the inventory are free text, so families are detected
// by substring.
var platformPatterns = map[Platform]Matcher{
	PlatformArista:  MustNew(Regex, `arista|eos`, &Options{CaseInsensitive: true}),
	PlatformJuniper: MustNew(Regex, `junos|juniper`, &Options{CaseInsensitive: true}),
}

// Platforms returns the accepted --platform values.
func Platforms() []Platform {
	return []Platform{PlatformArista, PlatformJuniper, PlatformAll}
}

// ParsePlatform validates a --platform value.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlatformArista, PlatformJuniper, PlatformAll:
		return p, nil
	}
	return "", errors.NewValidationError("platform", s,
		fmt.Sprintf("must be one of: %s, %s, %s", PlatformArista, PlatformJuniper, PlatformAll))
}

// Matches reports whether an inventory platform name belongs to p.
func (p Platform) Matches(platformName string) bool {
	if p == PlatformAll {
		return true
	}
	m, ok := platformPatterns[p]
	return ok && m.Match(platformName)
}
