package checks

import (
	"slices"
	"strconv"
	"strings"
)

// NoteCode is a numbered remark attached to a report row. The codes are
// stable so reports from different runs can be compared.
type NoteCode int

// Note codes.
const (
	NoteAlternate         NoteCode = 1
	NoteLowerCase         NoteCode = 2
	NoteNoSlash           NoteCode = 3
	NoteNotFound          NoteCode = 4
	NoteDescriptionDiff   NoteCode = 5
	NoteNoInterface       NoteCode = 6
	NoteMediaTypeDiff     NoteCode = 7
	NoteObservedNotInRef  NoteCode = 8
	NoteInventoryNotInRef NoteCode = 9
	NoteBandwidthDiff     NoteCode = 10
	NoteDuplexDiff        NoteCode = 11
	NoteMACDiff           NoteCode = 12
	NoteMTUDiff           NoteCode = 13
	NoteTxPowerDiff       NoteCode = 14
	NoteForwardingDiff    NoteCode = 15
	NoteMACAsymmetric     NoteCode = 16
	NoteMissingObserved   NoteCode = 17
	NoteMissingInventory  NoteCode = 18
	NoteUnknownForwarding NoteCode = 19
)

var legend = map[NoteCode]string{
	NoteAlternate:         "found in inventory under an alternate spelling (e.g. 'eth51/1')",
	NoteLowerCase:         "found in inventory under the lowercase name",
	NoteNoSlash:           "found in inventory without the slash and sub-port (e.g. 'eth49')",
	NoteNotFound:          "not found in inventory under any variant",
	NoteDescriptionDiff:   "description differs between device and inventory",
	NoteNoInterface:       "interface not found in inventory",
	NoteMediaTypeDiff:     "device mediaType and inventory type differ",
	NoteObservedNotInRef:  "device mediaType not found in the type reference table",
	NoteInventoryNotInRef: "inventory type not found in the type reference table",
	NoteBandwidthDiff:     "device bandwidth (bps) and inventory speed (Kbps) differ after conversion",
	NoteDuplexDiff:        "device duplex and inventory duplex differ",
	NoteMACDiff:           "device physicalAddress and inventory MAC differ",
	NoteMACAsymmetric:     "inventory MAC is set on only one of the interface pointer and the MAC address entities",
	NoteMTUDiff:           "device mtu and inventory mtu differ",
	NoteTxPowerDiff:       "device txPower and inventory tx_power differ",
	NoteForwardingDiff:    "device forwardingModel and inventory mode differ",
	NoteMissingObserved:   "device did not report a usable value",
	NoteMissingInventory:  "inventory has no value",
	NoteUnknownForwarding: "device forwardingModel is neither routed nor bridged",
}

// Legend returns the description of the code.
func (c NoteCode) Legend() string {
	if s, ok := legend[c]; ok {
		return s
	}
	return "unknown note"
}

// String implements fmt.Stringer.
func (c NoteCode) String() string {
	return strconv.Itoa(int(c))
}

// Notes is an ordered list of note codes.
type Notes []NoteCode

// Normalize sorts and deduplicates the notes.
func (n Notes) Normalize() Notes {
	if len(n) == 0 {
		return nil
	}
	out := slices.Clone(n)
	slices.Sort(out)
	return slices.Compact(out)
}

// String joins the codes with commas, e.g. "7,8".
func (n Notes) String() string {
	parts := make([]string, len(n))
	for i, c := range n {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
