// Package observed loads the interface state reported by devices.
//
// The input document is produced by an external collector and has the shape
//
//	{"devices": {"<host>": [ {<interface>}, ... ], ...}}
//
// It may be JSON or, when the file extension says so, YAML. A host whose
// payload is not a list is not an error; it is recorded in Document.Skipped.
package observed

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/nbcheck/pkg/constants"
	"github.com/agentstation/nbcheck/pkg/errors"
)

// Interface is one interface as reported by a device.
type Interface struct {
	Host                    string      `json:"-" yaml:"-"`
	Name                    string      `json:"name" yaml:"name"`
	Description             *string     `json:"description,omitempty" yaml:"description,omitempty"`
	MediaType               string      `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	Bandwidth               Number      `json:"bandwidth" yaml:"bandwidth"` // bits per second
	Duplex                  string      `json:"duplex,omitempty" yaml:"duplex,omitempty"`
	PhysicalAddress         string      `json:"physicalAddress,omitempty" yaml:"physicalAddress,omitempty"`
	MTU                     Number      `json:"mtu" yaml:"mtu"`
	TxPower                 Number      `json:"txPower" yaml:"txPower"` // dBm
	ForwardingModel         string      `json:"forwardingModel,omitempty" yaml:"forwardingModel,omitempty"`
	SwitchportConfiguration *Switchport `json:"switchportConfiguration,omitempty" yaml:"switchportConfiguration,omitempty"`
}

// Switchport is the optional switchport block some collectors attach.
type Switchport struct {
	Config []string `json:"config,omitempty" yaml:"config,omitempty"`
	Source string   `json:"source,omitempty" yaml:"source,omitempty"`
}

// Document is a loaded input file.
type Document struct {
	Path    string
	Devices map[string][]Interface
	// Skipped lists hosts whose payload was not a list of interfaces.
	Skipped []string
}

// Load reads and parses the input file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, errors.NewInputError(path, "cannot read file", err)
	}

	if isYAML(path) {
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.NewInputError(path, "invalid YAML", errors.WrapParse("yaml", path, err))
		}
	}

	return Parse(path, data)
}

// Parse decodes a JSON input document. path is used for error context only.
func Parse(path string, data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.NewInputError(path, "invalid JSON", errors.WrapParse("json", path, err))
	}

	rawDevices, ok := top[constants.InputDevicesKey]
	if !ok {
		return nil, errors.NewInputError(path, "missing key '"+constants.InputDevicesKey+"'", nil)
	}

	var hosts map[string]json.RawMessage
	if err := json.Unmarshal(rawDevices, &hosts); err != nil {
		return nil, errors.NewInputError(path, "'"+constants.InputDevicesKey+"' is not an object", err)
	}

	doc := &Document{Path: path, Devices: make(map[string][]Interface, len(hosts))}
	for host, payload := range hosts {
		ifaces, ok := decodeInterfaces(host, payload)
		if !ok {
			doc.Skipped = append(doc.Skipped, host)
			continue
		}
		doc.Devices[host] = ifaces
	}
	sort.Strings(doc.Skipped)

	return doc, nil
}

// decodeInterfaces decodes a host payload. Entries that are not objects or
// carry no name are dropped; the bool is false when the payload is not a list.
func decodeInterfaces(host string, payload json.RawMessage) ([]Interface, bool) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '[' {
		return nil, false
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false
	}

	ifaces := make([]Interface, 0, len(entries))
	for _, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			continue
		}
		var iface Interface
		if err := json.Unmarshal(entry, &iface); err != nil {
			continue
		}
		iface.Name = strings.TrimSpace(iface.Name)
		if iface.Name == "" {
			continue
		}
		iface.Host = host
		ifaces = append(ifaces, iface)
	}
	return ifaces, true
}

// Hosts returns the host names that carry an interface list, sorted.
func (d *Document) Hosts() []string {
	hosts := make([]string, 0, len(d.Devices))
	for h := range d.Devices {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// AllHosts returns every host in the file, including skipped ones, sorted.
func (d *Document) AllHosts() []string {
	hosts := append(d.Hosts(), d.Skipped...)
	sort.Strings(hosts)
	return hosts
}

// Restrict returns a copy of the document limited to the given hosts.
func (d *Document) Restrict(hosts []string) *Document {
	keep := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		keep[h] = true
	}
	out := &Document{Path: d.Path, Devices: make(map[string][]Interface)}
	for h, ifaces := range d.Devices {
		if keep[h] {
			out.Devices[h] = ifaces
		}
	}
	for _, h := range d.Skipped {
		if keep[h] {
			out.Skipped = append(out.Skipped, h)
		}
	}
	return out
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
