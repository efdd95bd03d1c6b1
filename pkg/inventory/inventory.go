// Package inventory defines the inventory-of-record boundary: the records the
// reconciliation engine reads and the capabilities it needs to write back.
// The engine never assumes a transport; internal/netbox implements these
// interfaces over REST and inventory/memory implements them in process.
package inventory

import (
	"context"
)

// Attribute names accepted by Updater.UpdateInterface.
const (
	AttrName        = "name"
	AttrDescription = "description"
	AttrType        = "type"
	AttrSpeed       = "speed"
	AttrDuplex      = "duplex"
	AttrMTU         = "mtu"
	AttrTxPower     = "tx_power"
	AttrMode        = "mode"
	AttrPrimaryMAC  = "primary_mac_address"
)

// Device is an inventory device selected by tag.
type Device struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`
}

// MACRef is a reference from an interface to a MAC address entity.
type MACRef struct {
	ID         int    `json:"id" yaml:"id"`
	MACAddress string `json:"mac_address" yaml:"mac_address"`
}

// Interface is an inventory interface record. Nullable inventory fields are
// pointers; a nil pointer means the field is empty in the inventory.
type Interface struct {
	ID           int      `json:"id" yaml:"id"`
	DeviceID     int      `json:"device_id" yaml:"device_id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Type         string   `json:"type" yaml:"type"`
	Speed        *int64   `json:"speed" yaml:"speed"` // Kbps
	Duplex       *string  `json:"duplex" yaml:"duplex"`
	MTU          *int64   `json:"mtu" yaml:"mtu"`
	TxPower      *int64   `json:"tx_power" yaml:"tx_power"`
	Mode         *string  `json:"mode" yaml:"mode"`
	MACAddress   string   `json:"mac_address,omitempty" yaml:"mac_address,omitempty"` // legacy inline value
	PrimaryMAC   *MACRef  `json:"primary_mac_address" yaml:"primary_mac_address"`
	MACAddresses []MACRef `json:"mac_addresses,omitempty" yaml:"mac_addresses,omitempty"`
}

// MAC returns the MAC shown for the interface: the primary entity, then the
// legacy inline value, then the first assigned entity.
func (i *Interface) MAC() string {
	switch {
	case i.PrimaryMAC != nil && i.PrimaryMAC.MACAddress != "":
		return i.PrimaryMAC.MACAddress
	case i.MACAddress != "":
		return i.MACAddress
	case len(i.MACAddresses) > 0:
		return i.MACAddresses[0].MACAddress
	}
	return ""
}

// MACAsymmetric reports whether the interface has a MAC in exactly one of
// its two representations: the interface pointer (primary or legacy inline)
// and the list of assigned MAC entities.
func (i *Interface) MACAsymmetric() bool {
	pointer := i.PrimaryMAC != nil || i.MACAddress != ""
	entities := len(i.MACAddresses) > 0
	return pointer != entities
}

// MACAddress is a standalone MAC address entity.
type MACAddress struct {
	ID                  int    `json:"id" yaml:"id"`
	MACAddress          string `json:"mac_address" yaml:"mac_address"`
	AssignedInterfaceID int    `json:"assigned_object_id,omitempty" yaml:"assigned_object_id,omitempty"`
}

// Querier reads devices and interfaces.
type Querier interface {
	// Devices lists devices carrying tag, with their platform name resolved.
	Devices(ctx context.Context, tag string) ([]Device, error)

	// Interfaces lists every interface of a device.
	Interfaces(ctx context.Context, deviceID int) ([]Interface, error)
}

// Updater writes interface fields and MAC entities.
type Updater interface {
	// UpdateInterface patches the given attributes. A nil value writes null.
	UpdateInterface(ctx context.Context, id int, attrs map[string]any) error

	// FindMACAddresses returns the entities whose value equals mac.
	FindMACAddresses(ctx context.Context, mac string) ([]MACAddress, error)

	// CreateMACAddress creates an entity assigned to the interface.
	CreateMACAddress(ctx context.Context, mac string, interfaceID int) (MACAddress, error)

	// SetPrimaryMAC points the interface at an existing MAC entity.
	SetPrimaryMAC(ctx context.Context, interfaceID, macID int) error
}

// Client is the complete inventory capability set.
type Client interface {
	Querier
	Updater
}
