package netbox

import (
	"github.com/agentstation/nbcheck/pkg/inventory"
)

// page is one page of a NetBox list response.
type page[T any] struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []T    `json:"results"`
}

// choice is a NetBox choice field such as type, duplex or mode.
type choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type nestedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type nestedMAC struct {
	ID         int    `json:"id"`
	MACAddress string `json:"mac_address"`
}

type device struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Platform *nestedRef `json:"platform"`
}

type iface struct {
	ID           int         `json:"id"`
	Device       nestedRef   `json:"device"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Type         *choice     `json:"type"`
	Speed        *int64      `json:"speed"`
	Duplex       *choice     `json:"duplex"`
	MTU          *int64      `json:"mtu"`
	TxPower      *int64      `json:"tx_power"`
	Mode         *choice     `json:"mode"`
	MACAddress   *string     `json:"mac_address"`
	PrimaryMAC   *nestedMAC  `json:"primary_mac_address"`
	MACAddresses []nestedMAC `json:"mac_addresses"`
}

type macAddress struct {
	ID                 int     `json:"id"`
	MACAddress         string  `json:"mac_address"`
	AssignedObjectType *string `json:"assigned_object_type"`
	AssignedObjectID   *int    `json:"assigned_object_id"`
}

const interfaceObjectType = "dcim.interface"

func (d device) toInventory(platform string) inventory.Device {
	return inventory.Device{ID: d.ID, Name: d.Name, Platform: platform}
}

func (i iface) toInventory() inventory.Interface {
	out := inventory.Interface{
		ID:          i.ID,
		DeviceID:    i.Device.ID,
		Name:        i.Name,
		Description: i.Description,
		Speed:       i.Speed,
		MTU:         i.MTU,
		TxPower:     i.TxPower,
		Duplex:      choiceValue(i.Duplex),
		Mode:        choiceValue(i.Mode),
	}
	if i.Type != nil {
		out.Type = i.Type.Value
	}
	if i.MACAddress != nil {
		out.MACAddress = *i.MACAddress
	}
	if i.PrimaryMAC != nil {
		out.PrimaryMAC = &inventory.MACRef{ID: i.PrimaryMAC.ID, MACAddress: i.PrimaryMAC.MACAddress}
	}
	for _, m := range i.MACAddresses {
		out.MACAddresses = append(out.MACAddresses, inventory.MACRef{ID: m.ID, MACAddress: m.MACAddress})
	}
	return out
}

func (m macAddress) toInventory() inventory.MACAddress {
	out := inventory.MACAddress{ID: m.ID, MACAddress: m.MACAddress}
	if m.AssignedObjectID != nil && m.AssignedObjectType != nil && *m.AssignedObjectType == interfaceObjectType {
		out.AssignedInterfaceID = *m.AssignedObjectID
	}
	return out
}

func choiceValue(c *choice) *string {
	if c == nil || c.Value == "" {
		return nil
	}
	v := c.Value
	return &v
}
