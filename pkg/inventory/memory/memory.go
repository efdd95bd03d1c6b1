// Package memory provides an in-process inventory used by tests and dry runs.
// It models MAC addresses as standalone entities the way the inventory does:
// an interface lists the entities assigned to it and points at one primary.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/agentstation/nbcheck/pkg/errors"
	"github.com/agentstation/nbcheck/pkg/inventory"
)

var _ inventory.Client = (*Store)(nil)

// Calls counts the mutating calls a Store has served.
type Calls struct {
	Updates    int
	Finds      int
	Creates    int
	SetPrimary int
}

// Store is a concurrency-safe in-memory inventory.
type Store struct {
	mu         sync.RWMutex
	devices    []inventory.Device
	tags       map[int][]string
	interfaces map[int]inventory.Interface
	macs       map[int]inventory.MACAddress
	primary    map[int]int // interface id -> mac entity id
	failures   map[string]error
	nextMACID  int
	calls      Calls
}

// Option configures a Store.
type Option func(*Store)

// WithDevice adds a device carrying the given tags.
func WithDevice(device inventory.Device, tags ...string) Option {
	return func(s *Store) {
		s.devices = append(s.devices, device)
		s.tags[device.ID] = tags
	}
}

// WithInterfaces adds interface records. PrimaryMAC and MACAddresses on the
// records are turned into MAC entities.
func WithInterfaces(ifaces ...inventory.Interface) Option {
	return func(s *Store) {
		for _, iface := range ifaces {
			s.addInterface(iface)
		}
	}
}

// WithMACAddress adds a MAC entity, assigned or not.
func WithMACAddress(mac inventory.MACAddress) Option {
	return func(s *Store) {
		s.putMAC(mac)
	}
}

// WithFailure makes every UpdateInterface call touching attr fail with err.
// Use inventory.AttrPrimaryMAC to fail SetPrimaryMAC.
func WithFailure(attr string, err error) Option {
	return func(s *Store) {
		s.failures[attr] = err
	}
}

// New creates a Store.
func New(opts ...Option) *Store {
	s := &Store{
		tags:       make(map[int][]string),
		interfaces: make(map[int]inventory.Interface),
		macs:       make(map[int]inventory.MACAddress),
		primary:    make(map[int]int),
		failures:   make(map[string]error),
		nextMACID:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) addInterface(iface inventory.Interface) {
	for _, ref := range iface.MACAddresses {
		s.putMAC(inventory.MACAddress{ID: ref.ID, MACAddress: ref.MACAddress, AssignedInterfaceID: iface.ID})
	}
	if iface.PrimaryMAC != nil {
		if _, ok := s.macs[iface.PrimaryMAC.ID]; !ok {
			// a pointer to an entity that is not assigned here
			s.putMAC(inventory.MACAddress{ID: iface.PrimaryMAC.ID, MACAddress: iface.PrimaryMAC.MACAddress})
		}
		s.primary[iface.ID] = iface.PrimaryMAC.ID
	}
	iface.PrimaryMAC = nil
	iface.MACAddresses = nil
	s.interfaces[iface.ID] = iface
}

func (s *Store) putMAC(mac inventory.MACAddress) {
	if mac.ID == 0 {
		mac.ID = s.nextMACID
	}
	if mac.ID >= s.nextMACID {
		s.nextMACID = mac.ID + 1
	}
	s.macs[mac.ID] = mac
}

// Devices implements inventory.Querier.
func (s *Store) Devices(_ context.Context, tag string) ([]inventory.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []inventory.Device
	for _, d := range s.devices {
		if tag == "" || slices.Contains(s.tags[d.ID], tag) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Interfaces implements inventory.Querier.
func (s *Store) Interfaces(_ context.Context, deviceID int) ([]inventory.Interface, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []inventory.Interface
	for _, iface := range s.interfaces {
		if iface.DeviceID == deviceID {
			out = append(out, s.view(iface))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Interface returns the current state of one interface.
func (s *Store) Interface(id int) (inventory.Interface, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	iface, ok := s.interfaces[id]
	if !ok {
		return inventory.Interface{}, false
	}
	return s.view(iface), true
}

// view fills the MAC relations of a stored interface. Caller holds the lock.
func (s *Store) view(iface inventory.Interface) inventory.Interface {
	for _, mac := range s.sortedMACs() {
		if mac.AssignedInterfaceID == iface.ID {
			iface.MACAddresses = append(iface.MACAddresses, inventory.MACRef{ID: mac.ID, MACAddress: mac.MACAddress})
		}
	}
	if id, ok := s.primary[iface.ID]; ok {
		mac := s.macs[id]
		iface.PrimaryMAC = &inventory.MACRef{ID: mac.ID, MACAddress: mac.MACAddress}
	}
	return iface
}

func (s *Store) sortedMACs() []inventory.MACAddress {
	out := make([]inventory.MACAddress, 0, len(s.macs))
	for _, m := range s.macs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MACAddresses returns every MAC entity, ordered by id.
func (s *Store) MACAddresses() []inventory.MACAddress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedMACs()
}

// Calls returns the mutating call counters.
func (s *Store) Calls() Calls {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

// UpdateInterface implements inventory.Updater.
func (s *Store) UpdateInterface(_ context.Context, id int, attrs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Updates++

	iface, ok := s.interfaces[id]
	if !ok {
		return errors.NewNotFoundError("interface", fmt.Sprint(id))
	}
	for attr := range attrs {
		if err := s.failures[attr]; err != nil {
			return err
		}
	}

	for attr, value := range attrs {
		if err := setAttr(&iface, attr, value); err != nil {
			return err
		}
	}
	s.interfaces[id] = iface
	return nil
}

// FindMACAddresses implements inventory.Updater. Matching is case-insensitive.
func (s *Store) FindMACAddresses(_ context.Context, mac string) ([]inventory.MACAddress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Finds++

	var out []inventory.MACAddress
	for _, m := range s.sortedMACs() {
		if strings.EqualFold(m.MACAddress, mac) {
			out = append(out, m)
		}
	}
	return out, nil
}

// CreateMACAddress implements inventory.Updater.
func (s *Store) CreateMACAddress(_ context.Context, mac string, interfaceID int) (inventory.MACAddress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Creates++

	if _, ok := s.interfaces[interfaceID]; !ok {
		return inventory.MACAddress{}, errors.NewNotFoundError("interface", fmt.Sprint(interfaceID))
	}
	created := inventory.MACAddress{ID: s.nextMACID, MACAddress: mac, AssignedInterfaceID: interfaceID}
	s.putMAC(created)
	return created, nil
}

// SetPrimaryMAC implements inventory.Updater. Like the inventory it refuses
// a primary MAC that is assigned to another interface.
func (s *Store) SetPrimaryMAC(_ context.Context, interfaceID, macID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.SetPrimary++

	if err := s.failures[inventory.AttrPrimaryMAC]; err != nil {
		return err
	}
	if _, ok := s.interfaces[interfaceID]; !ok {
		return errors.NewNotFoundError("interface", fmt.Sprint(interfaceID))
	}
	mac, ok := s.macs[macID]
	if !ok {
		return errors.NewNotFoundError("mac address", fmt.Sprint(macID))
	}
	switch mac.AssignedInterfaceID {
	case 0:
		mac.AssignedInterfaceID = interfaceID
		s.macs[macID] = mac
	case interfaceID:
	default:
		return errors.NewValidationError(inventory.AttrPrimaryMAC, macID,
			fmt.Sprintf("mac address %s is assigned to interface %d", mac.MACAddress, mac.AssignedInterfaceID))
	}
	s.primary[interfaceID] = macID
	return nil
}

func setAttr(iface *inventory.Interface, attr string, value any) error {
	switch attr {
	case inventory.AttrName:
		return assignString(&iface.Name, attr, value)
	case inventory.AttrDescription:
		return assignString(&iface.Description, attr, value)
	case inventory.AttrType:
		return assignString(&iface.Type, attr, value)
	case inventory.AttrSpeed:
		return assignInt(&iface.Speed, attr, value)
	case inventory.AttrMTU:
		return assignInt(&iface.MTU, attr, value)
	case inventory.AttrTxPower:
		return assignInt(&iface.TxPower, attr, value)
	case inventory.AttrDuplex:
		return assignOptString(&iface.Duplex, attr, value)
	case inventory.AttrMode:
		return assignOptString(&iface.Mode, attr, value)
	}
	return errors.NewValidationError(attr, value, "unknown interface attribute")
}

func assignString(dst *string, attr string, value any) error {
	s, ok := value.(string)
	if !ok {
		return errors.NewValidationError(attr, value, "expected a string")
	}
	*dst = s
	return nil
}

func assignOptString(dst **string, attr string, value any) error {
	switch v := value.(type) {
	case nil:
		*dst = nil
	case string:
		*dst = &v
	case *string:
		*dst = v
	default:
		return errors.NewValidationError(attr, value, "expected a string or null")
	}
	return nil
}

func assignInt(dst **int64, attr string, value any) error {
	var n int64
	switch v := value.(type) {
	case nil:
		*dst = nil
		return nil
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		n = int64(v)
	default:
		return errors.NewValidationError(attr, value, "expected an integer")
	}
	*dst = &n
	return nil
}
