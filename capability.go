package oneclick

import "context"

// DeviceCapabilitySnapshot is a point-in-time read of the device, carrier and
// network signals.
type DeviceCapabilitySnapshot struct {
	HasSIM              bool
	CarrierAPIAvailable bool
	NetworkReachable    bool
	CellularDataEnabled bool

	Operator string // carrier name, if known
	IP       string // current address, if known
}

// Supports returns true if one-click login can be used given the snapshot.
// All signals must be present.
func Supports(s DeviceCapabilitySnapshot) bool {
	return s.HasSIM &&
		s.CarrierAPIAvailable &&
		s.NetworkReachable &&
		s.CellularDataEnabled
}

// Platform is the device layer.
type Platform interface {
	// Snapshot reads the current capability signals.
	Snapshot(ctx context.Context) (DeviceCapabilitySnapshot, error)
	// Locale returns the BCP-47 tag of the system locale, or an empty string.
	Locale() string
}

// StaticPlatform is a Platform that always reports the same snapshot.
type StaticPlatform struct {
	DeviceCapabilitySnapshot
	Lang string
}

func (p StaticPlatform) Snapshot(context.Context) (DeviceCapabilitySnapshot, error) {
	return p.DeviceCapabilitySnapshot, nil
}

func (p StaticPlatform) Locale() string {
	return p.Lang
}

// SupportsOneClickLogin reports whether the one-click login is usable right
// now.  It reads a fresh snapshot on every call.
func (m *Manager) SupportsOneClickLogin(ctx context.Context) bool {
	if m.platform == nil {
		return false
	}
	snap, err := m.platform.Snapshot(ctx)
	if err != nil {
		Log.Debugf("capability snapshot: %s", err)
		return false
	}
	return Supports(snap)
}
