package discovery

import "context"

// ServiceType is the DNS-SD service type for EC bridge endpoints.
const ServiceType = "_echost._tcp"

// Domain is the mDNS domain.
const Domain = "local."

// TXT record keys published by bridges.
const (
	// TXTKeyDevice is the device class name, e.g. "cros_ec".
	TXTKeyDevice = "device"
	// TXTKeyBoard is a free-form board identifier.
	TXTKeyBoard = "board"
)

// BridgeInfo describes a bridge endpoint to advertise.
type BridgeInfo struct {
	// InstanceName is the DNS-SD instance name. Must be unique on the link.
	InstanceName string

	// Device is the device class name exposed by the bridge.
	Device string

	// Board optionally identifies the board behind the bridge.
	Board string

	// Port the bridge listens on.
	Port int
}

// BridgeService is a bridge endpoint found while browsing.
type BridgeService struct {
	// InstanceName is the DNS-SD instance name.
	InstanceName string

	// Host is the advertised hostname.
	Host string

	// Addresses holds the resolved IPv4/IPv6 addresses as strings.
	Addresses []string

	// Port the bridge listens on.
	Port uint16

	// Device is the device class name from the TXT records.
	Device string

	// Board is the board identifier from the TXT records, if any.
	Board string
}

// Advertiser publishes a bridge endpoint.
type Advertiser interface {
	// Advertise starts advertising the bridge. Replaces any previous
	// advertisement.
	Advertise(ctx context.Context, info *BridgeInfo) error

	// Stop withdraws the advertisement.
	Stop() error
}

// Browser searches for bridge endpoints.
type Browser interface {
	// Browse returns a channel of discovered bridges. The channel closes
	// when ctx is cancelled.
	Browse(ctx context.Context) (<-chan *BridgeService, error)
}
