package discovery

import (
	"net"
	"testing"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bridgeEntry(instance string, port int, text []string, v4 []net.IP, v6 []net.IP) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{
			Instance: instance,
			Service:  ServiceType,
			Domain:   Domain,
		},
		HostName: instance + ".local.",
		Port:     port,
		Text:     text,
		AddrIPv4: v4,
		AddrIPv6: v6,
	}
}

func TestEntryToBridge(t *testing.T) {
	entry := bridgeEntry("ecsim-1", 9400,
		[]string{"device=cros_ec", "board=kukui"},
		[]net.IP{net.ParseIP("192.168.1.50")},
		[]net.IP{net.ParseIP("fe80::1")})

	svc := entryToBridge(entry)
	require.NotNil(t, svc)

	assert.Equal(t, "ecsim-1", svc.InstanceName)
	assert.Equal(t, "ecsim-1.local.", svc.Host)
	assert.Equal(t, uint16(9400), svc.Port)
	assert.Equal(t, "cros_ec", svc.Device)
	assert.Equal(t, "kukui", svc.Board)
	assert.Equal(t, []string{"192.168.1.50", "fe80::1"}, svc.Addresses)
}

func TestEntryToBridgeIgnoresMalformedTXT(t *testing.T) {
	entry := bridgeEntry("ecsim-2", 9400,
		[]string{"device=cros_fp", "noequals", "unknown=x"},
		[]net.IP{net.ParseIP("10.0.0.1")}, nil)

	svc := entryToBridge(entry)
	require.NotNil(t, svc)

	assert.Equal(t, "cros_fp", svc.Device)
	assert.Empty(t, svc.Board)
}

func TestMergeAddresses(t *testing.T) {
	existing := []string{"192.168.1.50"}
	merged := mergeAddresses(existing, []string{"192.168.1.50", "fe80::1"})
	assert.Equal(t, []string{"192.168.1.50", "fe80::1"}, merged)

	// Merging the same set again changes nothing
	merged = mergeAddresses(merged, []string{"fe80::1"})
	assert.Equal(t, []string{"192.168.1.50", "fe80::1"}, merged)
}

func TestRemoveAddresses(t *testing.T) {
	addrs := []string{"192.168.1.50", "fe80::1", "10.0.0.1"}
	entry := bridgeEntry("ecsim-1", 9400, nil,
		[]net.IP{net.ParseIP("192.168.1.50")},
		[]net.IP{net.ParseIP("fe80::1")})

	remaining := removeAddresses(addrs, entry)
	assert.Equal(t, []string{"10.0.0.1"}, remaining)

	// Removing addresses not in the list is a no-op
	remaining = removeAddresses(remaining, entry)
	assert.Equal(t, []string{"10.0.0.1"}, remaining)
}

func TestAdvertiserStopWithoutAdvertise(t *testing.T) {
	adv := NewMDNSAdvertiser(AdvertiserConfig{})
	assert.NoError(t, adv.Stop())
}

func TestBrowserOptionsUnknownInterface(t *testing.T) {
	b := NewMDNSBrowser(BrowserConfig{Interface: "does-not-exist0"})
	assert.Empty(t, b.browserOptions())
}
