// Package discovery advertises and locates EC bridge endpoints on the
// local network via mDNS/DNS-SD.
//
// A bridge daemon registers the "_echost._tcp" service with TXT records
// describing the device it exposes; controllers browse for the same
// service type to find bridges without static configuration.
package discovery
