package wire

import (
	"encoding/binary"
	"fmt"
)

// Feature is one optional EC capability, identified by its bit index in
// the device feature bitmap.
type Feature uint8

const (
	// FeatureMotionSense indicates the EC manages motion sensors.
	FeatureMotionSense Feature = 6

	// FeatureTypeCRequireAPModeEntry indicates USB Type-C alternate-mode
	// entry must be driven by the AP rather than the EC.
	FeatureTypeCRequireAPModeEntry Feature = 42
)

// FeatureSet is the device capability bitmap, read once at discovery and
// immutable for the device's lifetime.
type FeatureSet uint64

// NewFeatureSet builds a feature set from individual feature codes.
func NewFeatureSet(features ...Feature) FeatureSet {
	var s FeatureSet
	for _, f := range features {
		s |= 1 << f
	}
	return s
}

// Has returns true if the feature is present in the set.
func (s FeatureSet) Has(f Feature) bool {
	return s&(1<<f) != 0
}

// FeaturesResponseSize is the encoded size of FeaturesResponse.
const FeaturesResponseSize = 8

// FeaturesResponse is the GET_FEATURES response payload: the capability
// bitmap split across two 32-bit words.
type FeaturesResponse struct {
	Flags [2]uint32
}

// Set returns the response as a single 64-bit feature set.
func (r *FeaturesResponse) Set() FeatureSet {
	return FeatureSet(r.Flags[0]) | FeatureSet(r.Flags[1])<<32
}

// NewFeaturesResponse splits a feature set into the wire representation.
func NewFeaturesResponse(s FeatureSet) *FeaturesResponse {
	return &FeaturesResponse{
		Flags: [2]uint32{uint32(s), uint32(s >> 32)},
	}
}

// Encode returns the fixed-layout encoding of the response.
func (r *FeaturesResponse) Encode() []byte {
	buf := make([]byte, FeaturesResponseSize)
	binary.LittleEndian.PutUint32(buf[0:], r.Flags[0])
	binary.LittleEndian.PutUint32(buf[4:], r.Flags[1])
	return buf
}

// DecodeFeaturesResponse parses a GET_FEATURES response payload.
func DecodeFeaturesResponse(data []byte) (*FeaturesResponse, error) {
	if len(data) < FeaturesResponseSize {
		return nil, fmt.Errorf("features response: %w: %d < %d", ErrPacketTruncated, len(data), FeaturesResponseSize)
	}
	return &FeaturesResponse{
		Flags: [2]uint32{
			binary.LittleEndian.Uint32(data[0:]),
			binary.LittleEndian.Uint32(data[4:]),
		},
	}, nil
}
