// Package device defines the immutable per-device descriptor that codec
// and registry calls receive. Keeping the descriptor a plain value avoids
// shared mutable device state: feature flags and the command offset are
// read once at discovery and never change for the device's lifetime.
package device

import "github.com/echost-protocol/echost-go/pkg/wire"

// CanonicalName is the device name of a primary (non-passthru) EC.
// Some capabilities are only meaningful on the primary instance and are
// guarded by a comparison against this name.
const CanonicalName = "cros_ec"

// Descriptor identifies one logical EC instance on a shared link.
type Descriptor struct {
	// Name is the device name, e.g. "cros_ec" for the primary instance
	// or "cros_fp" for a fingerprint MCU behind the same link.
	Name string

	// CmdOffset is added to every command code sent to this instance.
	// Instance n of a multiplexed link uses n*wire.PassthruOffset.
	CmdOffset wire.Command

	// Features is the capability bitmap reported by GET_FEATURES.
	Features wire.FeatureSet

	// HasKBWakeAngle is true when the instance supports the keyboard
	// wake-angle motion-sense sub-command.
	HasKBWakeAngle bool
}

// IsCanonical returns true for the primary EC instance.
func (d Descriptor) IsCanonical() bool {
	return d.Name == CanonicalName
}

// HasFeature returns true if the device reports the feature.
func (d Descriptor) HasFeature(f wire.Feature) bool {
	return d.Features.Has(f)
}
