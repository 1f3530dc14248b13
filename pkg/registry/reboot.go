package registry

import (
	"fmt"
	"strings"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/host"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// RebootUsage is the accepted reboot keyword grammar, returned by the
// reboot capability's show surface.
const RebootUsage = "ro|rw|cancel|cold|disable-jump|hibernate|cold-ap-off [at-shutdown]"

// rebootWords maps keywords to either a reboot action or an additive
// flag. An entry with a non-zero flag never sets the action.
var rebootWords = []struct {
	word  string
	cmd   wire.RebootMode
	flags wire.RebootFlags
}{
	{"cancel", wire.RebootCancel, 0},
	{"ro", wire.RebootJumpRO, 0},
	{"rw", wire.RebootJumpRW, 0},
	{"cold-ap-off", wire.RebootColdAPOff, 0},
	{"cold", wire.RebootCold, 0},
	{"disable-jump", wire.RebootDisableJump, 0},
	{"hibernate", wire.RebootHibernate, 0},
	{"at-shutdown", 0, wire.RebootFlagOnAPShutdown},
}

// ParseReboot parses the reboot text surface: whitespace-separated,
// case-insensitive keywords. Exactly one action keyword must be present;
// when several appear the last one wins. Flag keywords accumulate and are
// order-independent. Unrecognized tokens are silently ignored; that
// tolerance is deliberate, not strict validation.
func ParseReboot(input string) (*wire.RebootParams, error) {
	params := &wire.RebootParams{}
	gotCmd := false

	for _, tok := range strings.Fields(input) {
		for _, w := range rebootWords {
			if !strings.EqualFold(tok, w.word) {
				continue
			}
			if w.flags != 0 {
				params.Flags |= w.flags
			} else {
				params.Cmd = w.cmd
				gotCmd = true
			}
			break
		}
	}

	if !gotCmd {
		return nil, fmt.Errorf("%w: no reboot action keyword in %q", host.ErrInvalidArgument, input)
	}
	return params, nil
}

// Reboot parses input and issues the reboot command. A reboot has no
// response payload; both transfer and device failures propagate.
func Reboot(ch host.Channel, dev device.Descriptor, input string) error {
	params, err := ParseReboot(input)
	if err != nil {
		return err
	}
	_, err = host.Execute(ch, dev, wire.CmdRebootEC, 0, params.Encode(), 0)
	return err
}
