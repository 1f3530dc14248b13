// Package interactive provides the interactive command-line interface
// for the echost controller.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/discovery"
	"github.com/echost-protocol/echost-go/pkg/host"
	"github.com/echost-protocol/echost-go/pkg/registry"
)

// ShellConfig provides configuration information to the interactive shell.
// This interface allows the interactive layer to access controller settings
// without depending on the main package's config structure.
type ShellConfig interface {
	// Target returns a human-readable description of the connected EC
	// (remote address or "simulator").
	Target() string
}

// Shell handles interactive mode for echost.
type Shell struct {
	ch     host.Channel
	dev    device.Descriptor
	config ShellConfig
	rl     *readline.Instance
}

// New creates a new interactive shell.
func New(ch host.Channel, dev device.Descriptor, cfg ShellConfig) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ec> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		ch:     ch,
		dev:    dev,
		config: cfg,
		rl:     rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "caps", "c":
			s.cmdCaps()

		case "show":
			s.cmdShow(args)

		case "set":
			s.cmdSet(args)

		case "version", "v":
			s.showCap("version")

		case "flashinfo", "fi":
			s.showCap("flashinfo")

		case "muxinfo", "mux":
			s.showCap("usbpdmuxinfo")

		case "apmode":
			s.showCap("ap_mode_entry")

		case "wakeangle", "wa":
			s.cmdWakeAngle(args)

		case "reboot":
			s.cmdReboot(args)

		case "discover":
			s.cmdDiscover(ctx)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
EC Host Commands:
  Reports:
    version                - Firmware version report
    flashinfo              - Flash geometry report
    muxinfo                - USB-PD mux state per port
    apmode                 - AP-driven Type-C mode entry ("yes"/"no")
    wakeangle [degrees]    - Read or set the keyboard wake angle

  Control:
    reboot <keywords>      - Request a reboot (ro|rw|cancel|cold|
                             disable-jump|hibernate|cold-ap-off [at-shutdown])

  Registry:
    caps                   - List capabilities available on this EC
    show <capability>      - Read a capability by name
    set <capability> <...> - Write a capability by name

  General:
    discover               - Browse mDNS for bridge endpoints
    status                 - Show connection and device status
    help                   - Show this help
    quit                   - Exit`)
}

// cmdCaps lists the capabilities the connected EC exposes.
func (s *Shell) cmdCaps() {
	names := registry.Visible(s.dev)
	if len(names) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No capabilities available")
		return
	}
	for _, name := range names {
		c, err := registry.Lookup(name)
		if err != nil {
			continue
		}
		access := "read-only"
		if c.CanStore() {
			access = "read-write"
		}
		fmt.Fprintf(s.rl.Stdout(), "  %-16s %s\n", name, access)
	}
}

// cmdShow reads a capability by registry name.
func (s *Shell) cmdShow(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: show <capability>")
		return
	}
	s.showCap(args[0])
}

func (s *Shell) showCap(name string) {
	c, err := registry.Lookup(name)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	out, err := c.Show(s.ch, s.dev)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.rl.Stdout(), out)
}

// cmdSet writes a capability by registry name.
func (s *Shell) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: set <capability> <value...>")
		return
	}
	c, err := registry.Lookup(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if err := c.Store(s.ch, s.dev, strings.Join(args[1:], " ")); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "OK")
}

// cmdWakeAngle reads the wake angle, or sets it when a value is given.
func (s *Shell) cmdWakeAngle(args []string) {
	if !s.dev.HasKBWakeAngle {
		fmt.Fprintln(s.rl.Stdout(), "Error: keyboard wake angle not supported by this EC")
		return
	}

	if len(args) == 0 {
		angle, err := registry.ReadKBWakeAngle(s.ch, s.dev)
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "%d\n", angle)
		return
	}

	angle, err := registry.ParseWakeAngle(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid angle: %v\n", err)
		return
	}
	applied, err := registry.SetKBWakeAngle(s.ch, s.dev, angle)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Wake angle set to %d\n", applied)
}

// cmdReboot issues a reboot request.
func (s *Shell) cmdReboot(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.rl.Stdout(), "Usage: reboot %s\n", registry.RebootUsage)
		return
	}
	if err := registry.Reboot(s.ch, s.dev, strings.Join(args, " ")); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Reboot requested")
}

// cmdDiscover browses mDNS for bridge endpoints.
func (s *Shell) cmdDiscover(ctx context.Context) {
	fmt.Fprintln(s.rl.Stdout(), "Discovering bridge endpoints...")

	browseCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	browser := discovery.NewMDNSBrowser(discovery.BrowserConfig{})
	services, err := browser.Browse(browseCtx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Discovery error: %v\n", err)
		return
	}

	count := 0
	for svc := range services {
		count++
		fmt.Fprintf(s.rl.Stdout(), "  %d. %s (device: %s, host: %s:%d)\n",
			count, svc.InstanceName, svc.Device, svc.Host, svc.Port)
		for _, addr := range svc.Addresses {
			fmt.Fprintf(s.rl.Stdout(), "     Address: %s\n", addr)
		}
	}
	if count == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No bridge endpoints found")
	}
}

// cmdStatus shows the connection and device status.
func (s *Shell) cmdStatus() {
	fmt.Fprintf(s.rl.Stdout(), "Target:      %s\n", s.config.Target())
	fmt.Fprintf(s.rl.Stdout(), "Device:      %s\n", s.dev.Name)
	if s.dev.CmdOffset != 0 {
		fmt.Fprintf(s.rl.Stdout(), "Cmd offset:  0x%04x\n", uint16(s.dev.CmdOffset))
	}
	fmt.Fprintf(s.rl.Stdout(), "Wake angle:  %v\n", s.dev.HasKBWakeAngle)
	fmt.Fprintf(s.rl.Stdout(), "Capabilities: %s\n", strings.Join(registry.Visible(s.dev), ", "))
}
