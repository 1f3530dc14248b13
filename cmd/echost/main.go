// Command echost is an interactive controller for ChromeOS EC host
// commands over a TCP bridge or an in-process simulator.
//
// Usage:
//
//	echost [flags] [command ...]
//
// Flags:
//
//	-connect string   Bridge address host:port (default: in-process simulator)
//	-config string    Simulator configuration file (YAML)
//	-device string    Device class name (default "cros_ec")
//	-instance int     EC instance behind the bridge (0 = primary)
//	-capture string   Write a CBOR protocol capture to this file
//	-log-level string Log level: debug, info, warn, error (default "info")
//
// With positional arguments, echost runs a single command and exits;
// without, it starts an interactive shell.
//
// Examples:
//
//	# Interactive shell against an in-process simulated EC
//	echost
//
//	# One-shot version report from a remote bridge
//	echost -connect 192.168.1.40:9400 version
//
//	# Talk to the sensor hub behind the primary EC
//	echost -connect 192.168.1.40:9400 -instance 1 -device cros_sh
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/echost-protocol/echost-go/cmd/echost/interactive"
	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/ecsim"
	"github.com/echost-protocol/echost-go/pkg/host"
	eclog "github.com/echost-protocol/echost-go/pkg/log"
	"github.com/echost-protocol/echost-go/pkg/registry"
	"github.com/echost-protocol/echost-go/pkg/transport"
)

// Config holds the controller configuration.
// It implements interactive.ShellConfig.
type Config struct {
	Connect    string
	ConfigFile string
	DeviceName string
	Instance   int
	Capture    string
	LogLevel   string
}

// Target implements interactive.ShellConfig.
func (c *Config) Target() string {
	if c.Connect == "" {
		return "simulator"
	}
	return c.Connect
}

var config Config

func init() {
	flag.StringVar(&config.Connect, "connect", "", "Bridge address host:port (default: in-process simulator)")
	flag.StringVar(&config.ConfigFile, "config", "", "Simulator configuration file (YAML)")
	flag.StringVar(&config.DeviceName, "device", device.CanonicalName, "Device class name")
	flag.IntVar(&config.Instance, "instance", 0, "EC instance behind the bridge (0 = primary)")
	flag.StringVar(&config.Capture, "capture", "", "Write a CBOR protocol capture to this file")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	setupLogging(config.LogLevel)

	ch, cleanup, err := openChannel()
	if err != nil {
		log.Fatalf("Failed to open channel: %v", err)
	}
	defer cleanup()

	dev, err := host.Probe(ch, config.DeviceName, config.Instance)
	if err != nil {
		log.Fatalf("Failed to probe device: %v", err)
	}
	log.Printf("Probed %s (wake angle: %v, capabilities: %s)",
		dev.Name, dev.HasKBWakeAngle, strings.Join(registry.Visible(dev), ", "))

	// One-shot mode: run a single capability command and exit.
	if flag.NArg() > 0 {
		if err := runOneShot(ch, dev, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shell, err := interactive.New(ch, dev, &config)
	if err != nil {
		log.Fatalf("Failed to create interactive shell: %v", err)
	}
	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(shell.Stdout())
	go shell.Run(ctx, cancel)

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Context was cancelled (e.g., by the quit command)
	}
}

// openChannel connects to the configured bridge, or starts an in-process
// simulator when no bridge address is given. The returned cleanup closes
// whatever was opened.
func openChannel() (host.Channel, func(), error) {
	var capture *eclog.FileLogger
	cleanup := func() {}

	if config.Capture != "" {
		var err error
		capture, err = eclog.NewFileLogger(config.Capture)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create capture file: %w", err)
		}
		log.Printf("Protocol capture to: %s", config.Capture)
		cleanup = func() { _ = capture.Close() }
	}

	if config.Connect == "" {
		cfg := ecsim.DefaultConfig()
		if config.ConfigFile != "" {
			data, err := os.ReadFile(config.ConfigFile)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read config: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
		log.Println("Using in-process EC simulator")
		return ecsim.New(cfg), cleanup, nil
	}

	client, err := transport.Dial("tcp", config.Connect, transport.DefaultConfig())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	client.SetDeviceName(config.DeviceName)
	if capture != nil {
		client.SetLogger(capture)
	}
	log.Printf("Connected to bridge at %s", client.RemoteAddr())

	closeAll := func() {
		_ = client.Close()
		cleanup()
	}
	return client, closeAll, nil
}

// runOneShot executes one capability command given as positional args.
// Read-only capabilities print their report; writable ones are stored
// when arguments follow the name.
func runOneShot(ch host.Channel, dev device.Descriptor, args []string) error {
	name := args[0]

	// Accept the shell's short names too.
	switch name {
	case "muxinfo":
		name = "usbpdmuxinfo"
	case "apmode":
		name = "ap_mode_entry"
	case "wakeangle":
		name = "kb_wake_angle"
	}

	c, err := registry.Lookup(name)
	if err != nil {
		return err
	}

	if len(args) > 1 {
		return c.Store(ch, dev, strings.Join(args[1:], " "))
	}

	out, err := c.Show(ch, dev)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}
