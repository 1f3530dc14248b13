// Command ecsimd serves a simulated ChromeOS EC over TCP so controllers
// can exercise the host-command protocol without hardware.
//
// Usage:
//
//	ecsimd [flags]
//
// Flags:
//
//	-config string    Simulator configuration file (YAML)
//	-listen string    Listen address (default ":9400")
//	-name string      mDNS instance name (default "ecsim")
//	-no-mdns          Disable mDNS advertising
//	-capture string   Write a CBOR protocol capture to this file
//	-log-level string Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Serve the default simulated EC and advertise it on the LAN
//	ecsimd
//
//	# Serve a board profile from a config file without mDNS
//	ecsimd -config boards/kukui.yaml -no-mdns -listen 127.0.0.1:9400
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/discovery"
	"github.com/echost-protocol/echost-go/pkg/ecsim"
	eclog "github.com/echost-protocol/echost-go/pkg/log"
	"github.com/echost-protocol/echost-go/pkg/transport"
)

// Config holds the daemon configuration.
type Config struct {
	ConfigFile string
	Listen     string
	Name       string
	NoMDNS     bool
	Capture    string
	LogLevel   string
}

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Simulator configuration file (YAML)")
	flag.StringVar(&config.Listen, "listen", ":9400", "Listen address")
	flag.StringVar(&config.Name, "name", "ecsim", "mDNS instance name")
	flag.BoolVar(&config.NoMDNS, "no-mdns", false, "Disable mDNS advertising")
	flag.StringVar(&config.Capture, "capture", "", "Write a CBOR protocol capture to this file")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	setupLogging(config.LogLevel)

	log.Println("EC Host Command Simulator")
	log.Println("=========================")

	simCfg, err := loadSimConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("Board: %s rev %d (%s/%s)", simCfg.ChipName, simCfg.BoardVersion,
		simCfg.ChipVendor, simCfg.ChipRevision)

	sim := ecsim.New(simCfg)
	server := transport.NewServer(sim)

	if logger, cleanup, err := buildLogger(); err != nil {
		log.Fatalf("Failed to set up protocol logging: %v", err)
	} else if logger != nil {
		server.SetLogger(logger)
		defer cleanup()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Start(ctx, "tcp", config.Listen); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Listening on %s", server.Addr())

	if !config.NoMDNS {
		advertiser := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{})
		info := &discovery.BridgeInfo{
			InstanceName: config.Name,
			Device:       device.CanonicalName,
			Board:        simCfg.ChipName,
			Port:         listenPort(server.Addr()),
		}
		if err := advertiser.Advertise(ctx, info); err != nil {
			log.Printf("Warning: mDNS advertising failed: %v", err)
		} else {
			log.Printf("Advertising %s.%s%s", config.Name, discovery.ServiceType, discovery.Domain)
			defer func() { _ = advertiser.Stop() }()
		}
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("Received signal: %v", sig)
	log.Println("Shutting down...")

	if err := server.Stop(); err != nil {
		log.Printf("Error stopping server: %v", err)
	}

	log.Println("Goodbye!")
}

func loadSimConfig() (ecsim.Config, error) {
	cfg := ecsim.DefaultConfig()
	if config.ConfigFile == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(config.ConfigFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// buildLogger assembles the protocol logger: a CBOR capture file when
// requested, plus slog frame tracing at debug level.
func buildLogger() (eclog.Logger, func(), error) {
	var loggers []eclog.Logger
	cleanup := func() {}

	if config.Capture != "" {
		capture, err := eclog.NewFileLogger(config.Capture)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Protocol capture to: %s", config.Capture)
		loggers = append(loggers, capture)
		cleanup = func() { _ = capture.Close() }
	}

	if config.LogLevel == "debug" {
		loggers = append(loggers, eclog.NewSlogAdapter(slog.Default()))
	}

	switch len(loggers) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return loggers[0], cleanup, nil
	default:
		return eclog.NewMultiLogger(loggers...), cleanup, nil
	}
}

// listenPort extracts the bound TCP port for mDNS advertising.
func listenPort(addr net.Addr) int {
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
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
