package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"NavTrace/internal/config"
	"NavTrace/internal/dump"
	"NavTrace/internal/model"
	"NavTrace/internal/probe"
	"NavTrace/internal/telemetry"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	log.Println("Starting nt-probe...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	activeMode, err := model.ParseCommMode(cfg.Dump.Mode)
	if err != nil {
		log.Fatalf("Invalid dump mode: %v", err)
	}
	if activeMode == model.CommModeDisabled {
		log.Println("Dump mode is disabled; nt-probe will capture but buffer nothing.")
	}

	telemetry.Serve(cfg.Telemetry.MetricsAddr)

	pub, err := probe.NewPublisher(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	acc, err := dump.New(cfg.Dump.Capacity, cfg.Dump.Instance, pub)
	if err != nil {
		log.Fatalf("Failed to create accumulator: %v", err)
	}

	snapshotLen := cfg.Probe.SnapshotLen
	if snapshotLen <= 0 {
		snapshotLen = 1600
	}
	handle, err := pcap.OpenLive(cfg.Probe.Interface, snapshotLen, cfg.Probe.Promiscuous, pcap.BlockForever)
	if err != nil {
		log.Fatalf("Error opening device %s: %v", cfg.Probe.Interface, err)
	}
	defer handle.Close()

	log.Printf("Capture started on %s, device port %d, mode %s.", cfg.Probe.Interface, cfg.Probe.DevicePort, activeMode)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
		framesBuffered := 0
		for packet := range packetSource.Packets() {
			payload, toDevice, err := probe.ExtractPayload(packet, cfg.Probe.DevicePort)
			if err != nil {
				continue // Not receiver traffic.
			}
			mode := probe.ClassifyMode(payload)
			if err := acc.Append(payload, mode, activeMode, toDevice); err != nil {
				log.Fatalf("Accumulator state corrupted, aborting: %v", err)
			}
			framesBuffered++
			if framesBuffered%1000 == 0 {
				log.Printf("%d payloads buffered...", framesBuffered)
			}
		}
	}()

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}
