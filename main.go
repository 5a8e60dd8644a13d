package main

import (
    "context"
    "log"
)

// Entry point for the GPIO Live telemetry daemon.
func main() {
    cfg, err := LoadConfig(configPath)
    if err != nil {
        log.Fatalf("failed to load configuration: %v", err)
    }
    logger := NewEventLogger(cfg.LogFile)
    hw, err := newPinReader(cfg.Pins)
    if err != nil {
        log.Fatalf("hardware init: %v", err)
    }
    renderer, err := NewRenderer(cfg)
    if err != nil {
        log.Fatalf("renderer init: %v", err)
    }
    store := &SnapshotStore{}
    diag := NewDiagnosticsCollector(cfg)
    srv, err := NewServer(cfg, renderer, store, diag, logger)
    if err != nil {
        log.Fatalf("listen: %v", err)
    }
    defer srv.Close()
    sampler := NewSampler(hw, cfg, logger)
    loop := NewLoop(cfg, sampler, store, srv, renderer)
    log.Printf("Serving pin telemetry on http://0.0.0.0:%d (sampling every %d ms)\n", cfg.ListenPort, cfg.SampleIntervalMs)
    if err := loop.Run(context.Background()); err != nil && err != context.Canceled {
        log.Fatalf("loop exited: %v", err)
    }
}
