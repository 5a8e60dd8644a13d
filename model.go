package main

import "time"

// PinCapability enumerates the ways a configured pin can be sampled.
// Digital pins read a logic level, analog pins read an ADC voltage and touch
// pins read a capacitance proxy compared against a calibrated threshold.
type PinCapability string

const (
    CapDigital PinCapability = "digital"
    CapAnalog  PinCapability = "analog"
    CapTouch   PinCapability = "touch"
)

// PinState classifies a raw reading for display.  ERROR marks a pin whose
// hardware read failed during the sampling pass.
type PinState string

const (
    StateLow    PinState = "LOW"
    StateHigh   PinState = "HIGH"
    StateTouch  PinState = "TOUCH"
    StateAnalog PinState = "ANALOG"
    StateError  PinState = "ERROR"
)

// PinDescriptor describes one monitored input.  The descriptor set is loaded
// once at startup and never changes while the daemon runs.  For analog and
// touch pins on the Pi build, GPIO is the ADS1115 channel number (0-3).
type PinDescriptor struct {
    GPIO       int           `yaml:"gpio" json:"gpio"`             // pin or ADC channel number
    Label      string        `yaml:"label" json:"label"`           // display name, e.g. "D17"
    Capability PinCapability `yaml:"capability" json:"capability"` // digital, analog or touch
}

// PinReading is one sampled value.  Readings are created fresh each sampling
// pass and never mutated afterwards.  Value holds a bool for digital pins, a
// voltage (float64) for analog pins, a raw count (float64) for touch pins and
// nil when the read failed.
type PinReading struct {
    GPIO   int
    Label  string
    State  PinState
    Value  any
    Bucket int // voltage gradient bucket, meaningful for ANALOG only
}

// Snapshot is the complete result of one sampling pass.  Exactly one snapshot
// is current at any time; it is replaced wholesale, never edited in place.
type Snapshot struct {
    Taken    time.Time
    Readings []PinReading
}

// DiagnosticsSnapshot carries point-in-time system metrics for the /info
// route.  Fields that cannot be determined hold their zero sentinel; PSRAM is
// nil (JSON null) on boards without it.
type DiagnosticsSnapshot struct {
    UptimeSeconds   int64   `json:"uptime"`
    HeapFree        uint64  `json:"heap_free"`
    HeapTotal       uint64  `json:"heap_total"`
    FlashSize       uint64  `json:"flash_size"`
    PSRAM           *uint64 `json:"psram"`
    IP              string  `json:"ip"`
    SSID            string  `json:"ssid"`
    RSSI            int     `json:"rssi"`
    MAC             string  `json:"mac"`
    Gateway         string  `json:"gateway"`
    DNS             string  `json:"dns"`
    ChipModel       string  `json:"chip_model"`
    CPUMHz          int     `json:"cpu_mhz"`
    Cores           int     `json:"cores"`
    FirmwareVersion string  `json:"firmware_version"`
}
