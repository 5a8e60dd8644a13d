package main

import (
    "fmt"
    "os"

    "gopkg.in/yaml.v3"
)

// configPath is the default filename for persisted configuration.
const configPath = "gpiolive.yaml"

// firmwareVersion is reported on /info and in the dashboard footer.
const firmwareVersion = "1.2.0"

// Config is the top-level structure read from gpiolive.yaml.  The pin list is
// fixed for the lifetime of the process; there is no hot-add or hot-remove.
type Config struct {
    ListenPort       int             `yaml:"listen_port"`        // HTTP port (default 8081)
    SampleIntervalMs int             `yaml:"sample_interval_ms"` // sampling cadence
    ConnTimeoutMs    int             `yaml:"conn_timeout_ms"`    // per-connection inactivity timeout
    MaxConnections   int             `yaml:"max_connections"`    // open connections beyond this get 503
    VRef             float64         `yaml:"vref"`               // ADC reference voltage
    TouchThreshold   uint16          `yaml:"touch_threshold"`    // raw count at which a touch pin reads TOUCH
    WiFiSSID         string          `yaml:"wifi_ssid"`          // reported on /info; association is external
    LogFile          string          `yaml:"log_file"`           // event log path, empty for stderr
    Pins             []PinDescriptor `yaml:"pins"`
}

// defaultConfig matches a stock board: a handful of digital headers, two ADC
// channels and one touch channel, sampled twice a second on port 8081.
func defaultConfig() Config {
    return Config{
        ListenPort:       8081,
        SampleIntervalMs: 500,
        ConnTimeoutMs:    5000,
        MaxConnections:   16,
        VRef:             3.3,
        TouchThreshold:   40000,
        LogFile:          "events.log",
        Pins: []PinDescriptor{
            {GPIO: 4, Label: "D4", Capability: CapDigital},
            {GPIO: 17, Label: "D17", Capability: CapDigital},
            {GPIO: 22, Label: "D22", Capability: CapDigital},
            {GPIO: 27, Label: "D27", Capability: CapDigital},
            {GPIO: 0, Label: "A0", Capability: CapAnalog},
            {GPIO: 1, Label: "A1", Capability: CapAnalog},
            {GPIO: 2, Label: "T0", Capability: CapTouch},
        },
    }
}

// LoadConfig reads configuration from path.  If the file does not exist, the
// default configuration is persisted there and returned, so a first boot
// leaves an editable file behind.  Values missing from an existing file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
    data, err := os.ReadFile(path)
    if err != nil {
        if os.IsNotExist(err) {
            cfg := defaultConfig()
            if err := saveConfig(path, cfg); err != nil {
                return Config{}, fmt.Errorf("unable to write default config: %w", err)
            }
            return cfg, nil
        }
        return Config{}, fmt.Errorf("unable to read config: %w", err)
    }
    cfg := defaultConfig()
    cfg.Pins = nil
    if err := yaml.Unmarshal(data, &cfg); err != nil {
        return Config{}, fmt.Errorf("invalid %s: %w", path, err)
    }
    if len(cfg.Pins) == 0 {
        cfg.Pins = defaultConfig().Pins
    }
    if err := cfg.Validate(); err != nil {
        return Config{}, err
    }
    return cfg, nil
}

// saveConfig writes cfg to path atomically via a temp file and rename.
func saveConfig(path string, cfg Config) error {
    data, err := yaml.Marshal(cfg)
    if err != nil {
        return err
    }
    tmpPath := path + ".tmp"
    if err := os.WriteFile(tmpPath, data, 0600); err != nil {
        return err
    }
    return os.Rename(tmpPath, path)
}

// Validate rejects configurations the loop cannot run with.  It is called on
// every load; hand-built configs in tests may skip it.
func (c Config) Validate() error {
    if c.ListenPort < 0 || c.ListenPort > 65535 {
        return fmt.Errorf("listen_port %d out of range", c.ListenPort)
    }
    if c.SampleIntervalMs <= 0 {
        return fmt.Errorf("sample_interval_ms must be positive, got %d", c.SampleIntervalMs)
    }
    if c.ConnTimeoutMs <= 0 {
        return fmt.Errorf("conn_timeout_ms must be positive, got %d", c.ConnTimeoutMs)
    }
    if c.MaxConnections <= 0 {
        return fmt.Errorf("max_connections must be positive, got %d", c.MaxConnections)
    }
    if c.VRef <= 0 {
        return fmt.Errorf("vref must be positive, got %v", c.VRef)
    }
    if len(c.Pins) == 0 {
        return fmt.Errorf("at least one pin required")
    }
    seen := make(map[string]bool, len(c.Pins))
    for _, p := range c.Pins {
        if p.Label == "" {
            return fmt.Errorf("pin GPIO%d: label required", p.GPIO)
        }
        if seen[p.Label] {
            return fmt.Errorf("duplicate pin label %q", p.Label)
        }
        seen[p.Label] = true
        switch p.Capability {
        case CapDigital, CapAnalog, CapTouch:
        default:
            return fmt.Errorf("pin %s: unknown capability %q", p.Label, p.Capability)
        }
    }
    return nil
}
