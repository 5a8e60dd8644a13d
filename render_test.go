package main

import (
    "encoding/json"
    "strings"
    "testing"
    "time"
)

func testRenderConfig() Config {
    cfg := defaultConfig()
    cfg.Pins = []PinDescriptor{
        {GPIO: 1, Label: "D1", Capability: CapDigital},
        {GPIO: 0, Label: "A0", Capability: CapAnalog},
        {GPIO: 9, Label: "BAD", Capability: CapDigital},
    }
    return cfg
}

func testRenderSnapshot() *Snapshot {
    return &Snapshot{
        Taken: time.UnixMilli(1700000000000),
        Readings: []PinReading{
            {GPIO: 1, Label: "D1", State: StateLow, Value: false},
            {GPIO: 0, Label: "A0", State: StateAnalog, Value: 1.234, Bucket: 2},
            {GPIO: 9, Label: "BAD", State: StateError, Value: nil},
        },
    }
}

type wirePin struct {
    State string `json:"state"`
    Value any    `json:"value"`
}

type wireStatus struct {
    Timestamp int64              `json:"timestamp"`
    Pins      map[string]wirePin `json:"pins"`
}

func TestStatusRoundTrip(t *testing.T) {
    r, err := NewRenderer(testRenderConfig())
    if err != nil {
        t.Fatalf("NewRenderer: %v", err)
    }
    snap := testRenderSnapshot()

    var doc wireStatus
    if err := json.Unmarshal(r.Status(snap), &doc); err != nil {
        t.Fatalf("status body is not valid JSON: %v", err)
    }
    if doc.Timestamp != 1700000000000 {
        t.Fatalf("timestamp = %d, want 1700000000000", doc.Timestamp)
    }
    if len(doc.Pins) != len(snap.Readings) {
        t.Fatalf("got %d pins, want %d", len(doc.Pins), len(snap.Readings))
    }
    if p := doc.Pins["D1"]; p.State != "LOW" || p.Value != false {
        t.Fatalf("D1 = %+v, want LOW/false", p)
    }
    if p := doc.Pins["A0"]; p.State != "ANALOG" || p.Value != 1.234 {
        t.Fatalf("A0 = %+v, want ANALOG/1.234", p)
    }
    if p := doc.Pins["BAD"]; p.State != "ERROR" || p.Value != nil {
        t.Fatalf("BAD = %+v, want ERROR/null", p)
    }
}

func TestStatusNilSnapshot(t *testing.T) {
    r, err := NewRenderer(testRenderConfig())
    if err != nil {
        t.Fatalf("NewRenderer: %v", err)
    }
    var doc wireStatus
    if err := json.Unmarshal(r.Status(nil), &doc); err != nil {
        t.Fatalf("status body is not valid JSON: %v", err)
    }
    if doc.Timestamp != 0 || len(doc.Pins) != 0 {
        t.Fatalf("nil snapshot rendered as %+v, want empty", doc)
    }
}

func TestInfoFields(t *testing.T) {
    r, err := NewRenderer(testRenderConfig())
    if err != nil {
        t.Fatalf("NewRenderer: %v", err)
    }
    d := DiagnosticsSnapshot{
        UptimeSeconds:   42,
        IP:              "192.168.1.50",
        Cores:           4,
        FirmwareVersion: firmwareVersion,
    }
    var got map[string]any
    if err := json.Unmarshal(r.Info(d), &got); err != nil {
        t.Fatalf("info body is not valid JSON: %v", err)
    }
    if got["uptime"] != float64(42) || got["ip"] != "192.168.1.50" {
        t.Fatalf("info = %v", got)
    }
    if _, ok := got["psram"]; !ok {
        t.Fatalf("psram field must be present (as null) even when absent")
    }
    if got["psram"] != nil {
        t.Fatalf("psram = %v, want null", got["psram"])
    }
}

func TestEventFraming(t *testing.T) {
    r, err := NewRenderer(testRenderConfig())
    if err != nil {
        t.Fatalf("NewRenderer: %v", err)
    }
    frame := string(r.Event(testRenderSnapshot()))
    if !strings.HasPrefix(frame, "data: ") || !strings.HasSuffix(frame, "\n\n") {
        t.Fatalf("bad SSE framing: %q", frame)
    }
    var doc wireStatus
    if err := json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(frame, "data: "), "\n\n")), &doc); err != nil {
        t.Fatalf("SSE payload is not valid JSON: %v", err)
    }
}

func TestDashboardRendersPins(t *testing.T) {
    r, err := NewRenderer(testRenderConfig())
    if err != nil {
        t.Fatalf("NewRenderer: %v", err)
    }
    body, err := r.Dashboard(testRenderSnapshot())
    if err != nil {
        t.Fatalf("Dashboard: %v", err)
    }
    page := string(body)
    for _, want := range []string{"D1", "A0", "BAD", "#2e9e5f", "#bdbdbd", "1.23 V", firmwareVersion} {
        if !strings.Contains(page, want) {
            t.Errorf("dashboard missing %q", want)
        }
    }
}

func TestDashboardNilSnapshot(t *testing.T) {
    r, err := NewRenderer(testRenderConfig())
    if err != nil {
        t.Fatalf("NewRenderer: %v", err)
    }
    body, err := r.Dashboard(nil)
    if err != nil {
        t.Fatalf("Dashboard: %v", err)
    }
    if !strings.Contains(string(body), "D1") {
        t.Fatalf("dashboard must list configured pins before the first sample")
    }
}

func TestDotColorGradient(t *testing.T) {
    low := dotColor(PinReading{State: StateAnalog, Bucket: 0})
    high := dotColor(PinReading{State: StateAnalog, Bucket: analogBuckets - 1})
    if !strings.Contains(string(low), "120deg") {
        t.Errorf("bucket 0 color = %q, want green end (120deg)", low)
    }
    if !strings.Contains(string(high), "0deg") {
        t.Errorf("top bucket color = %q, want red end (0deg)", high)
    }
}
