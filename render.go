package main

import (
    "bytes"
    _ "embed"
    "encoding/json"
    "fmt"
    "html/template"
)

//go:embed web/dashboard.html
var dashboardHTML string

// pinJSON is the wire form of one reading in /data responses.
type pinJSON struct {
    State PinState `json:"state"`
    Value any      `json:"value"`
}

// statusJSON is the wire form of /data: a flat label-keyed object plus the
// capture timestamp in Unix milliseconds.
type statusJSON struct {
    Timestamp int64              `json:"timestamp"`
    Pins      map[string]pinJSON `json:"pins"`
}

// Renderer serializes snapshots and diagnostics into response bodies.  All
// methods are pure functions of their inputs and scale linearly with the
// number of configured pins.
type Renderer struct {
    tmpl       *template.Template
    pins       []PinDescriptor
    intervalMs int
}

func NewRenderer(cfg Config) (*Renderer, error) {
    tmpl, err := template.New("dashboard").Parse(dashboardHTML)
    if err != nil {
        return nil, err
    }
    return &Renderer{tmpl: tmpl, pins: cfg.Pins, intervalMs: cfg.SampleIntervalMs}, nil
}

// Status renders the snapshot as the /data JSON document.  A nil snapshot
// (before the first sampling pass) renders as an empty pins object.
func (r *Renderer) Status(snap *Snapshot) []byte {
    doc := statusJSON{Pins: map[string]pinJSON{}}
    if snap != nil {
        doc.Timestamp = snap.Taken.UnixMilli()
        for _, rd := range snap.Readings {
            doc.Pins[rd.Label] = pinJSON{State: rd.State, Value: rd.Value}
        }
    }
    out, err := json.Marshal(doc)
    if err != nil {
        return []byte("{}")
    }
    return out
}

// Info renders diagnostics as the /info JSON document.
func (r *Renderer) Info(d DiagnosticsSnapshot) []byte {
    out, err := json.Marshal(d)
    if err != nil {
        return []byte("{}")
    }
    return out
}

// Event frames the status JSON for the /events stream.
func (r *Renderer) Event(snap *Snapshot) []byte {
    var b bytes.Buffer
    b.WriteString("data: ")
    b.Write(r.Status(snap))
    b.WriteString("\n\n")
    return b.Bytes()
}

// dotColor maps a classification to the dashboard dot color.  Analog
// readings fade from green to red across the voltage buckets; anything
// unreadable is grey.
func dotColor(rd PinReading) template.CSS {
    switch rd.State {
    case StateLow:
        return "#2e9e5f"
    case StateHigh:
        return "#d94134"
    case StateTouch:
        return "#2f6fd9"
    case StateAnalog:
        hue := 120 - 120*rd.Bucket/(analogBuckets-1)
        return template.CSS(fmt.Sprintf("hsl(%ddeg 85%% 45%%)", hue))
    }
    return "#bdbdbd"
}

type dashboardPin struct {
    Label string
    State PinState
    Color template.CSS
    Badge string
}

type dashboardData struct {
    Title      string
    IntervalMs int
    Version    string
    Pins       []dashboardPin
}

// Dashboard renders the HTML page with the current readings baked in; the
// page keeps itself fresh afterwards over /events, falling back to polling
// /data.  Theme handling stays entirely in the browser.
func (r *Renderer) Dashboard(snap *Snapshot) ([]byte, error) {
    byLabel := make(map[string]PinReading)
    if snap != nil {
        for _, rd := range snap.Readings {
            byLabel[rd.Label] = rd
        }
    }
    data := dashboardData{
        Title:      "GPIO Live",
        IntervalMs: r.intervalMs,
        Version:    firmwareVersion,
        Pins:       make([]dashboardPin, 0, len(r.pins)),
    }
    for _, p := range r.pins {
        dp := dashboardPin{
            Label: p.Label,
            State: StateError,
            Color: dotColor(PinReading{State: StateError}),
        }
        if rd, ok := byLabel[p.Label]; ok {
            dp.State = rd.State
            dp.Color = dotColor(rd)
            if rd.State == StateAnalog {
                if v, isFloat := rd.Value.(float64); isFloat {
                    dp.Badge = fmt.Sprintf("%.2f V", v)
                }
            }
        }
        data.Pins = append(data.Pins, dp)
    }
    var b bytes.Buffer
    if err := r.tmpl.Execute(&b, data); err != nil {
        return nil, err
    }
    return b.Bytes(), nil
}
