package main

import (
    "fmt"
    "math"
    "time"
)

// analogBuckets is the number of gradient steps used to color analog readings
// from green (0 V) to red (vref).
const analogBuckets = 8

// Sampler turns one pass over the configured descriptors into a Snapshot.
type Sampler struct {
    hw             PinReader
    vref           float64
    touchThreshold uint16
    logger         *EventLogger
}

func NewSampler(hw PinReader, cfg Config, logger *EventLogger) *Sampler {
    return &Sampler{
        hw:             hw,
        vref:           cfg.VRef,
        touchThreshold: cfg.TouchThreshold,
        logger:         logger,
    }
}

// Sample reads every descriptor exactly once, in input order.  A failed read
// yields an ERROR reading for that pin and the pass continues; one bad pin
// never aborts the snapshot.
func (s *Sampler) Sample(pins []PinDescriptor) *Snapshot {
    snap := &Snapshot{
        Taken:    time.Now(),
        Readings: make([]PinReading, len(pins)),
    }
    for i, p := range pins {
        snap.Readings[i] = s.readOne(p)
    }
    return snap
}

func (s *Sampler) readOne(p PinDescriptor) PinReading {
    r := PinReading{GPIO: p.GPIO, Label: p.Label}
    switch p.Capability {
    case CapDigital:
        level, err := s.hw.ReadDigital(p.GPIO)
        if err != nil {
            return s.errored(r, err)
        }
        if level {
            r.State = StateHigh
        } else {
            r.State = StateLow
        }
        r.Value = level
    case CapTouch:
        raw, err := s.hw.ReadTouch(p.GPIO)
        if err != nil {
            return s.errored(r, err)
        }
        if raw >= s.touchThreshold {
            r.State = StateTouch
        } else {
            r.State = StateLow
        }
        r.Value = float64(raw)
    case CapAnalog:
        raw, err := s.hw.ReadAnalog(p.GPIO)
        if err != nil {
            return s.errored(r, err)
        }
        volts := scaleVolts(raw, s.vref)
        r.State = StateAnalog
        r.Value = volts
        r.Bucket = voltageBucket(volts, s.vref)
    default:
        return s.errored(r, fmt.Errorf("unknown capability %q", p.Capability))
    }
    return r
}

func (s *Sampler) errored(r PinReading, err error) PinReading {
    r.State = StateError
    r.Value = nil
    s.logger.Log("pin %s (GPIO%d) read failed: %v", r.Label, r.GPIO, err)
    return r
}

// scaleVolts converts a 16-bit raw sample to volts, rounded to 3 decimals.
func scaleVolts(raw uint16, vref float64) float64 {
    v := float64(raw) / 65535.0 * vref
    return math.Round(v*1000) / 1000
}

// voltageBucket maps a voltage to a gradient bucket in [0, analogBuckets).
func voltageBucket(volts, vref float64) int {
    if vref <= 0 {
        return 0
    }
    b := int(volts / vref * analogBuckets)
    if b < 0 {
        b = 0
    }
    if b >= analogBuckets {
        b = analogBuckets - 1
    }
    return b
}
