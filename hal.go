package main

// This file defines the hardware abstraction layer for pin access.  The
// sampler only sees the PinReader interface; the concrete reader is chosen at
// build time.  SimReader is the default so the daemon (and its tests) run on
// a desktop machine without board hardware; hal_rpi.go supplies the periph.io
// implementation behind a build tag.

import (
    "fmt"
    "sync"
)

// PinReader performs the raw hardware reads for one sampling pass.  Each
// method reads the given pin exactly once.  Implementations must be cheap:
// the aggregate pass has to finish well inside the sampling cadence.
type PinReader interface {
    ReadDigital(gpio int) (bool, error)
    ReadAnalog(gpio int) (uint16, error)
    ReadTouch(gpio int) (uint16, error)
}

// SimReader is an in-memory PinReader.  Unset pins read low/zero, so a fresh
// reader behaves like a board with nothing wired up.  Individual pins can be
// forced to fail to exercise the error path.
type SimReader struct {
    mu      sync.Mutex
    digital map[int]bool
    raw     map[int]uint16
    errs    map[int]error
}

// NewSimReader returns a reader with all pins low.
func NewSimReader() *SimReader {
    return &SimReader{
        digital: make(map[int]bool),
        raw:     make(map[int]uint16),
        errs:    make(map[int]error),
    }
}

// SetDigital sets the simulated logic level of a pin.
func (r *SimReader) SetDigital(gpio int, level bool) {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.digital[gpio] = level
}

// SetRaw sets the simulated raw count returned for analog and touch reads.
func (r *SimReader) SetRaw(gpio int, raw uint16) {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.raw[gpio] = raw
}

// FailPin makes every read of the pin return an error.
func (r *SimReader) FailPin(gpio int) {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.errs[gpio] = fmt.Errorf("simulated read failure on pin %d", gpio)
}

func (r *SimReader) ReadDigital(gpio int) (bool, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if err := r.errs[gpio]; err != nil {
        return false, err
    }
    return r.digital[gpio], nil
}

func (r *SimReader) ReadAnalog(gpio int) (uint16, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if err := r.errs[gpio]; err != nil {
        return 0, err
    }
    return r.raw[gpio], nil
}

func (r *SimReader) ReadTouch(gpio int) (uint16, error) {
    return r.ReadAnalog(gpio)
}
