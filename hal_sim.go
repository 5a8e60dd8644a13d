//go:build !linux || !arm || disablegpio

package main

// newPinReader returns the simulated HAL.  This is the default build so the
// server can be run and tested on a desktop machine; build on the board (or
// without the "disablegpio" tag) to get real GPIO access from hal_rpi.go.
func newPinReader(pins []PinDescriptor) (PinReader, error) {
    return NewSimReader(), nil
}
