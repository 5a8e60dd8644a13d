//go:build linux && arm && !disablegpio

// Raspberry Pi implementation of the HAL using periph.io.  Digital pins are
// read through the GPIO registry by BCM number.  The Pi has no on-chip ADC,
// so analog and touch descriptors are read through an ADS1115 on the default
// I2C bus; for those pins the descriptor's gpio field is the ADC channel
// number (0-3).

package main

import (
    "fmt"

    "periph.io/x/conn/v3/analog"
    "periph.io/x/conn/v3/gpio"
    "periph.io/x/conn/v3/gpio/gpioreg"
    "periph.io/x/conn/v3/i2c/i2creg"
    "periph.io/x/conn/v3/physic"
    "periph.io/x/devices/v3/ads1x15"
    "periph.io/x/host/v3"
)

const adcFullScale = 3300 * physic.MilliVolt

type periphReader struct {
    chans map[int]analog.PinADC
}

// newPinReader initialises periph host state and opens one ADC channel per
// non-digital descriptor.  Failing here prevents the daemon from starting.
func newPinReader(pins []PinDescriptor) (PinReader, error) {
    if _, err := host.Init(); err != nil {
        return nil, err
    }
    r := &periphReader{chans: make(map[int]analog.PinADC)}
    needADC := false
    for _, p := range pins {
        if p.Capability != CapDigital {
            needADC = true
        }
    }
    if !needADC {
        return r, nil
    }
    bus, err := i2creg.Open("")
    if err != nil {
        return nil, fmt.Errorf("open I2C bus: %w", err)
    }
    adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
    if err != nil {
        return nil, fmt.Errorf("ADS1115 init: %w", err)
    }
    for _, p := range pins {
        if p.Capability == CapDigital {
            continue
        }
        ch, err := adcChannel(p.GPIO)
        if err != nil {
            return nil, err
        }
        pin, err := adc.PinForChannel(ch, adcFullScale, 860*physic.Hertz, ads1x15.SaveEnergy)
        if err != nil {
            return nil, fmt.Errorf("ADC channel %d: %w", p.GPIO, err)
        }
        r.chans[p.GPIO] = pin
    }
    return r, nil
}

func adcChannel(n int) (ads1x15.Channel, error) {
    switch n {
    case 0:
        return ads1x15.Channel0, nil
    case 1:
        return ads1x15.Channel1, nil
    case 2:
        return ads1x15.Channel2, nil
    case 3:
        return ads1x15.Channel3, nil
    }
    return ads1x15.Channel0, fmt.Errorf("no ADC channel %d (ADS1115 has 0-3)", n)
}

// ReadDigital reads a pin by BCM number and reports whether it is high.
func (r *periphReader) ReadDigital(gpioNum int) (bool, error) {
    p := gpioreg.ByName(fmt.Sprintf("GPIO%d", gpioNum))
    if p == nil {
        return false, fmt.Errorf("GPIO%d not present", gpioNum)
    }
    return p.Read() == gpio.High, nil
}

// readRaw samples an ADC channel and rescales it to the 16-bit range the
// sampler expects.
func (r *periphReader) readRaw(gpioNum int) (uint16, error) {
    pin, ok := r.chans[gpioNum]
    if !ok {
        return 0, fmt.Errorf("no ADC channel configured for pin %d", gpioNum)
    }
    s, err := pin.Read()
    if err != nil {
        return 0, err
    }
    v := int64(s.V) * 65535 / int64(adcFullScale)
    if v < 0 {
        v = 0
    }
    if v > 65535 {
        v = 65535
    }
    return uint16(v), nil
}

func (r *periphReader) ReadAnalog(gpioNum int) (uint16, error) {
    return r.readRaw(gpioNum)
}

// ReadTouch reads the capacitive sensing module wired to an ADC channel; the
// raw count is compared against the calibrated threshold by the sampler.
func (r *periphReader) ReadTouch(gpioNum int) (uint16, error) {
    return r.readRaw(gpioNum)
}
