package main

import (
    "net"
    "runtime"
    "strconv"
    "strings"
    "time"
)

// DiagnosticsCollector gathers system metrics on demand for the /info route.
// Nothing is cached between calls except the process start time.  Every
// metric fails independently: a field that cannot be read reports its
// sentinel value instead of aborting the collection, so diagnostics keep
// flowing when the network association drops.
type DiagnosticsCollector struct {
    start time.Time
    ssid  string
}

// NewDiagnosticsCollector records the start-time reference.  The SSID comes
// from configuration because Wi-Fi association is handled outside this
// process.
func NewDiagnosticsCollector(cfg Config) *DiagnosticsCollector {
    return &DiagnosticsCollector{start: time.Now(), ssid: cfg.WiFiSSID}
}

func (c *DiagnosticsCollector) Collect() DiagnosticsSnapshot {
    var ms runtime.MemStats
    runtime.ReadMemStats(&ms)
    d := DiagnosticsSnapshot{
        UptimeSeconds:   int64(time.Since(c.start).Seconds()),
        HeapFree:        ms.HeapSys - ms.HeapInuse,
        HeapTotal:       ms.HeapSys,
        FlashSize:       flashSize(),
        IP:              "0.0.0.0",
        SSID:            c.ssid,
        ChipModel:       "unknown",
        Cores:           runtime.NumCPU(),
        FirmwareVersion: firmwareVersion,
    }
    if ip, mac, ok := primaryInterface(); ok {
        d.IP = ip
        d.MAC = mac
    }
    if model, mhz, ok := cpuInfo(); ok {
        d.ChipModel = model
        d.CPUMHz = mhz
    }
    if gw, ok := defaultGateway(); ok {
        d.Gateway = gw
    }
    if dns, ok := firstNameserver(); ok {
        d.DNS = dns
    }
    if rssi, ok := wirelessRSSI(); ok {
        d.RSSI = rssi
    }
    return d
}

// primaryInterface picks the first up, non-loopback interface carrying an
// IPv4 address.
func primaryInterface() (ip, mac string, ok bool) {
    ifaces, err := net.Interfaces()
    if err != nil {
        return "", "", false
    }
    for _, ifc := range ifaces {
        if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
            continue
        }
        addrs, err := ifc.Addrs()
        if err != nil {
            continue
        }
        for _, a := range addrs {
            ipn, isNet := a.(*net.IPNet)
            if !isNet || ipn.IP.To4() == nil {
                continue
            }
            return ipn.IP.String(), ifc.HardwareAddr.String(), true
        }
    }
    return "", "", false
}

// The parsers below are pure functions over file contents so they can be
// tested on any OS; the Linux build wires them to /proc and /etc in
// diag_linux.go.

// parseCPUInfo extracts a model name and clock from /proc/cpuinfo content.
// Pi boards report the board name under "Model", which wins over the
// per-core "model name" when present.  ARM kernels omit "cpu MHz"; the clock
// stays 0 there.
func parseCPUInfo(data []byte) (model string, mhz int, ok bool) {
    for _, line := range strings.Split(string(data), "\n") {
        key, val, found := strings.Cut(line, ":")
        if !found {
            continue
        }
        key = strings.TrimSpace(key)
        val = strings.TrimSpace(val)
        switch key {
        case "model name":
            if model == "" {
                model = val
            }
        case "Model":
            model = val
        case "cpu MHz":
            if mhz == 0 {
                if f, err := strconv.ParseFloat(val, 64); err == nil {
                    mhz = int(f)
                }
            }
        }
    }
    return model, mhz, model != ""
}

// parseRoutes extracts the default gateway from /proc/net/route content.
// The gateway column is hex in little-endian byte order.
func parseRoutes(data []byte) (string, bool) {
    lines := strings.Split(string(data), "\n")
    if len(lines) < 2 {
        return "", false
    }
    for _, line := range lines[1:] {
        f := strings.Fields(line)
        if len(f) < 3 || f[1] != "00000000" {
            continue
        }
        raw, err := strconv.ParseUint(f[2], 16, 32)
        if err != nil {
            continue
        }
        gw := net.IPv4(byte(raw), byte(raw>>8), byte(raw>>16), byte(raw>>24))
        return gw.String(), true
    }
    return "", false
}

// parseResolvConf extracts the first nameserver from /etc/resolv.conf
// content.
func parseResolvConf(data []byte) (string, bool) {
    for _, line := range strings.Split(string(data), "\n") {
        line = strings.TrimSpace(line)
        if strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
            continue
        }
        f := strings.Fields(line)
        if len(f) >= 2 && f[0] == "nameserver" {
            return f[1], true
        }
    }
    return "", false
}

// parseWireless extracts the first interface and its signal level (dBm) from
// /proc/net/wireless content.  The file has two header lines; level values
// carry a trailing dot.
func parseWireless(data []byte) (iface string, rssi int, ok bool) {
    lines := strings.Split(string(data), "\n")
    if len(lines) <= 2 {
        return "", 0, false
    }
    for _, line := range lines[2:] {
        f := strings.Fields(line)
        if len(f) < 4 || !strings.HasSuffix(f[0], ":") {
            continue
        }
        n, err := strconv.Atoi(strings.TrimSuffix(f[3], "."))
        if err != nil {
            continue
        }
        return strings.TrimSuffix(f[0], ":"), n, true
    }
    return "", 0, false
}
