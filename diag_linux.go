//go:build linux

package main

import (
    "os"
    "syscall"
)

// flashSize reports the size of the root filesystem, the closest analogue to
// on-board flash for an SD-card booted Linux board.
func flashSize() uint64 {
    var st syscall.Statfs_t
    if err := syscall.Statfs("/", &st); err != nil {
        return 0
    }
    return uint64(st.Blocks) * uint64(st.Bsize)
}

func cpuInfo() (string, int, bool) {
    data, err := os.ReadFile("/proc/cpuinfo")
    if err != nil {
        return "", 0, false
    }
    return parseCPUInfo(data)
}

func defaultGateway() (string, bool) {
    data, err := os.ReadFile("/proc/net/route")
    if err != nil {
        return "", false
    }
    return parseRoutes(data)
}

func firstNameserver() (string, bool) {
    data, err := os.ReadFile("/etc/resolv.conf")
    if err != nil {
        return "", false
    }
    return parseResolvConf(data)
}

func wirelessRSSI() (int, bool) {
    data, err := os.ReadFile("/proc/net/wireless")
    if err != nil {
        return 0, false
    }
    _, rssi, ok := parseWireless(data)
    return rssi, ok
}
