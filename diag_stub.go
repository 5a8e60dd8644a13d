//go:build !linux

package main

// Sentinel diagnostics for platforms without /proc.  Each probe reports "not
// available" and Collect fills in the corresponding zero value.

func flashSize() uint64 { return 0 }

func cpuInfo() (string, int, bool) { return "", 0, false }

func defaultGateway() (string, bool) { return "", false }

func firstNameserver() (string, bool) { return "", false }

func wirelessRSSI() (int, bool) { return 0, false }
