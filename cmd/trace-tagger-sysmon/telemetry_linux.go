//go:build linux

package main

import "golang.org/x/sys/unix"

// readTelemetry samples load averages and memory occupancy from the
// kernel.
func readTelemetry() (telemetry, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return telemetry{}, err
	}
	// Loads are SI_LOAD_SHIFT fixed point.
	const loadScale = 1 << 16
	unitSize := uint64(info.Unit)
	if unitSize == 0 {
		unitSize = 1
	}
	usedBytes := (uint64(info.Totalram) - uint64(info.Freeram)) * unitSize
	return telemetry{
		Load1:     float64(info.Loads[0]) / loadScale,
		Load5:     float64(info.Loads[1]) / loadScale,
		MemUsedMB: float64(usedBytes) / (1024 * 1024),
		Procs:     float64(info.Procs),
	}, nil
}
