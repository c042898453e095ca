//go:build !linux

package main

import "errors"

func readTelemetry() (telemetry, error) {
	return telemetry{}, errors.New("system telemetry is only implemented on linux")
}
