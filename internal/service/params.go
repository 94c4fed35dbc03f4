package service

import "time"

// ConvertConfig carries the conversion pipeline knobs from main.
type ConvertConfig struct {
	SourceDir        string // corpus root scanned for *.xml
	OutputDir        string // signal files land under <OutputDir>/<manufacturer>/
	DefaultFrequency int    // Hz, used when a device declares none
	Workers          int    // files converted concurrently
	MaxLinkDepth     int    // bound on linked-document chains
}

// AuthConfig carries the token signing parameters from main.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// EventFilter supports diagnostics filtering by time range and type.
type EventFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "RUN_STARTED", "RUN_FINISHED", "RUN_FAILED", "FILE_FAILED", "DEVICE_SKIPPED", "COMMAND_DROPPED"
}
