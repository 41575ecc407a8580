// Package log provides the provisioning event trace.
//
// The trace is a machine-readable record of one or more provisioning
// sessions: raw link frames, decoded link messages, coordinator state
// transitions, terminal outcomes and errors. It is separate from
// operational logging (zerolog), which stays human oriented.
//
// # Basic Usage
//
//	// For development: mirror events to the console logger
//	cfg.EventLogger = log.NewZerologAdapter(zlog.Logger)
//
//	// For field runs: write a binary trace
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/hotspot/provision.plog")
//
//	// Both
//	cfg.EventLogger = log.NewMultiLogger(adapter, fileLogger)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded Event values with integer map
// keys (extension .plog). `hotspotctl log view` and `hotspotctl log export`
// read them back through Reader.
package log
