// Package config loads application configuration from defaults, an optional
// YAML file and ALICE_* environment variables, in increasing precedence.
//
// Environment variables follow the section layout of Config:
//
//	ALICE_SERVER_PORT=8080
//	ALICE_PATHS_INPUT_DIR=data/raw
//	ALICE_PATHS_OUTPUT_DIR=data/processed
//	ALICE_PIPELINE_EXTREMES_SIZE=10
//	ALICE_LOGGING_LEVEL=debug
//	ALICE_OTEL_TRACING=true
//
// Paths resolves every file location relative to a base directory so the
// processor and the web server agree on where outputs live.
package config
