// Package services holds the read side of the generated dataset.
//
// DataService loads alice_master_enhanced.json and alice_statistics.json
// from the output directory and answers record, state and statistics
// queries from an in-memory snapshot. The snapshot is rebuilt when the
// enhanced JSON file changes, so the web server follows processor runs
// without restarting. HealthService reports liveness and whether a dataset
// is available.
package services
