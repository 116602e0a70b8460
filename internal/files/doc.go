// Package files discovers input workbooks and writes output files.
//
// Discovery lists the .xlsx workbooks of an input directory in name order,
// ignoring editor lock files (~$*). Manager writes outputs atomically under
// the configured output directory.
package files
