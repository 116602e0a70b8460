// Package shared holds helpers used by more than one package. The testutil
// subpackage builds spreadsheet fixtures and captures slog output in tests.
package shared
