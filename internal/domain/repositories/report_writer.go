package repositories

import "io"

// ReportWriter renders a command result (report, list, diff, upgrades).
type ReportWriter interface {
	// Name returns the output format selected with --output (e.g. "json").
	Name() string

	Write(w io.Writer, document any) error
}
