package app

import (
	"github.com/ben-ranford/cmdast/internal/config"
	"github.com/ben-ranford/cmdast/internal/report"
)

type Mode string

const (
	ModeScan    Mode = "scan"
	ModeModify  Mode = "modify"
	ModeCSS     Mode = "css"
	ModeResolve Mode = "resolve"
)

type Request struct {
	Mode     Mode
	RepoPath string
	Verbose  bool
	Scan     ScanRequest
	Modify   ModifyRequest
	CSS      CSSRequest
	Resolve  ResolveRequest
}

type ScanRequest struct {
	Paths  []string
	Format report.Format
	// Concurrency bounds the number of files parsed at once. Zero means
	// GOMAXPROCS.
	Concurrency int
}

type ModifyRequest struct {
	File       string
	ConfigPath string
	Overrides  config.Overrides
	Write      bool
}

type CSSRequest struct {
	File   string
	Format report.Format
}

type ResolveRequest struct {
	URI    string
	Format report.Format
}

func DefaultRequest() Request {
	return Request{
		Mode:     ModeScan,
		RepoPath: ".",
		Scan: ScanRequest{
			Format: report.FormatTable,
		},
		CSS: CSSRequest{
			Format: report.FormatJSON,
		},
		Resolve: ResolveRequest{
			Format: report.FormatTable,
		},
	}
}
