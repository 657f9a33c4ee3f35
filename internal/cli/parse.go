package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ben-ranford/cmdast/internal/app"
	"github.com/ben-ranford/cmdast/internal/config"
	"github.com/ben-ranford/cmdast/internal/report"
)

var ErrHelpRequested = errors.New("help requested")

// ParseArgs turns command-line arguments into a request. No arguments scan the
// current directory.
func ParseArgs(args []string) (app.Request, error) {
	req := app.DefaultRequest()
	if len(args) == 0 {
		return req, nil
	}

	parsed := false
	helpRequested := false
	root := newRootCommand(&req, &parsed)
	root.SetHelpFunc(func(*cobra.Command, []string) {
		helpRequested = true
	})
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.Execute(); err != nil {
		return req, err
	}
	if helpRequested || !parsed {
		return req, ErrHelpRequested
	}
	req.RepoPath = strings.TrimSpace(req.RepoPath)
	return req, nil
}

func newRootCommand(req *app.Request, parsed *bool) *cobra.Command {
	root := &cobra.Command{
		Use:           "cmdast",
		Short:         "Inspect and rewrite CMD module definitions",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&req.RepoPath, "repo", req.RepoPath, "repository path")
	root.PersistentFlags().BoolVarP(&req.Verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(
		newScanCommand(req, parsed),
		newModifyCommand(req, parsed),
		newCSSCommand(req, parsed),
		newResolveCommand(req, parsed),
	)
	return root
}

func newScanCommand(req *app.Request, parsed *bool) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Report the module definitions found in JavaScript sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if req.Scan.Concurrency < 0 {
				return fmt.Errorf("--concurrency must be >= 0")
			}
			req.Mode = app.ModeScan
			req.Scan.Paths = trimAll(args)
			req.Scan.Format = parsedFormat
			*parsed = true
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(req.Scan.Format), "output format (table, json, sarif)")
	cmd.Flags().IntVar(&req.Scan.Concurrency, "concurrency", 0, "files parsed at once (default: GOMAXPROCS)")
	return cmd
}

type modifyFlags struct {
	id               string
	idSuffix         string
	dependencies     []string
	dependencySuffix string
	require          map[string]string
	requireSuffix    string
	suffix           string
	pkg              string
	strict           bool
	compact          bool
	stripComments    bool
}

func newModifyCommand(req *app.Request, parsed *bool) *cobra.Command {
	var values modifyFlags
	cmd := &cobra.Command{
		Use:   "modify <file>",
		Short: "Rewrite the ids, dependencies and require calls of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Mode = app.ModeModify
			req.Modify.File = strings.TrimSpace(args[0])
			req.Modify.ConfigPath = strings.TrimSpace(req.Modify.ConfigPath)
			req.Modify.Overrides = values.overrides(cmd)
			*parsed = true
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.Modify.ConfigPath, "config", "", "config file path")
	flags.BoolVarP(&req.Modify.Write, "write", "w", false, "write the result back to the file")
	flags.StringVar(&values.id, "id", "", "replace every module id")
	flags.StringVar(&values.idSuffix, "id-suffix", "", "suffix appended to module ids")
	flags.StringSliceVar(&values.dependencies, "dependencies", nil, "replace every dependency list")
	flags.StringVar(&values.dependencySuffix, "dependency-suffix", "", "suffix appended to dependencies")
	flags.StringToStringVar(&values.require, "require", nil, "require aliases (name=target)")
	flags.StringVar(&values.requireSuffix, "require-suffix", "", "suffix appended to require targets")
	flags.StringVar(&values.suffix, "suffix", "", "suffix for ids, dependencies and require targets")
	flags.StringVar(&values.pkg, "package", "", "package.json supplying ids and aliases")
	flags.BoolVar(&values.strict, "strict", false, "fail on require calls that cannot be resolved")
	flags.BoolVar(&values.compact, "compact", false, "print factories without the original layout")
	flags.BoolVar(&values.stripComments, "strip-comments", false, "drop comments from factories")
	return cmd
}

// overrides keeps only the flags given on the command line so the config file
// supplies the rest.
func (v modifyFlags) overrides(cmd *cobra.Command) config.Overrides {
	flags := cmd.Flags()
	var out config.Overrides
	if flags.Changed("id") {
		out.ID = &v.id
	}
	if flags.Changed("id-suffix") {
		out.IDSuffix = &v.idSuffix
	}
	if flags.Changed("dependencies") {
		out.Dependencies = trimAll(v.dependencies)
	}
	if flags.Changed("dependency-suffix") {
		out.DependencySuffix = &v.dependencySuffix
	}
	if flags.Changed("require") {
		out.Require = v.require
	}
	if flags.Changed("require-suffix") {
		out.RequireSuffix = &v.requireSuffix
	}
	if flags.Changed("suffix") {
		out.Suffix = &v.suffix
	}
	if flags.Changed("package") {
		out.Package = &v.pkg
	}
	if flags.Changed("strict") {
		out.Strict = &v.strict
	}
	if flags.Changed("compact") {
		out.Compact = &v.compact
	}
	if flags.Changed("strip-comments") {
		out.StripComments = &v.stripComments
	}
	return out
}

func newCSSCommand(req *app.Request, parsed *bool) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "css <file>",
		Short: "Split a stylesheet into blocks and imports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedFormat, err := parseOutlineFormat(format)
			if err != nil {
				return err
			}
			req.Mode = app.ModeCSS
			req.CSS.File = strings.TrimSpace(args[0])
			req.CSS.Format = parsedFormat
			*parsed = true
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(req.CSS.Format), "output format (table, json)")
	return cmd
}

func newResolveCommand(req *app.Request, parsed *bool) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "resolve <uri>",
		Short: "Show the type, family, name and version of a module uri",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedFormat, err := parseOutlineFormat(format)
			if err != nil {
				return err
			}
			req.Mode = app.ModeResolve
			req.Resolve.URI = strings.TrimSpace(args[0])
			req.Resolve.Format = parsedFormat
			*parsed = true
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(req.Resolve.Format), "output format (table, json)")
	return cmd
}

// parseOutlineFormat accepts the formats that apply outside scan reports.
func parseOutlineFormat(value string) (report.Format, error) {
	format, err := report.ParseFormat(value)
	if err != nil {
		return "", err
	}
	if format == report.FormatSARIF {
		return "", fmt.Errorf("%w: %s is only supported by scan", report.ErrUnknownFormat, format)
	}
	return format, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
