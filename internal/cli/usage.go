package cli

const usage = `Usage:
  cmdast                     (scans the current directory)
  cmdast scan [path...] [--repo PATH] [--format table|json|sarif] [--concurrency N]
  cmdast modify <file> [--write] [--config PATH] [--id ID] [--dependencies A,B] [--require NAME=TARGET]
                       [--suffix S] [--id-suffix S] [--dependency-suffix S] [--require-suffix S]
                       [--package PATH] [--strict] [--compact] [--strip-comments]
  cmdast css <file> [--format json|table]
  cmdast resolve <uri> [--format table|json]

Options:
  --repo PATH                Repository path (default: .)
  --format FORMAT            Output format
  --concurrency N            Files parsed at once (default: GOMAXPROCS)
  --config PATH              Config file (default: .cmdast.yml, .cmdast.yaml, .cmdast.toml or cmdast.json)
  -w, --write                Write the modified source back to the file
  --id ID                    Replace every module id
  --dependencies A,B         Replace every dependency list ("" for none)
  --require NAME=TARGET      Alias require targets, repeatable
  --suffix S                 Suffix ids, dependencies and require targets, e.g. -debug
  --id-suffix S              Suffix module ids only
  --dependency-suffix S      Suffix dependencies only
  --require-suffix S         Suffix require targets only
  --package PATH             package.json supplying the module id and aliases
  --strict                   Fail when a require call cannot be resolved
  --compact                  Print factories without their original layout
  --strip-comments           Drop comments from factories
  -v, --verbose              Log diagnostics to stderr
  -h, --help                 Show this help text
`

func Usage() string {
	return usage
}
