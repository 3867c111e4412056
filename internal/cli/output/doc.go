// Package output provides output formatting for docmesh-cli.
//
// Structure:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned table output for terminals
//   - json.go: indented JSON output for scripting
//
// Commands build a Table (or any JSON-marshalable value) and hand it
// to the formatter selected by the --output flag.
package output
