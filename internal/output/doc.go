// Package output renders pod-cleaner reports.
//
// Three reports exist: the problem pod query, the deletion run and the
// cluster inventory. Each can be rendered as a kubectl-style table with a
// summary panel, as JSON, or as YAML.
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithNoColor(true))
//	formatter.FormatQuery(os.Stdout, result)
//
// Colors are enabled only for TTY writers and can be disabled with
// WithNoColor. Machine formats never carry color codes.
package output
