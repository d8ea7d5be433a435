// Package pagination sorts and pages list output for the CLI.
//
// Two paging modes are supported and are mutually exclusive:
//   - Offset-based: --limit and --offset
//   - Page-based: --page and --page-size
package pagination
