// Package scripts embeds the Risor scripts shipped with brackets. They run
// with "brackets run <name>" and show how the host functions compose.
package scripts

import "embed"

//go:embed *.risor
var FS embed.FS
