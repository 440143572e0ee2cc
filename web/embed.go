// Package web embeds the console's templates and static assets for release
// builds. Debug mode reads the same directory straight from disk instead.
package web

import "embed"

//go:embed templates static
var EmbeddedFS embed.FS
