// Package appfs embeds the static assets the binaries need at runtime:
// email templates and SQL migrations.
package appfs

import "embed"

//go:embed all:assets migrations
var FS embed.FS
