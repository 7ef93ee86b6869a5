// Package migrations embeds the SQL schema for every supported dialect.
package migrations

import "embed"

// FS holds one directory of golang-migrate files per database driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
