// Package migrations embeds the SQL schema applied by goose at server start.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
