// Package migrations содержит SQL схему хранилища предложений.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
