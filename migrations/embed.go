// Package migrations embute os ficheiros SQL aplicados pelo goose.
package migrations

import "embed"

// FS contém as migrações, na raiz do sistema de ficheiros.
//
//go:embed *.sql
var FS embed.FS
