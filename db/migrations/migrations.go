package migrations

import "embed"

// FS holds the campaign, contribution and reward ledger schema, read by
// golang-migrate through its iofs source.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the service migrates to on startup.
const Version = 1
