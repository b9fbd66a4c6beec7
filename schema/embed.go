// Package schema embeds the JSON schema of forkcheck.yaml.
package schema

import "embed"

// FS holds config.schema.json.
//
//go:embed *.schema.json
var FS embed.FS
