// Package schemas holds the JSON Schemas embedded into the binary.
package schemas

import _ "embed"

//go:embed config.schema.json
var ConfigSchemaJSON string
