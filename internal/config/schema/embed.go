package schema

import _ "embed"

//go:embed meta.schema.json
var MetaSchema []byte

//go:embed vam-pkgmgr-config.schema.json
var ConfigSchema []byte
