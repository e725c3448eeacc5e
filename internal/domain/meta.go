package domain

// Meta is an open-ended key/value record for schema and version bookkeeping.
type Meta struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Reserved meta keys.
const (
	MetaSchemaVersion = "schema_version"
	MetaInstallID     = "install_id"
	MetaPreferences   = "preferences"
)
