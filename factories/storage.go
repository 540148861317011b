package factories

import (
	"errors"

	"alisa/core"
	"alisa/storage"
	"alisa/storage/sqlite"
	"alisa/storage/supabase"
)

// StorageFactoryConfig holds provider-specific configs for storage backend
// construction. Set exactly one provider config; the rest should be left nil.
type StorageFactoryConfig struct {
	SQLiteConfig   *sqlite.Config   `json:"sqlite,omitempty"`
	SupabaseConfig *supabase.Config `json:"supabase,omitempty"`
}

// BuildBackend constructs a storage.Backend from the given factory config.
// Exactly one provider config must be non-nil.
func BuildBackend(config StorageFactoryConfig, logger *core.Logger) (storage.Backend, error) {
	if config.SQLiteConfig != nil {
		return sqlite.New(*config.SQLiteConfig, logger), nil
	}
	if config.SupabaseConfig != nil {
		return supabase.New(*config.SupabaseConfig, logger), nil
	}
	return nil, errors.New("StorageFactoryConfig: no provider config specified")
}
