package translator

import (
	"fmt"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
)

// LoadPreferences applies the properties stored in s for t, if any.
// Stored keys t no longer knows are skipped.
func LoadPreferences(t Translator, s *cim.Schema) error {
	stored := erd.Preferences(s, t.Name())
	if stored == nil {
		return nil
	}
	known := t.Properties()
	props := make(map[string]any, len(stored))
	for k, v := range stored {
		if _, ok := known[k]; ok {
			props[k] = v
		}
	}
	if err := t.SetProperties(props); err != nil {
		return fmt.Errorf("load %s preferences: %w", t.Name(), err)
	}
	return nil
}

// SavePreferences stores the current properties of t in s, replacing any
// earlier record for t.
func SavePreferences(t Translator, s *cim.Schema) {
	erd.StorePreferences(s, t.Name(), StringProperties(t.Properties()))
}
