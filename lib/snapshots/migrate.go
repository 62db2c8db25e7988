package snapshots

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/fiffu/billwatch/lib/fetcher"
	"github.com/fiffu/billwatch/lib/models"
)

// MigrateLegacyBills rewrites a bill database written by the original bot:
// upstream PascalCase keys become lowerCamel and MM/DD/YYYY values of date
// fields become YYYY-MM-DD. Running it on migrated data is a no-op.
func MigrateLegacyBills(data []byte) ([]byte, error) {
	var legacy map[string]map[string]any
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("legacy bill database is corrupt: %w", err)
	}

	migrated := make(map[string]map[string]any, len(legacy))
	for id, record := range legacy {
		out := make(map[string]any, len(record))
		for key, value := range record {
			if s, ok := value.(string); ok && isDateKey(key) {
				value = fetcher.NormalizeDate(s)
			}
			out[lowerFirst(key)] = value
		}
		migrated[id] = out
	}

	result, err := json.MarshalIndent(migrated, "", "    ")
	if err != nil {
		return nil, err
	}

	var check models.BillSnapshot
	if err := json.Unmarshal(result, &check); err != nil {
		return nil, fmt.Errorf("migrated bill database does not decode: %w", err)
	}
	return result, nil
}

func isDateKey(key string) bool {
	return strings.HasSuffix(key, "Date") || strings.HasSuffix(key, "Read")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
