package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spec-kit/lighthouse-migrator/pkg/util"
)

// LoadUserMap reads the required legacy-id to username JSON map, keyed by
// the numeric id in string form, e.g. {"12345": "user.name"}.
func LoadUserMap(path string) (map[int64]string, error) {
	if path == "" {
		return nil, util.NewConfigError("USER_MAP_FILE is required", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.NewConfigError("failed to read user map", map[string]any{"path": path})
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, util.NewConfigError(fmt.Sprintf("invalid user map: %v", err), map[string]any{"path": path})
	}

	users := make(map[int64]string, len(raw))
	for key, username := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, util.NewConfigError(fmt.Sprintf("invalid user map key %q", key), map[string]any{"path": path})
		}
		users[id] = username
	}
	return users, nil
}

// LoadPriorityMap reads the optional importance-name override table. An
// empty path means the built-in defaults apply.
func LoadPriorityMap(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.NewConfigError("failed to read priority map", map[string]any{"path": path})
	}

	var overrides map[string]string
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, util.NewConfigError(fmt.Sprintf("invalid priority map: %v", err), map[string]any{"path": path})
	}
	return overrides, nil
}
