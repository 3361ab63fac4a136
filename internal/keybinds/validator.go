package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// ActionNone removes a default binding
const ActionNone Action = "none"

// reservedKeys must keep their global meaning
var reservedKeys = map[string]Action{
	"ctrl+c": ActionQuitForce,
}

// Warning describes a binding that works but is probably a mistake
type Warning struct {
	Context Context
	Key     string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s in context '%s': %s", w.Key, w.Context, w.Message)
}

// Check reports reserved keys that were rebound and context bindings that
// shadow a different global action. Results are sorted by context and key.
func Check(registry *Registry) []Warning {
	var warnings []Warning

	for context, bindings := range registry.bindings {
		for key, action := range bindings {
			if reserved, ok := reservedKeys[key]; ok && action != reserved {
				warnings = append(warnings, Warning{
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("reserved key rebound to %s", action),
				})
				continue
			}
			if context == ContextGlobal {
				continue
			}
			if global, ok := registry.bindings[ContextGlobal][key]; ok && global != action {
				warnings = append(warnings, Warning{
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("shadows global binding (%s -> %s)", global, action),
				})
			}
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].Context != warnings[j].Context {
			return warnings[i].Context < warnings[j].Context
		}
		return warnings[i].Key < warnings[j].Key
	})
	return warnings
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if key != "+" && strings.HasSuffix(key, "+") {
		return fmt.Errorf("modifier without key: %s", key)
	}

	return nil
}

// ValidateAction checks if an action is known
func ValidateAction(action Action) error {
	if action == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if action != ActionNone && !IsKnownAction(action) {
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}
