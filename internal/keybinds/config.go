package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// Config maps context -> key -> action, as read from the keybinds section
// of the application config. Several keys may be given at once separated by
// commas ("up,k").
type Config map[string]map[string]string

// ApplyConfig applies user bindings over the registry.
// Unknown contexts, unknown actions and malformed keys are rejected before
// anything is registered. The action "none" unbinds a key.
func ApplyConfig(registry *Registry, config Config) error {
	type entry struct {
		context Context
		key     string
		action  Action
	}
	var entries []entry

	for contextName, bindings := range config {
		context := Context(strings.ToLower(contextName))
		if !IsKnownContext(context) {
			return fmt.Errorf("unknown keybinds context %q", contextName)
		}

		for keySpec, actionStr := range bindings {
			action := Action(strings.TrimSpace(actionStr))
			if err := ValidateAction(action); err != nil {
				return fmt.Errorf("keybinds.%s.%s: %w", contextName, keySpec, err)
			}

			for _, key := range strings.Split(keySpec, ",") {
				key = strings.TrimSpace(key)
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("keybinds.%s: %w", contextName, err)
				}
				entries = append(entries, entry{context: context, key: key, action: action})
			}
		}
	}

	for _, e := range entries {
		if e.action == ActionNone {
			registry.Unregister(e.context, e.key)
			continue
		}
		registry.Register(e.context, e.key, e.action)
	}

	return nil
}

// Load builds the default registry with user overrides applied
func Load(config Config) (*Registry, error) {
	registry := NewDefaultRegistry()
	if len(config) == 0 {
		return registry, nil
	}
	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}
	return registry, nil
}

// Export returns the registry as a Config, one entry per key
func Export(registry *Registry) Config {
	out := make(Config, len(registry.bindings))
	contexts := make([]string, 0, len(registry.bindings))
	for context := range registry.bindings {
		contexts = append(contexts, string(context))
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		bindings := registry.bindings[Context(context)]
		section := make(map[string]string, len(bindings))
		for key, action := range bindings {
			section[key] = string(action)
		}
		out[context] = section
	}
	return out
}
