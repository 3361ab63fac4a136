package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/restchat/internal/types"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of an endpoint definition file
type File struct {
	Endpoints []types.Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Load reads an endpoint definition file and builds a registry from it.
// Supported formats are .yaml, .yml, .json and .jsonc (JSON with comments).
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoints file: %w", err)
	}

	endpoints, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	return New(endpoints), nil
}

// Parse decodes and validates endpoint definitions in the format named by ext
func Parse(data []byte, ext string) ([]types.Endpoint, error) {
	var file File

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML endpoints: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON endpoints: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported endpoints file format: %s (use .yaml, .yml, .json or .jsonc)", ext)
	}

	if err := Validate(file.Endpoints); err != nil {
		return nil, fmt.Errorf("invalid endpoints: %w", err)
	}

	return file.Endpoints, nil
}

// Validate checks descriptors and normalizes their methods in place
func Validate(endpoints []types.Endpoint) error {
	if len(endpoints) == 0 {
		return fmt.Errorf("no endpoints defined")
	}

	seen := make(map[string]bool, len(endpoints))
	for i := range endpoints {
		ep := &endpoints[i]

		if ep.Path == "" {
			return fmt.Errorf("endpoint %d: path is required", i)
		}
		if !strings.HasPrefix(ep.Path, "/") {
			return fmt.Errorf("endpoint %d: path must start with '/': %s", i, ep.Path)
		}
		if seen[ep.Path] {
			return fmt.Errorf("endpoint %d: duplicate path %s", i, ep.Path)
		}
		seen[ep.Path] = true

		method, ok := types.ParseMethod(string(ep.Method))
		if !ok {
			return fmt.Errorf("endpoint %d: method must be GET or POST, got %q", i, ep.Method)
		}
		ep.Method = method

		if ep.SampleBody != "" {
			if method != types.MethodPost {
				return fmt.Errorf("endpoint %d: sampleBody is only allowed on POST endpoints", i)
			}
			if !json.Valid([]byte(ep.SampleBody)) {
				return fmt.Errorf("endpoint %d: sampleBody is not valid JSON", i)
			}
		}
	}

	return nil
}
