// File: config/file.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a configuration file into a static source. The format is
// detected from the extension first, then by probing the content (JSON, then
// YAML, then TOML). Nested tables flatten to dotted keys and arrays to
// indexed keys, so decoding happens exactly once, before the source is
// registered. A missing file returns ErrFileNotFound.
func LoadFile(path string, priority int) (*MapSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
		if format == "" {
			return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
		}
	}

	src, err := ParseSource(filepath.Base(path), format, data, priority)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", path, err)
	}
	return src, nil
}

// ParseSource decodes already-read file bytes of the given format ("toml",
// "yaml" or "json") into a static source.
func ParseSource(name, format string, data []byte, priority int) (*MapSource, error) {
	nested := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // preserve number precision
		if err := decoder.Decode(&nested); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	src := NewMapSource(name, priority)
	if err := flattenValue(Key{}, nested, src); err != nil {
		return nil, err
	}
	return src, nil
}

// LoadProfile loads the profile pair for a base name: the
// profile-specific file ("app-prod.toml") shadows the default file
// ("app.toml") for every supported extension. Missing files are skipped;
// the returned sources are ordered profile-first at the given priority,
// defaults one rank below.
func LoadProfile(dir, name, profile string, priority int) ([]*MapSource, error) {
	var sources []*MapSource

	load := func(base string, rank int) error {
		for _, ext := range []string{".toml", ".yaml", ".yml", ".json"} {
			src, err := LoadFile(filepath.Join(dir, base+ext), rank)
			if err != nil {
				if errors.Is(err, ErrFileNotFound) {
					continue
				}
				return err
			}
			sources = append(sources, src)
		}
		return nil
	}

	if profile != "" {
		if err := load(name+"-"+profile, priority); err != nil {
			return nil, err
		}
	}
	if err := load(name, priority+1); err != nil {
		return nil, err
	}
	return sources, nil
}

// flattenValue walks a decoded document and stores every leaf under its
// flattened key. Maps extend the key with a name segment, slices with an
// index segment.
func flattenValue(prefix Key, value any, src *MapSource) error {
	switch v := value.(type) {
	case map[string]any:
		for name, child := range v {
			sub, err := ParseKey(name)
			if err != nil {
				return fmt.Errorf("key %q under %q: %w", name, prefix, err)
			}
			if err := flattenValue(prefix.Join(sub), child, src); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range v {
			if err := flattenValue(prefix.At(i), child, src); err != nil {
				return err
			}
		}
	case []map[string]any: // TOML arrays of tables decode to this shape
		for i, child := range v {
			if err := flattenValue(prefix.At(i), child, src); err != nil {
				return err
			}
		}
	case nil:
		// Null leaves define no value.
	default:
		src.set(prefix, scalarString(v))
	}
	return nil
}

// scalarString renders a decoded scalar as the raw string the resolution
// core operates on.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// detectFileFormat determines format from the file extension.
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect the format by parsing. JSON is
// strict, so it is probed first; YAML is a superset of JSON and goes second.
func detectFormatFromContent(data []byte) string {
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	return ""
}
