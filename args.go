// File: config/args.go
package config

import (
	"fmt"
	"strings"
)

// NewArgsSource parses command-line style overrides into a static source.
// Accepted forms are "--key=value", "--key value", and a bare "--flag"
// (which stores "true"). Keys are dotted paths; non-flag arguments and a
// lone "--" separator are skipped. Values are kept as raw strings so that
// placeholder expansion and leaf parsing behave identically across sources.
func NewArgsSource(args []string, priority int) (*MapSource, error) {
	src := NewMapSource("args", priority)

	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			i++
			continue
		}

		content := strings.TrimPrefix(arg, "--")
		if content == "" {
			i++
			continue
		}

		var keyPath, value string
		if k, v, ok := strings.Cut(content, "="); ok {
			keyPath, value = k, v
			i++
		} else {
			keyPath = content
			// A flag with no value is boolean when followed by another
			// flag or the end of the argument list.
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				value = "true"
				i++
			} else {
				value = args[i+1]
				i += 2
			}
		}

		key, err := ParseKey(keyPath)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}
		src.set(key, value)
	}

	return src, nil
}
