// File: config/env.go
package config

import (
	"os"
	"strings"
)

// EnvSource reads configuration from environment variables. Keys map to
// variable names through EnvVar: "server.port" is looked up as
// PREFIX + "SERVER_PORT". The lookup functions are injected so tests can
// substitute a fake environment; the default constructors read the live
// process environment or a fixed snapshot.
type EnvSource struct {
	name     string
	priority int
	prefix   string
	lookup   func(string) (string, bool)
	environ  func() []string
}

// NewEnvSource creates a dynamic source over the live process environment.
// Each Get reflects the environment at call time. prefix (e.g. "APP_") is
// prepended to every variable name and may be empty.
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		name:     "env",
		priority: priority,
		prefix:   prefix,
		lookup:   os.LookupEnv,
		environ:  os.Environ,
	}
}

// NewEnvSnapshot creates a static source over a fixed set of variables in
// "KEY=value" form, as returned by os.Environ. Useful for reproducible tests
// and for freezing the environment at startup.
func NewEnvSnapshot(prefix string, priority int, environ []string) *EnvSource {
	vars := make(map[string]string, len(environ))
	names := make([]string, 0, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, seen := vars[name]; !seen {
			names = append(names, name)
		}
		vars[name] = value
	}
	return &EnvSource{
		name:     "env-snapshot",
		priority: priority,
		prefix:   prefix,
		lookup: func(name string) (string, bool) {
			v, ok := vars[name]
			return v, ok
		},
		environ: func() []string {
			out := make([]string, 0, len(names))
			for _, n := range names {
				out = append(out, n+"="+vars[n])
			}
			return out
		},
	}
}

func (s *EnvSource) Name() string {
	return s.name
}

func (s *EnvSource) Priority() int {
	return s.priority
}

func (s *EnvSource) Get(key Key) (string, bool) {
	if key.IsEmpty() {
		return "", false
	}
	return s.lookup(s.prefix + key.EnvVar())
}

// Keys enumerates variables that carry the source prefix and translate back
// to a valid Key. Variables that do not round-trip through KeyFromEnvVar
// are skipped.
func (s *EnvSource) Keys(prefix Key) []Key {
	var out []Key
	for _, kv := range s.environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		rest, ok := strings.CutPrefix(name, s.prefix)
		if !ok || rest == "" {
			continue
		}
		k, err := KeyFromEnvVar(rest)
		if err != nil {
			continue
		}
		if k.HasPrefix(prefix) {
			out = append(out, k)
		}
	}
	return out
}
