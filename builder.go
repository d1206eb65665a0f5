// File: config/builder.go
package config

import (
	"errors"
	"os"
)

// Builder assembles an Environment from sources added in precedence order.
// Among sources at the same priority rank the one added first wins, so the
// natural pattern is to register overrides before fallbacks. All With*
// methods return the builder for chaining; the first error is latched and
// reported by Build.
type Builder struct {
	sources  []Source
	override *MapSource
	err      error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddSource registers an arbitrary source at its own declared priority.
func (b *Builder) AddSource(s Source) *Builder {
	if b.err == nil {
		b.sources = append(b.sources, s)
	}
	return b
}

// Set registers a single programmatic override, above every other source.
func (b *Builder) Set(key, value string) *Builder {
	if b.err != nil {
		return b
	}
	if b.override == nil {
		b.override = NewMapSource("override", PriorityOverride)
		b.sources = append(b.sources, b.override)
	}
	b.override.Set(key, value)
	return b
}

// WithEnv registers process environment variables carrying the given prefix
// (for example "APP_").
func (b *Builder) WithEnv(prefix string) *Builder {
	return b.AddSource(NewEnvSource(prefix, PriorityEnv))
}

// WithArgs registers --key=value command-line flags. Pass os.Args[1:].
func (b *Builder) WithArgs(args []string) *Builder {
	if b.err != nil {
		return b
	}
	src, err := NewArgsSource(args, PriorityCLI)
	if err != nil {
		b.err = err
		return b
	}
	return b.AddSource(src)
}

// WithFile registers a configuration file. A file that does not exist is
// silently skipped; any other read or parse failure is fatal.
func (b *Builder) WithFile(path string) *Builder {
	if b.err != nil {
		return b
	}
	src, err := LoadFile(path, PriorityFile)
	if err != nil {
		if !errors.Is(err, ErrFileNotFound) {
			b.err = err
		}
		return b
	}
	return b.AddSource(src)
}

// WithProfiles registers the profile file pair for name under dir, with the
// profile-specific file shadowing the default one. An empty profile loads
// only the defaults.
func (b *Builder) WithProfiles(dir, name, profile string) *Builder {
	if b.err != nil {
		return b
	}
	srcs, err := LoadProfile(dir, name, profile, PriorityFile)
	if err != nil {
		b.err = err
		return b
	}
	for _, s := range srcs {
		b.AddSource(s)
	}
	return b
}

// WithDefaults registers hardcoded fallback values below every other
// source.
func (b *Builder) WithDefaults(values map[string]string) *Builder {
	if b.err != nil {
		return b
	}
	src := NewMapSource("defaults", PriorityDefault).SetAll(values)
	return b.AddSource(src)
}

// Build produces the Environment, or the first error latched during
// assembly.
func (b *Builder) Build() (*Environment, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, s := range b.sources {
		if ms, ok := s.(*MapSource); ok {
			if err := ms.Err(); err != nil {
				return nil, err
			}
		}
	}
	return New(b.sources...), nil
}

// MustBuild is Build for program startup paths where a broken configuration
// should abort.
func (b *Builder) MustBuild() *Environment {
	env, err := b.Build()
	if err != nil {
		panic(err)
	}
	return env
}

// BuildAndScan builds the Environment and immediately decodes the subtree
// at prefix into target.
func (b *Builder) BuildAndScan(prefix string, target any) (*Environment, error) {
	env, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := env.Scan(prefix, target); err != nil {
		return nil, err
	}
	return env, nil
}

// NewDefault builds the conventional application stack: programmatic
// overrides, then command-line args, then APP_-prefixed environment
// variables, then profile files in the working directory, with the active
// profile taken from APP_PROFILE.
func NewDefault(name string) (*Environment, error) {
	profile, _ := os.LookupEnv("APP_PROFILE")
	return NewBuilder().
		WithArgs(os.Args[1:]).
		WithEnv("APP_").
		WithProfiles(".", name, profile).
		Build()
}
