// File: config/placeholder_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveEnv(values map[string]string) *Environment {
	return New(NewMapSource("test", PriorityDefault).SetAll(values))
}

func TestPlaceholderExpansion(t *testing.T) {
	env := resolveEnv(map[string]string{
		"hello":       "world",
		"ref":         "hello",
		"greeting":    "pre-${hello}-post",
		"indirect":    "${${ref}}",
		"defaulted":   "${missing:fallback}",
		"emptydef":    "${missing:}",
		"unused":      "${hello:unused}",
		"nesteddef":   "${missing:${hello}}",
		"versioned":   "${database.name:fallback}-v1",
		"escaped":     `\${hello}`,
		"dollar":      "cost: 5$",
		"stray-brace": "a}b",
		"broken":      "${missing}",
		"deep":        "${greeting}!",
	})

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"Plain", "hello", "world"},
		{"Reference", "greeting", "pre-world-post"},
		{"NestedKey", "indirect", "world"},
		{"DefaultTaken", "defaulted", "fallback"},
		{"EmptyDefault", "emptydef", ""},
		{"DefaultIgnoredWhenPresent", "unused", "world"},
		{"PlaceholderInDefault", "nesteddef", "world"},
		{"DefaultWithSuffix", "versioned", "fallback-v1"},
		{"EscapedPlaceholder", "escaped", "${hello}"},
		{"LiteralDollar", "dollar", "cost: 5$"},
		{"LiteralBrace", "stray-brace", "a}b"},
		{"Transitive", "deep", "pre-world-post!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceholderExpansionIdempotent(t *testing.T) {
	env := resolveEnv(map[string]string{
		"hello": "world",
		"msg":   "${hello} costs 5$ {really}",
	})

	once, err := env.Get("msg")
	require.NoError(t, err)
	assert.Equal(t, "world costs 5$ {really}", once)

	// Feeding a resolved value back through expansion changes nothing.
	twice, err := env.ResolveString(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestPlaceholderMissingReference(t *testing.T) {
	env := resolveEnv(map[string]string{
		"broken": "${missing}",
	})

	_, err := env.Get("broken")
	assert.ErrorIs(t, err, ErrNotFound)

	// The miss propagates even when only part of the value is broken.
	_, err = env.ResolveString("ok-${missing}-ok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceholderCycles(t *testing.T) {
	t.Run("SelfReference", func(t *testing.T) {
		env := resolveEnv(map[string]string{"a": "${a}"})
		_, err := env.Get("a")
		assert.ErrorIs(t, err, ErrCircularReference)
	})

	t.Run("MutualReference", func(t *testing.T) {
		env := resolveEnv(map[string]string{
			"a": "${b}",
			"b": "${a}",
		})
		_, err := env.Get("a")
		assert.ErrorIs(t, err, ErrCircularReference)
		_, err = env.Get("b")
		assert.ErrorIs(t, err, ErrCircularReference)
	})

	t.Run("LongChain", func(t *testing.T) {
		env := resolveEnv(map[string]string{
			"a": "${b}",
			"b": "${c}",
			"c": "${a}",
		})
		_, err := env.Get("a")
		assert.ErrorIs(t, err, ErrCircularReference)
	})

	t.Run("DiamondIsNotACycle", func(t *testing.T) {
		// The same key twice in one value is sharing, not recursion.
		env := resolveEnv(map[string]string{
			"base": "x",
			"pair": "${base}${base}",
		})
		got, err := env.Get("pair")
		require.NoError(t, err)
		assert.Equal(t, "xx", got)
	})

	t.Run("CycleBehindDefault", func(t *testing.T) {
		// A cycle is an error even when a default exists; defaults cover
		// absence, not broken references.
		env := resolveEnv(map[string]string{
			"a": "${a:fallback}",
		})
		_, err := env.Get("a")
		assert.ErrorIs(t, err, ErrCircularReference)
	})
}

func TestPlaceholderSyntaxErrors(t *testing.T) {
	env := resolveEnv(nil)

	for name, raw := range map[string]string{
		"Unterminated":       "${hello",
		"UnterminatedNested": "${a:${b}",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.ResolveString(raw)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestResolveString(t *testing.T) {
	env := resolveEnv(map[string]string{"user": "alice"})

	got, err := env.ResolveString("hi ${user}, ${color:blue} is in")
	require.NoError(t, err)
	assert.Equal(t, "hi alice, blue is in", got)

	// No placeholders, no work.
	got, err = env.ResolveString("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)
}

func TestPlaceholderEscapes(t *testing.T) {
	env := resolveEnv(map[string]string{"v": "1"})

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"EscapedDollar", `\${v}`, "${v}"},
		{"EscapedBackslash", `\\${v}`, `\1`},
		{"EscapedBraces", `\{\}`, "{}"},
		{"EscapedColonInDefault", `${missing:a\:b}`, "a:b"},
		{"BackslashBeforeOther", `c:\tmp`, `c:\tmp`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.ResolveString(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
