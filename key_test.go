// File: config/key_test.go
package config

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		canonical string
		wantErr   bool
	}{
		{"Simple", "port", "port", false},
		{"Nested", "server.host.name", "server.host.name", false},
		{"BracketIndex", "hosts[0].addr", "hosts[0].addr", false},
		{"BareNumericIndex", "hosts.0.addr", "hosts[0].addr", false},
		{"TrailingIndex", "hosts[12]", "hosts[12]", false},
		{"ChainedIndices", "grid[1][2]", "grid[1][2]", false},
		{"Underscore", "max_connections", "max_connections", false},
		{"Dash", "feature-flags.enable-debug", "feature-flags.enable-debug", false},
		{"Empty", "", "", false},
		{"EmptySegment", "server..port", "", true},
		{"LeadingDot", ".server", "", true},
		{"TrailingDot", "server.", "", true},
		{"UnterminatedBracket", "hosts[0", "", true},
		{"NegativeIndex", "hosts[-1]", "", true},
		{"NonNumericIndex", "hosts[x]", "", true},
		{"BadCharacter", "server.p!ort", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ParseKey(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.canonical, k.String())
		})
	}
}

func TestParseKeyNormalization(t *testing.T) {
	// Bracket and bare-numeric spellings are the same key.
	a := MustParseKey("a[0].b")
	b := MustParseKey("a.0.b")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())
}

func TestKeyEnvVar(t *testing.T) {
	tests := []struct {
		key    string
		envVar string
	}{
		{"port", "PORT"},
		{"server.host", "SERVER_HOST"},
		{"hosts[0].addr", "HOSTS_0_ADDR"},
		{"max_connections", "MAX__CONNECTIONS"},
		{"db.pool_size", "DB_POOL__SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.envVar, func(t *testing.T) {
			k := MustParseKey(tt.key)
			assert.Equal(t, tt.envVar, k.EnvVar())

			back, err := KeyFromEnvVar(k.EnvVar())
			require.NoError(t, err)
			assert.True(t, k.Equal(back), "round trip changed %s to %s", k, back)
		})
	}
}

func TestKeyFromEnvVar(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"Simple", "PORT", "port", false},
		{"Nested", "SERVER_HOST", "server.host", false},
		{"Index", "HOSTS_0_ADDR", "hosts[0].addr", false},
		{"EscapedUnderscore", "MAX__CONNECTIONS", "max_connections", false},
		{"MixedCase", "Server_Host", "server.host", false},
		{"Empty", "", "", false},
		{"DanglingSeparator", "SERVER_", "", true},
		{"LeadingSeparator", "_SERVER", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := KeyFromEnvVar(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, k.String())
		})
	}
}

func TestKeyBuilding(t *testing.T) {
	k := MustParseKey("server")
	child := k.Child("hosts").At(2).Child("addr")
	assert.Equal(t, "server.hosts[2].addr", child.String())
	assert.Equal(t, 4, child.Len())

	joined := k.Join(MustParseKey("tls.cert"))
	assert.Equal(t, "server.tls.cert", joined.String())

	// Joining the root key is a no-op in either direction.
	root := Key{}
	assert.True(t, k.Join(root).Equal(k))
	assert.True(t, root.Join(k).Equal(k))
	assert.True(t, root.IsEmpty())
}

func TestKeyHasPrefix(t *testing.T) {
	k := MustParseKey("server.hosts[0].addr")
	assert.True(t, k.HasPrefix(Key{}))
	assert.True(t, k.HasPrefix(MustParseKey("server")))
	assert.True(t, k.HasPrefix(MustParseKey("server.hosts[0]")))
	assert.False(t, k.HasPrefix(MustParseKey("server.hosts[1]")))
	assert.False(t, k.HasPrefix(MustParseKey("client")))
	assert.False(t, MustParseKey("server").HasPrefix(k))
}

func TestKeyLess(t *testing.T) {
	keys := []Key{
		MustParseKey("hosts[10]"),
		MustParseKey("hosts[2]"),
		MustParseKey("zeta"),
		MustParseKey("hosts[2].addr"),
		MustParseKey("alpha"),
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	got := make([]string, len(keys))
	for i, k := range keys {
		got[i] = k.String()
	}
	// Indices order numerically, not lexically.
	assert.Equal(t, []string{"alpha", "hosts[2]", "hosts[2].addr", "hosts[10]", "zeta"}, got)
}

func TestKeyAt(t *testing.T) {
	k := MustParseKey("servers")
	i0, ok := k.At(0).childIndex(k)
	require.True(t, ok)
	assert.Equal(t, 0, i0)

	_, ok = MustParseKey("servers.name").childIndex(k)
	assert.False(t, ok)
	_, ok = k.childIndex(k)
	assert.False(t, ok)
}
