// File: config/doc.go

// Package config provides layered configuration resolution for Go
// applications: ordered property sources with override semantics, recursive
// ${key:default} placeholder expansion, and typed mapping into application
// structures.
//
// Features:
//   - Multiple configuration sources with priority-based precedence
//   - Unified key model across files, environment variables and flags
//     (server.hosts[0].addr == SERVER_HOSTS_0_ADDR == --server.hosts.0.addr)
//   - Recursive placeholder expansion with defaults, escaping and cycle
//     detection
//   - Typed accessors plus a FromEnvironment mapping protocol with
//     required, optional behind defaulted fields, enums and collections
//   - Reflective struct decoding (Scan) via mapstructure
//   - TOML, YAML and JSON file sources with profile shadowing
//     (app-prod.toml over app.toml)
//   - Key description for generating configuration listings
//
// Quick Start:
//
//	env, err := config.NewBuilder().
//	    WithArgs(os.Args[1:]).
//	    WithEnv("APP_").
//	    WithFile("app.toml").
//	    WithDefaults(map[string]string{
//	        "server.port": "8080",
//	        "server.name": "${app.name:demo}-server",
//	    }).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	port, _ := env.Int64("server.port")
//	name, _ := env.Get("server.name")
//
// Default Precedence (highest to lowest):
//  1. Programmatic overrides (Builder.Set)
//  2. Command-line arguments (--server.port=9090)
//  3. Environment variables (APP_SERVER_PORT=9090)
//  4. Configuration files (profile file before default file)
//  5. Default values
//
// Sources at equal priority resolve in registration order, earliest first.
//
// Immutability:
// An Environment is frozen at Build time and safe for concurrent use.
// Applying new configuration means building a new Environment and swapping
// the reference.
package config
