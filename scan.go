// File: config/scan.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the resolved subtree at prefix into target, a pointer to a
// struct tagged with `toml` field names. Every leaf is fully
// placeholder-expanded before decoding; indexed keys become slices and
// nested keys become nested structs or maps. This is the reflective
// alternative to implementing FromEnvironment by hand.
func (e *Environment) Scan(prefix string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	root, err := ParseKey(prefix)
	if err != nil {
		return err
	}

	r := newResolver(e)
	var nested any
	for _, k := range e.Keys(root) {
		rel := k.segs[len(root.segs):]
		if len(rel) == 0 {
			continue
		}
		v, found, err := r.lookup(k)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		nested = setNested(nested, rel, v)
	}

	section, ok := nested.(map[string]any)
	if !ok {
		if nested == nil {
			section = make(map[string]any)
		} else {
			return fmt.Errorf("key %q refers to non-map value (type %T)", prefix, nested)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		DecodeHook:       scanDecodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	if err := decoder.Decode(section); err != nil {
		return fmt.Errorf("decode failed for key %q: %w", prefix, err)
	}
	return nil
}

// setNested inserts value into a nested map/slice structure at the path
// given by segs, creating intermediate containers as needed. Index segments
// grow []any containers; gaps stay nil and decode to zero values.
func setNested(container any, segs []segment, value string) any {
	if len(segs) == 0 {
		return value
	}
	s := segs[0]
	if s.index >= 0 {
		slice, _ := container.([]any)
		for len(slice) <= s.index {
			slice = append(slice, nil)
		}
		slice[s.index] = setNested(slice[s.index], segs[1:], value)
		return slice
	}
	m, ok := container.(map[string]any)
	if !ok {
		m = make(map[string]any)
	}
	m[s.name] = setNested(m[s.name], segs[1:], value)
	return m
}

func scanDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),
		stringToDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToDurationHookFunc accepts unit-suffixed durations and bare-integer
// seconds, matching parseDuration.
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		return parseDuration(data.(string))
	}
}

// stringToNetIPHookFunc handles net.IP conversion.
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion.
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion.
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
