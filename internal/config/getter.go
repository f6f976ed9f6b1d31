package config

import (
	"os"
	"strings"
)

// Configuration keys consulted for StatusCake credentials. Both the dotted and
// the colon separated spelling are accepted and are looked up in that order.
const (
	KeyAPIKey        = "statuscake.api_key"
	KeyAPIKeyColon   = "statuscake:api_key"
	KeyUsername      = "statuscake.username"
	KeyUsernameColon = "statuscake:username"
)

// Getter looks up a configuration value by key.
type Getter interface {
	Get(key string) (string, bool)
}

// GetterFunc adapts a function to Getter.
type GetterFunc func(key string) (string, bool)

func (f GetterFunc) Get(key string) (string, bool) {
	return f(key)
}

// Map is a static Getter, mostly useful in tests.
type Map map[string]string

func (m Map) Get(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Env resolves keys through environment variables. Keys are normalized to
// the dotted spelling before the lookup.
type Env map[string]string

func (e Env) Get(key string) (string, bool) {
	name, ok := e[normalizeKey(key)]
	if !ok {
		return "", false
	}
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Chain returns the first value found by any of the getters.
type Chain []Getter

func (c Chain) Get(key string) (string, bool) {
	for _, g := range c {
		if g == nil {
			continue
		}
		if v, ok := g.Get(key); ok {
			return v, true
		}
	}
	return "", false
}

// Lookup tries each key in order and returns the first non-empty value.
func Lookup(g Getter, keys ...string) (string, bool) {
	if g == nil {
		return "", false
	}
	for _, k := range keys {
		if v, ok := g.Get(k); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(key, ":", ".")
}
