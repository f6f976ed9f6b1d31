package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Viper exposes a viper instance as a Getter. Colon separated keys are
// treated as nested paths when no literal key of that name is set.
type Viper struct {
	v *viper.Viper
}

func NewViper(v *viper.Viper) *Viper {
	return &Viper{v: v}
}

func (g *Viper) Get(key string) (string, bool) {
	if g.v.IsSet(key) {
		if s := g.v.GetString(key); s != "" {
			return s, true
		}
	}
	if !strings.Contains(key, ":") {
		return "", false
	}
	path := normalizeKey(key)
	if !g.v.IsSet(path) {
		return "", false
	}
	s := g.v.GetString(path)
	return s, s != ""
}
