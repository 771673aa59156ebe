package config

import (
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Snapshot is a frozen copy of a set of settings.
// Components receive one instead of reading viper directly, so a running query
// is not affected by a concurrent "config set".
type Snapshot struct {
	values map[string]any
}

// Take copies the current values of keys out of viper.
func Take(keys ...string) Snapshot {
	return Snapshot{values: lo.SliceToMap(keys, func(k string) (string, any) {
		return k, viper.Get(k)
	})}
}

// SnapshotOf builds a snapshot from literal values.
func SnapshotOf(values map[string]any) Snapshot {
	return Snapshot{values: lo.Assign(values)}
}

// With returns a copy of the snapshot with key set to value.
func (s Snapshot) With(key string, value any) Snapshot {
	return Snapshot{values: lo.Assign(s.values, map[string]any{key: value})}
}

// Has reports whether the snapshot carries a value for key.
func (s Snapshot) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s Snapshot) String(key string) string {
	return cast.ToString(s.values[key])
}

func (s Snapshot) Bool(key string) bool {
	return cast.ToBool(s.values[key])
}

func (s Snapshot) Int(key string) int {
	return cast.ToInt(s.values[key])
}

func (s Snapshot) Strings(key string) []string {
	return cast.ToStringSlice(s.values[key])
}
