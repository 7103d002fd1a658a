// Package config loads validated settings from the environment with a
// fail-open policy: an invalid value falls back to the default, is reported
// as a warning and never aborts startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result is the outcome of loading one setting.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// Load reads envKey, parses it and validates it. An unset or empty variable
// yields def without a warning. A nil validate accepts any parsed value.
func Load[T any](envKey string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, def),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

func parseString(raw string) (string, error) { return raw, nil }

// LoadString loads a string setting.
func LoadString(envKey, def string, validate func(string) error) Result[string] {
	return Load(envKey, def, parseString, validate)
}

// LoadInt loads a base-10 integer setting.
func LoadInt(envKey string, def int, validate func(int) error) Result[int] {
	return Load(envKey, def, strconv.Atoi, validate)
}

// LoadDuration loads a setting in time.ParseDuration syntax.
func LoadDuration(envKey string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(envKey, def, time.ParseDuration, validate)
}

// LoadBool loads a setting accepted by strconv.ParseBool.
func LoadBool(envKey string, def bool) Result[bool] {
	return Load(envKey, def, strconv.ParseBool, nil)
}
