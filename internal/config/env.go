package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment is a read-only source of raw configuration values.
// A variable that is set to the empty string is still reported as present.
type Environment interface {
	Lookup(key string) (string, bool)
}

// MapEnvironment serves values from an explicit map.
type MapEnvironment map[string]string

// Lookup implements Environment.
func (m MapEnvironment) Lookup(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

type osEnvironment struct{}

func (osEnvironment) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// OS returns the process environment.
func OS() Environment {
	return osEnvironment{}
}

type layered []Environment

func (l layered) Lookup(key string) (string, bool) {
	for _, env := range l {
		if value, ok := env.Lookup(key); ok {
			return value, true
		}
	}
	return "", false
}

// Layered combines environments; the first one defining a key wins.
func Layered(envs ...Environment) Environment {
	out := make(layered, 0, len(envs))
	for _, env := range envs {
		if env != nil {
			out = append(out, env)
		}
	}
	return out
}

// ReadDotEnv parses the given .env files without modifying the process
// environment. When a key appears in several files the first file wins.
func ReadDotEnv(paths ...string) (MapEnvironment, error) {
	out := MapEnvironment{}
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
		for key, value := range values {
			if _, exists := out[key]; !exists {
				out[key] = value
			}
		}
	}
	return out, nil
}
