package config

import (
	"errors"
	"io/fs"
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

// envVarPattern matches ${VAR}, ${VAR:-default} and $VAR
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)(:-([^}]*))?\}|\$([A-Za-z0-9_]+)`)

// ExpandEnv replaces ${VAR} and $VAR with environment variables.
// ${VAR:-default} yields default when VAR is unset or empty.
// Example: "${AG_SHOTS:-/tmp}/screen.png" → "/tmp/screen.png"
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		if m[4] != "" {
			return os.Getenv(m[4])
		}
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return m[3]
	})
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (./.env when none)
// into the process environment. Variables that are already set are kept.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
