package env

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const quoteTriggers = " \t\n\r#\"'\\=$"

// Save writes vars to path in .env format, sorted by key. Values holding
// whitespace or shell/dotenv meta characters are double quoted with
// backslash, quote, dollar and line breaks escaped, so dotenv readers never
// expand variables in them. CRLF is normalized to \n.
// Empty keys are rejected. The file is written with 0600 permissions.
func Save(path string, vars map[string]string) error {
	if len(vars) == 0 {
		return nil
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("env variable name must not be empty")
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, Quote(vars[k]))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create env directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write env file %s: %w", path, err)
	}
	return nil
}

// Quote returns v as it should appear on the right side of KEY=.
func Quote(v string) string {
	if !strings.ContainsAny(v, quoteTriggers) {
		return v
	}
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`$`, `\$`,
		"\r\n", `\n`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return `"` + r.Replace(v) + `"`
}
