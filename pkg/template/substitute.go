// Package template expands shell-style variable references in configuration
// text.
package template

import (
	"fmt"
	"os"
	"regexp"
)

var (
	varPattern  = regexp.MustCompile(`\$\{([^}]+)}`)
	exprPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:(:-|:\?|-|\?)(.*))?$`)
)

// Substitute expands variable references in input:
//
//	${VAR}          value, empty when unset
//	${VAR:-default} default when VAR is unset or empty
//	${VAR-default}  default when VAR is unset
//	${VAR:?message} error when VAR is unset or empty
//	${VAR?message}  error when VAR is unset
//
// Values come from vars first, then from the process environment.
func Substitute(input string, vars map[string]string) (string, error) {
	var firstErr error
	out := varPattern.ReplaceAllStringFunc(input, func(match string) string {
		if firstErr != nil {
			return match
		}
		value, err := evaluate(match[2:len(match)-1], vars)
		if err != nil {
			firstErr = err
			return match
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// evaluate resolves the body of one ${...} reference. The operator is the
// first one following the variable name; the rest is taken literally.
func evaluate(expr string, vars map[string]string) (string, error) {
	m := exprPattern.FindStringSubmatch(expr)
	if m == nil {
		return "", fmt.Errorf("invalid variable reference ${%s}", expr)
	}
	name, op, operand := m[1], m[2], m[3]
	value, exists := lookup(name, vars)

	switch op {
	case "":
		return value, nil
	case "-":
		if exists {
			return value, nil
		}
		return operand, nil
	case ":-":
		if value != "" {
			return value, nil
		}
		return operand, nil
	case "?":
		if exists {
			return value, nil
		}
		return "", fmt.Errorf("variable %s is not set: %s", name, operand)
	default: // ":?"
		if value != "" {
			return value, nil
		}
		return "", fmt.Errorf("variable %s is not set or empty: %s", name, operand)
	}
}

func lookup(name string, vars map[string]string) (string, bool) {
	if v, ok := vars[name]; ok {
		return v, true
	}
	return os.LookupEnv(name)
}
