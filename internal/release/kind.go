// Package release cuts a semantic version release: it checks the
// repository, asks for confirmation, bumps the version and pushes.
package release

import (
	"fmt"
	"strings"
)

// Kind is the semantic version component to bump.
type Kind string

const (
	Major Kind = "major"
	Minor Kind = "minor"
	Patch Kind = "patch"
)

// Kinds returns every accepted release kind.
func Kinds() []Kind {
	return []Kind{Major, Minor, Patch}
}

// Usage is the synopsis shown with argument errors.
const Usage = "release -- {major|minor|patch}"

// UsageError reports invalid release arguments.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s: %s", Usage, e.Message)
}

// ParseKind validates a single release kind. Matching is exact.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return "", &UsageError{Message: fmt.Sprintf("invalid choice: %q (choose from %s)", s, kindList())}
}

// ParseArgs extracts the release kind from positional arguments, which
// must hold exactly one value.
func ParseArgs(args []string) (Kind, error) {
	switch len(args) {
	case 0:
		return "", &UsageError{Message: "the following arguments are required: version"}
	case 1:
		return ParseKind(args[0])
	default:
		return "", &UsageError{Message: fmt.Sprintf("unrecognized arguments: %s", strings.Join(args[1:], " "))}
	}
}

func kindList() string {
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
