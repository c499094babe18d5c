// Package sandbox confines every file tool operation to a single repository
// root for the lifetime of a session.
package sandbox

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Sandbox resolves caller-supplied relative paths against an immutable
// repository root and rejects anything that would land outside it. It is an
// explicit value passed into every tool rather than process-global state, so
// tests can run several roots side by side.
type Sandbox struct {
	root string
}

// New creates a sandbox rooted at the given absolute directory.
func New(root string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving sandbox root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("sandbox root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox root %s is not a directory", abs)
	}
	return &Sandbox{root: abs}, nil
}

// Root returns the repository root this sandbox is confined to.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve joins the repository root with a caller-supplied relative path.
// The result is normalized with any ".." segments and symlinks bounded by
// the root, so the returned path always satisfies Contains. Absolute inputs
// are reinterpreted as root-relative rather than trusted.
func (s *Sandbox) Resolve(rel string) (string, error) {
	abs, err := securejoin.SecureJoin(s.root, rel)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", rel, err)
	}
	if !s.Contains(abs) {
		return "", fmt.Errorf("path %q escapes the repository root", rel)
	}
	return abs, nil
}

// Contains reports whether abs is the repository root or a descendant of it.
func (s *Sandbox) Contains(abs string) bool {
	cleaned := filepath.Clean(abs)
	if cleaned == s.root {
		return true
	}
	return strings.HasPrefix(cleaned, s.root+string(filepath.Separator))
}

// Rel converts an absolute path inside the sandbox back to its root-relative
// form for display. Paths outside the root are returned unchanged.
func (s *Sandbox) Rel(abs string) string {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs
	}
	return rel
}

// ResolveRepoRoot determines the repository root for a session. With useCwd
// the working directory is used as-is; otherwise the top level of the
// enclosing git working tree is required, and its absence is a startup error.
func ResolveRepoRoot(useCwd bool) (string, error) {
	if useCwd {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining working directory: %w", err)
		}
		return cwd, nil
	}

	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("not inside a git repository; run from a git working tree or pass --use-cwd")
	}
	return strings.TrimSpace(string(out)), nil
}
