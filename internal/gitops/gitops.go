// Package gitops versions a categorizer project with the git CLI so rule
// edits and exported statements have history.
package gitops

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who commits. Empty fields fall back to git's own config.
type Author struct {
	Name  string
	Email string
}

func (a Author) env() []string {
	env := os.Environ()
	if a.Name != "" {
		env = append(env, "GIT_AUTHOR_NAME="+a.Name, "GIT_COMMITTER_NAME="+a.Name)
	}
	if a.Email != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+a.Email, "GIT_COMMITTER_EMAIL="+a.Email)
	}
	return env
}

func git(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = env
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Available reports whether the git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	_, err := git(dir, os.Environ(), "init", "--quiet")
	return err
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages paths (everything when empty) and commits them. It returns
// the short commit hash, or "" when there was nothing to commit.
func CommitAll(dir, message string, author Author, paths ...string) (string, error) {
	env := author.env()

	add := []string{"add", "-A"}
	if len(paths) > 0 {
		add = append(append(add, "--"), paths...)
	}
	if _, err := git(dir, env, add...); err != nil {
		return "", err
	}

	// diff --cached --quiet exits 0 when nothing is staged.
	if _, err := git(dir, env, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}

	if _, err := git(dir, env, "commit", "--quiet", "-m", message); err != nil {
		return "", err
	}
	return git(dir, env, "rev-parse", "--short", "HEAD")
}
