// Package git wires semdiff into git as a difftool and diff driver by
// editing the user's global git configuration.
package git

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Install registers the running executable as the "semdiff" git difftool
// and diff driver in the global git config.
func Install() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("determining executable path: %w", err)
	}

	if err := setConfig("difftool.semdiff.cmd", fmt.Sprintf(`%s "$LOCAL" "$REMOTE"`, exe)); err != nil {
		return err
	}
	if err := setConfig("diff.semdiff.command", exe); err != nil {
		return err
	}
	return setConfig("difftool.semdiff.prompt", "false")
}

// Uninstall removes the semdiff entries from the global git config.
// Missing keys are not an error.
func Uninstall() error {
	for _, key := range []string{
		"difftool.semdiff.cmd",
		"difftool.semdiff.prompt",
		"diff.semdiff.command",
	} {
		if err := unsetConfig(key); err != nil {
			return err
		}
	}
	return nil
}

// Status writes the current semdiff git configuration to w and reports
// whether any of it is present.
func Status(w io.Writer) (bool, error) {
	fmt.Fprintln(w, "Git semdiff configuration status:")
	fmt.Fprintln(w)

	configured := false
	for _, key := range []string{
		"difftool.semdiff.cmd",
		"difftool.semdiff.prompt",
		"diff.semdiff.command",
	} {
		value, err := getConfig(key)
		if err != nil {
			fmt.Fprintf(w, "  %s: (not configured)\n", key)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", key, value)
		configured = true
	}

	fmt.Fprintln(w)
	if configured {
		fmt.Fprintln(w, "semdiff is configured as a git difftool.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintln(w, "  git difftool -t semdiff HEAD~1 -- file.json")
	} else {
		fmt.Fprintln(w, "semdiff is not configured. Run 'semdiff git install' to set up.")
	}
	return configured, nil
}

// DetectDiffDriverArgs recognizes git's 7-argument diff driver protocol
// (path old-file old-hex old-mode new-file new-hex new-mode) and returns
// the two temp file paths to compare.
func DetectDiffDriverArgs(args []string) (oldFile, newFile string, ok bool) {
	if len(args) != 7 {
		return "", "", false
	}
	if !isGitHash(args[2]) || !isGitHash(args[5]) {
		return "", "", false
	}
	return args[1], args[4], true
}

// IsNullFile reports whether a path is git's placeholder for a missing
// side (new or deleted file).
func IsNullFile(path string) bool {
	return path == "/dev/null" || path == "nul" || path == "NUL"
}

func isGitHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func setConfig(key, value string) error {
	return runGitConfig("config", "--global", key, value)
}

func unsetConfig(key string) error {
	err := runGitConfig("config", "--global", "--unset", key)
	if err != nil {
		// git exits 5 when the key does not exist.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 5 {
			return nil
		}
	}
	return err
}

func getConfig(key string) (string, error) {
	out, err := exec.Command("git", "config", "--global", "--get", key).Output()
	if err != nil {
		return "", fmt.Errorf("git config --get %s: %w", key, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func runGitConfig(args ...string) error {
	cmd := exec.Command("git", args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), msg, err)
		}
		return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
