package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
)

const Header = "X-Client-Version"

const (
	versionDevel   = "devel"
	versionUnknown = "unknown"
)

// version is set via ldflags at build time.
// falls back to debug.ReadBuildInfo for go install.
var version = versionDevel

var once sync.Once

func Get() string {
	once.Do(func() {
		if version != versionDevel {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if v := info.Main.Version; v != "" && v != "("+versionDevel+")" {
			version = v
		}
	})
	return version
}

// IsDevelopment returns true for versions that should skip compatibility checks.
func IsDevelopment(v string) bool {
	return v == versionDevel || v == versionUnknown || v == "" ||
		strings.Contains(v, "dirty") ||
		strings.Contains(v, "-0.")
}

// ParseMajor extracts the major version number from a semver string.
// Returns "0" for unparseable versions.
func ParseMajor(v string) string {
	major := strings.TrimPrefix(semver.Major(canonical(v)), "v")
	if major == "" {
		return "0"
	}
	return major
}

// IsNewer reports whether latest is a newer release than current.
// Development builds are never considered outdated.
func IsNewer(current, latest string) bool {
	if IsDevelopment(current) {
		return false
	}
	c, l := canonical(current), canonical(latest)
	if !semver.IsValid(c) || !semver.IsValid(l) {
		return false
	}
	return semver.Compare(c, l) < 0
}

type IncompatibleError struct {
	ClientVersion string
	ServerVersion string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("client %s is incompatible with companion %s; major versions must match",
		e.ClientVersion, e.ServerVersion)
}

// CheckCompatibility compares a client's major version with this build's.
func CheckCompatibility(clientVersion string) *IncompatibleError {
	return checkCompatibility(clientVersion, Get())
}

func checkCompatibility(clientVersion, serverVersion string) *IncompatibleError {
	if IsDevelopment(clientVersion) || IsDevelopment(serverVersion) {
		return nil
	}
	if ParseMajor(clientVersion) == ParseMajor(serverVersion) {
		return nil
	}
	return &IncompatibleError{ClientVersion: clientVersion, ServerVersion: serverVersion}
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsHomebrew reports whether the running binary lives in a Homebrew prefix.
func IsHomebrew() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return isHomebrewPath(exe)
}

func isHomebrewPath(p string) bool {
	p = filepath.ToSlash(p)
	return strings.Contains(p, "/Cellar/") || strings.Contains(p, "/homebrew/")
}
