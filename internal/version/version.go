// Package version monitors the version of the running server and compares
// schema versions during migration.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service current released version.
// Semver format: major.minor.patch.
var Version = "0.3.1"

// DevVersion is the service current development version.
var DevVersion = "0.3.2"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}

func GetMinorVersion(version string) string {
	versionList := strings.Split(version, ".")
	if len(versionList) < 3 {
		return ""
	}
	return versionList[0] + "." + versionList[1]
}

// canonical prefixes a version with "v" so it is comparable with x/mod/semver.
func canonical(version string) string {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}

func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) >= 0
}

func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) > 0
}

func GetSchemaVersion(mode string) (string, error) {
	currentVersion := GetCurrentVersion(mode)
	minorVersion := GetMinorVersion(currentVersion)
	if minorVersion == "" {
		return "", fmt.Errorf("invalid version %q", currentVersion)
	}
	return minorVersion + ".0", nil
}
