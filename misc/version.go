// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set with -ldflags "-X epubdeco/misc.version=... -X epubdeco/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
	appName string
)

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

// GetAppName returns executable name without extension, "decor" if it
// cannot be determined.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	exe, err := os.Executable()
	if err != nil || len(exe) == 0 {
		appName = "decor"
		return appName
	}
	appName = strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	return appName
}
