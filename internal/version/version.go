// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version describes the running Userbird build.
package version

import (
	"fmt"
	"runtime"
)

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string `json:"version"`    // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"git_commit"` // Short git commit hash
	BuildTime string `json:"build_time"` // RFC3339 build timestamp
}

// New returns Info with empty fields replaced by "dev" or "unknown".
func New(version, commit, buildTime string) Info {
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	if buildTime == "" {
		buildTime = "unknown"
	}
	return Info{Version: version, GitCommit: commit, BuildTime: buildTime}
}

// String formats the info for the version command.
func (i Info) String() string {
	return fmt.Sprintf("userbird %s (commit: %s, built: %s, %s %s/%s)",
		i.Version, i.GitCommit, i.BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// IsRelease reports whether the build carries a tagged version.
func (i Info) IsRelease() bool {
	return i.Version != "" && i.Version != "dev"
}
