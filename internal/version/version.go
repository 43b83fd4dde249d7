// Package version exposes the build version stamped in via ldflags.
package version

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/pullguard/pullguard/internal/version.version=v1.2.3"
var version = "v0.0.0-dev"

// Value returns the build version string.
func Value() string {
	return version
}
