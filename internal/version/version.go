// Package version holds the build version, overridable with -ldflags.
package version

var Version = "0.1.0"
