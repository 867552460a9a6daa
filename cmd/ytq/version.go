package main

// Overridden at build time with -ldflags "-X main.version=...".
var version string

func versionString() string {
	if version == "" {
		return "ytq (dev)"
	}
	return "ytq " + version
}
