// Package version contains the fasthosts version.
package version

// Version is the fasthosts version.
const Version = "1.0.0"
