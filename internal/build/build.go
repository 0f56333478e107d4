// Package build holds build-time information.
package build

// Version is the application version, overridable via linker flags.
var Version = "dev"
