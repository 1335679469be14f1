// Package buildinfo carries version information stamped at build time.
package buildinfo

// Version is injected at build time via -ldflags
// (-X github.com/seuros/gopher-sass/src/buildinfo.Version=v1.2.3).
var Version = "dev"

// UserAgent identifies the splitter in telemetry and LSP server info.
func UserAgent() string {
	return "gopher-sass/" + Version
}
