package version

// Version is the released version, overridden at build time with
// -ldflags "-X github.com/thomas-vilte/commitformat/internal/version.Version=...".
var Version = "0.1.0"

// FullVersion returns the version with the v prefix.
func FullVersion() string {
	return "v" + Version
}
