package version

var (
	// semver and revision are overridden at release time with
	// -ldflags "-X github.com/FomoFactory/fomo-relay/version.semver=... -X ...revision=..."
	semver   = "0.3.0"
	revision = "unknown"
)

// Get returns the release version of the relay
func Get() string {
	return semver
}

// Commit returns the git revision the binary was built from
func Commit() string {
	return revision
}
