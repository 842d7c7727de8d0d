// Package version holds the build version, set with
//
//	go build -ldflags "-X github.com/flowforgelab/pokemon-full-project-sub006/internal/version.Version=v1.2.3"
package version

// Version defaults to "dev".
var Version = "dev"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}
