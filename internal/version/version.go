// Package version holds the build version of the service.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/ndewijer/wealth-manager-backend/internal/version.Version=1.2.3".
var Version = "dev"
