package version

// Version is the KLAXON-CORE release version. Overridden at build time:
//
//	go build -ldflags "-X github.com/platformbuilds/klaxon-core/internal/version.Version=v1.3.0"
var Version = "v1.2.0"
