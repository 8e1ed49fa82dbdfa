package version

// version is overridden at build time with
// -ldflags "-X visionatrix-exapp/internal/application/version.version=<v>".
var version = "0.0.0"

func GetVersion() string {
	return version
}
