package version

// Set at build time with -ldflags "-X github.com/ChristianF88/crashgrid/version.Version=..."
var (
	Version = "dev"
	Date    = ""
)
