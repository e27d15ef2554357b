package version

// Version of prez. Overwritten at release time via -ldflags.
var Version = "0.19.0"

// Revision is the git revision the binary was built from.
var Revision = "dev"
