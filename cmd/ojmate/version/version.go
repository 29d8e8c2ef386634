// Package version provides the build version information
package version

import "runtime/debug"

// Version defines the version of the ojmate daemon
var Version string = "unable to get version"

func init() {
	inf, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	Version = inf.Main.Version
}
