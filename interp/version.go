package interp

import "golang.org/x/mod/semver"

// Version is the language/runtime version, validated at New. It is a compiled-in constant, so a malformed value here
// means the build is broken, not that the user supplied bad input.
const Version = "v0.1.0"

func checkVersion() error {
	if !semver.IsValid(Version) {
		return internalErrorf("malformed build version %q", Version)
	}
	return nil
}
