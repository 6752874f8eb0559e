package ltc

import "fmt"

// Library version.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

// Version returns the library version as "major.minor.patch".
func Version() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}

// VersionIsCompatible reports whether code built against major.minor.patch
// can use this library: the major versions must match and this library must
// be at least as new.
func VersionIsCompatible(major, minor, patch int) bool {
	if major != VersionMajor {
		return false
	}
	if minor != VersionMinor {
		return minor < VersionMinor
	}
	return patch <= VersionPatch
}
