package deps

import "strings"

// AndroidTargets are the triples used by rust-android-gradle, excluding the
// ones for unit testing.
var AndroidTargets = []string{
	"armv7-linux-androideabi",
	"aarch64-linux-android",
	"i686-linux-android",
	"x86_64-linux-android",
}

// IOSTargets are the triples used when compiling for iOS.
var IOSTargets = []string{
	"x86_64-apple-ios",
	"aarch64-apple-ios",
}

// desktopTargets are the remaining triples we ship on.
var desktopTargets = []string{
	"x86_64-unknown-linux-gnu",
	"x86_64-apple-darwin",
	"x86_64-pc-windows-msvc",
	"x86_64-pc-windows-gnu",
}

// AllTargets returns every target triple we build for. The returned slice
// is a fresh copy; callers may filter it in place.
func AllTargets() []string {
	all := make([]string, 0, len(AndroidTargets)+len(IOSTargets)+len(desktopTargets))
	all = append(all, AndroidTargets...)
	all = append(all, IOSTargets...)
	all = append(all, desktopTargets...)
	return all
}

// IsAndroidTarget reports whether the triple is an android platform.
func IsAndroidTarget(target string) bool {
	return strings.HasSuffix(target, "-android") || strings.HasSuffix(target, "-androideabi")
}

// IsIOSTarget reports whether the triple is an iOS platform.
func IsIOSTarget(target string) bool {
	return strings.HasSuffix(target, "-ios")
}
