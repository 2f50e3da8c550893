// Package misc keeps build time information.
package misc

// Set by linker flags at build time (see Taskfile.yml).
var (
	appName = "themec"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
