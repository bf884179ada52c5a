package utils

import (
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	gitDescribeCommand = "describe"
)

// buildVersion may be set at link time with -ldflags "-X .../internal/utils.buildVersion=v1.2.3".
var buildVersion string

// GetApplicationVersion reports the version of the running binary. It prefers a
// link-time version, then module build info, then git describe output of the
// enclosing repository.
func GetApplicationVersion() string {
	if buildVersion != "" {
		return buildVersion
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok && buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}
	repositoryRoot, found := findRepositoryRoot(".")
	if !found {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{{"--tags", "--exact-match"}, {"--tags", "--long", "--dirty"}} {
		if version := describeRepository(repositoryRoot, describeArguments...); version != "" {
			return version
		}
	}
	return unknownVersion
}

func describeRepository(repositoryRoot string, arguments ...string) string {
	// #nosec G204
	command := exec.Command(gitExecutableName, append([]string{gitDescribeCommand}, arguments...)...)
	command.Dir = repositoryRoot
	described, err := command.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(described))
}

// findRepositoryRoot walks up from startDirectory to the first directory holding a .git directory.
func findRepositoryRoot(startDirectory string) (string, bool) {
	currentDirectory, err := filepath.Abs(startDirectory)
	if err != nil {
		return "", false
	}
	for {
		if isDirectory(filepath.Join(currentDirectory, GitDirectoryName)) {
			return currentDirectory, true
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", false
		}
		currentDirectory = parentDirectory
	}
}
