package version

import (
	"bufio"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/uncaged-coder/echogit/pkg/errors"
)

// Version is the semantic version of this build. The major component is
// bumped whenever peers running different builds can no longer talk to each
// other.
var Version = "0.1.0"

// reportPrefix prefixes the version line printed by the `version` command.
// Peers parse it out of the remote command output.
const reportPrefix = "version="

// Report returns the line printed by the `version` command.
func Report() string {
	return reportPrefix + Version
}

// ParseReport extracts the version from the output of a remote `version`
// command.
func ParseReport(output string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, reportPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, reportPrefix)), nil
		}
	}
	return "", errors.MissingFieldError{Field: "version"}
}

// IsCompatible returns whether a peer running `other` can be synced with.
// Versions are compatible when their major versions match.
func IsCompatible(other string) (bool, error) {
	ownVersion, err := goversion.NewVersion(Version)
	if err != nil {
		return false, errors.WithContext(err, "parse own version")
	}

	otherVersion, err := goversion.NewVersion(other)
	if err != nil {
		return false, errors.WithContext(err, "parse peer version")
	}

	return ownVersion.Segments()[0] == otherVersion.Segments()[0], nil
}
