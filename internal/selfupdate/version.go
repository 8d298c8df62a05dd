// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion indicates a version string is not MAJOR.MINOR.PATCH.
var ErrInvalidVersion = errors.New("invalid version")

// ParseVersion parses a strict dotted numeric triple such as "1.2.3".
// A "v" prefix, missing components, pre-release tags, and build metadata
// are all rejected.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return nil, fmt.Errorf("%w %q: only MAJOR.MINOR.PATCH is accepted", ErrInvalidVersion, s)
	}
	return v, nil
}
