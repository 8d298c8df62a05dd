// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"bufio"
	"bytes"
	_ "crypto/sha256" // registers the hash go-digest resolves for digest.SHA256
	"errors"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
)

var (
	// ErrChecksumMismatch indicates the computed digest differs from the published one.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrAssetNotFound indicates the manifest has no line for the requested filename.
	ErrAssetNotFound = errors.New("asset not found in checksums")

	// ErrMalformedChecksum indicates the manifest line for the requested
	// filename does not hold a SHA-256 hex digest.
	ErrMalformedChecksum = errors.New("malformed checksum")
)

// ChecksumError provides details about a checksum verification failure.
// It wraps ErrChecksumMismatch so callers can use errors.Is for classification.
type ChecksumError struct {
	Filename string
	Computed digest.Digest
	Expected digest.Digest
}

// Error shows both digests as lowercase hex.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksums did not match for %s, please try again\n\ncomputed: %s\nexpected: %s",
		e.Filename, e.Computed.Encoded(), e.Expected.Encoded())
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// FindChecksum scans a checksum manifest for the line naming filename and
// returns its digest. Each line is "<hex> <filename>"; one or more spaces may
// separate the fields, and a leading '*' (sha256sum binary mode) on the name
// is ignored. Only the matching line is validated, so unrelated malformed
// lines do not fail the lookup.
func FindChecksum(manifest []byte, filename string) (digest.Digest, error) {
	scanner := bufio.NewScanner(bytes.NewReader(manifest))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		if strings.TrimPrefix(fields[1], "*") != filename {
			continue
		}

		d := digest.NewDigestFromEncoded(digest.SHA256, strings.ToLower(fields[0]))
		if err := d.Validate(); err != nil {
			return "", fmt.Errorf("%w for %s: %v", ErrMalformedChecksum, filename, err)
		}
		return d, nil
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading checksums: %w", err)
	}

	return "", ErrAssetNotFound
}

// ComputeDigest returns the SHA-256 digest of data.
func ComputeDigest(data []byte) digest.Digest {
	return digest.SHA256.FromBytes(data)
}

// Verify compares the digest of data against expected. It returns a
// *ChecksumError naming filename when they differ.
func Verify(filename string, data []byte, expected digest.Digest) error {
	computed := ComputeDigest(data)
	if computed != expected {
		return &ChecksumError{
			Filename: filename,
			Computed: computed,
			Expected: expected,
		}
	}
	return nil
}
