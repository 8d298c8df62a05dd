// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
)

// sha256Hex computes the lowercase hex-encoded SHA256 digest of data.
func sha256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func TestFindChecksum(t *testing.T) {
	t.Parallel()

	linuxHash := sha256Hex([]byte("linux"))
	macHash := sha256Hex([]byte("mac"))

	manifest := strings.Join([]string{
		linuxHash + " orbit-1.1.0-x86_64-linux.zip",
		macHash + "  orbit-1.1.0-aarch64-macos.zip",
		"",
		"not-a-hash orbit-1.1.0-x86_64-windows.zip",
		"garbage line with too many fields",
	}, "\n")

	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  error
	}{
		{name: "single space separator", filename: "orbit-1.1.0-x86_64-linux.zip", want: linuxHash},
		{name: "double space separator", filename: "orbit-1.1.0-aarch64-macos.zip", want: macHash},
		{name: "missing target", filename: "orbit-1.1.0-riscv64-linux.zip", wantErr: ErrAssetNotFound},
		{name: "malformed digest on matched line", filename: "orbit-1.1.0-x86_64-windows.zip", wantErr: ErrMalformedChecksum},
		{name: "prefix of a filename is not a match", filename: "orbit-1.1.0-x86_64", wantErr: ErrAssetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FindChecksum([]byte(manifest), tt.filename)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FindChecksum() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindChecksum() unexpected error: %v", err)
			}
			if got.Encoded() != tt.want {
				t.Errorf("FindChecksum() = %s, want %s", got.Encoded(), tt.want)
			}
			if got.Algorithm() != digest.SHA256 {
				t.Errorf("algorithm = %s, want sha256", got.Algorithm())
			}
		})
	}
}

func TestFindChecksum_UppercaseHexIsNormalized(t *testing.T) {
	t.Parallel()

	hash := sha256Hex([]byte("payload"))
	manifest := strings.ToUpper(hash) + " *orbit-2.0.0-x86_64-linux.zip\n"

	got, err := FindChecksum([]byte(manifest), "orbit-2.0.0-x86_64-linux.zip")
	if err != nil {
		t.Fatalf("FindChecksum() error: %v", err)
	}
	if got.Encoded() != hash {
		t.Errorf("FindChecksum() = %s, want lowercase %s", got.Encoded(), hash)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	data := []byte("release archive bytes")
	good := digest.NewDigestFromEncoded(digest.SHA256, sha256Hex(data))

	t.Run("match", func(t *testing.T) {
		t.Parallel()

		if err := Verify("orbit.zip", data, good); err != nil {
			t.Errorf("Verify() unexpected error: %v", err)
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()

		other := ComputeDigest([]byte("something else"))
		err := Verify("orbit.zip", data, other)
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Fatalf("Verify() error = %v, want ErrChecksumMismatch", err)
		}

		var ce *ChecksumError
		if !errors.As(err, &ce) {
			t.Fatalf("expected *ChecksumError, got %T", err)
		}
		if ce.Computed != good || ce.Expected != other {
			t.Errorf("ChecksumError = %+v", ce)
		}
		msg := err.Error()
		if !strings.Contains(msg, good.Encoded()) || !strings.Contains(msg, other.Encoded()) {
			t.Errorf("message should include both digests: %s", msg)
		}
	})
}

func TestComputeDigest(t *testing.T) {
	t.Parallel()

	// sha256 of the empty input
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := ComputeDigest(nil).Encoded(); got != empty {
		t.Errorf("ComputeDigest(nil) = %s, want %s", got, empty)
	}
}
