// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"
)

const (
	// DefaultMetadataURL is the release-metadata endpoint for the latest release.
	DefaultMetadataURL = "https://api.github.com/repos/cdotrus/orbit/releases/latest"

	// DefaultDownloadBaseURL prefixes every checksum manifest and archive URL.
	DefaultDownloadBaseURL = "https://github.com/cdotrus/orbit/releases"

	defaultUserAgent = "orbit"

	// versionField is the JSON field of the metadata document holding the version.
	versionField = "name"

	// maxJSONResponseBytes is the upper bound on the metadata response (10 MB).
	maxJSONResponseBytes = 10 << 20

	// maxChecksumBytes is the upper bound on the checksum manifest (1 MB).
	maxChecksumBytes = 1 << 20

	// maxArchiveBytes is the upper bound on a release archive (500 MB).
	maxArchiveBytes = 500 << 20
)

var (
	// ErrConnectionFailed is wrapped by ConnectionError and TransportError.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrResponseTooLarge is wrapped by ResponseTooLargeError.
	ErrResponseTooLarge = errors.New("response exceeds the size limit")
)

type (
	// ConnectionError reports a response with a status other than 200 OK.
	ConnectionError struct {
		URL        string
		StatusCode int
	}

	// TransportError reports a request that never produced a response.
	TransportError struct {
		URL string
		Err error
	}

	// ResponseTooLargeError reports a body longer than the limit for its
	// kind of artifact. Release artifacts are never that large, so this is
	// a protocol error rather than something to truncate.
	ResponseTooLargeError struct {
		URL   string
		Limit int64
	}

	// ReleaseClient reads release metadata and downloads release artifacts.
	ReleaseClient struct {
		httpClient      *http.Client
		metadataURL     string
		downloadBaseURL string
		userAgent       string
	}

	// ClientOption configures a ReleaseClient during construction.
	ClientOption func(*ReleaseClient)
)

// Error formats the URL and status for display.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed\n\nurl: %s\nstatus: %d", e.URL, e.StatusCode)
}

// Unwrap returns ErrConnectionFailed so callers can use errors.Is.
func (e *ConnectionError) Unwrap() error { return ErrConnectionFailed }

// Error formats the URL and cause for display.
func (e *TransportError) Error() string {
	return fmt.Sprintf("connection failed\n\nurl: %s\ncause: %v", e.URL, e.Err)
}

// Unwrap returns ErrConnectionFailed and the transport cause.
func (e *TransportError) Unwrap() []error { return []error{ErrConnectionFailed, e.Err} }

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response from %s is larger than %d bytes", e.URL, e.Limit)
}

func (e *ResponseTooLargeError) Unwrap() error { return ErrResponseTooLarge }

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(r *ReleaseClient) {
		r.httpClient = c
	}
}

// WithMetadataURL overrides the release-metadata endpoint, primarily for test servers.
func WithMetadataURL(u string) ClientOption {
	return func(r *ReleaseClient) {
		r.metadataURL = u
	}
}

// WithDownloadBaseURL overrides the artifact base URL, primarily for test servers.
func WithDownloadBaseURL(base string) ClientOption {
	return func(r *ReleaseClient) {
		r.downloadBaseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(r *ReleaseClient) {
		r.userAgent = ua
	}
}

// NewReleaseClient creates a ReleaseClient pointed at the public orbit releases.
func NewReleaseClient(opts ...ClientOption) *ReleaseClient {
	c := &ReleaseClient{
		httpClient:      http.DefaultClient,
		metadataURL:     DefaultMetadataURL,
		downloadBaseURL: DefaultDownloadBaseURL,
		userAgent:       defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestVersion fetches the release-metadata document and parses the version
// held in its "name" field. An absent or unparsable field means the server
// and this client disagree on the protocol and is reported as ErrInvalidVersion.
func (c *ReleaseClient) LatestVersion(ctx context.Context) (*semver.Version, error) {
	body, err := c.get(ctx, c.metadataURL, maxJSONResponseBytes)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: release metadata is not valid JSON", ErrInvalidVersion)
	}
	name := gjson.GetBytes(body, versionField)
	if !name.Exists() || name.Type != gjson.String {
		return nil, fmt.Errorf("%w: release metadata has no %q string field", ErrInvalidVersion, versionField)
	}

	return ParseVersion(name.String())
}

// ChecksumsURL returns the checksum manifest location for v.
func (c *ReleaseClient) ChecksumsURL(v *semver.Version) string {
	return fmt.Sprintf("%s/download/%s/orbit-%s-checksums.txt", c.downloadBaseURL, v, v)
}

// ArchiveURL returns the archive location for v and target.
func (c *ReleaseClient) ArchiveURL(v *semver.Version, target string) string {
	return fmt.Sprintf("%s/download/%s/%s", c.downloadBaseURL, v, ArchiveName(v, target))
}

// FetchChecksums downloads the checksum manifest for v.
func (c *ReleaseClient) FetchChecksums(ctx context.Context, v *semver.Version) ([]byte, error) {
	return c.get(ctx, c.ChecksumsURL(v), maxChecksumBytes)
}

// FetchArchive downloads the whole archive for v and target into memory.
func (c *ReleaseClient) FetchArchive(ctx context.Context, v *semver.Version, target string) ([]byte, error) {
	return c.get(ctx, c.ArchiveURL(v, target), maxArchiveBytes)
}

// ArchiveName returns the deterministic archive filename for v and target,
// e.g. "orbit-1.1.0-x86_64-linux.zip".
func ArchiveName(v *semver.Version, target string) string {
	return fmt.Sprintf("orbit-%s-%s.zip", v, target)
}

// get performs a GET and reads the whole body. A body longer than limit
// bytes is a ResponseTooLargeError.
func (c *ReleaseClient) get(ctx context.Context, reqURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, &ConnectionError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &ResponseTooLargeError{URL: reqURL, Limit: limit}
	}
	return body, nil
}
