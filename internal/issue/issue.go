// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	DirectoryNotFoundId
	HomeUndetectableId
	NoIPDetectedId
	ConnectionFailedId
	UnsupportedTargetId
	ChecksumMismatchId
	CorruptPackageId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation pages for this issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue's guidance rendered for the terminal using the
// glamour style at stylePath (e.g. "auto", "dark", "notty").
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

One of the configuration documents could not be parsed.

## Configuration file locations (in order of precedence):
1. ` + "`<ip root>/.orbit/config.toml`" + ` (local, only inside an IP)
2. ` + "`$ORBIT_HOME/config.toml`" + ` (global)

## Things you can try:
- Check the file named in the error for TOML syntax errors
- Remove unknown keys; only ` + "`include`, `[general]`, `[env]`, `[[plugin]]` and `[[protocol]]`" + ` are accepted
- Move the file aside to fall back to defaults`,
		docLinks: []HttpLink{"https://cdotrus.github.io/orbit/reference/configuration.html"},
	}

	directoryNotFoundIssue = &Issue{
		id: DirectoryNotFoundId,
		mdMsg: `
# Directory override does not exist!

An ` + "`ORBIT_*`" + ` directory variable points at a path that is not an existing directory.

## Things you can try:
- Create the directory:
~~~
$ mkdir -p "$ORBIT_CACHE"
~~~

- Or unset the variable to use the default under ` + "`$ORBIT_HOME`" + `:
~~~
$ unset ORBIT_CACHE
~~~`,
		docLinks: []HttpLink{"https://cdotrus.github.io/orbit/reference/environment.html"},
	}

	homeUndetectableIssue = &Issue{
		id: HomeUndetectableId,
		mdMsg: `
# Home directory not found!

orbit could not determine your user's home directory, so it has no default
location for ` + "`.orbit`" + `.

## Things you can try:
- Point orbit at an existing directory:
~~~
$ export ORBIT_HOME=/path/to/orbit-home
~~~`,
	}

	noIPDetectedIssue = &Issue{
		id: NoIPDetectedId,
		mdMsg: `
# No IP detected!

This command must run inside an IP, but no ` + "`Orbit.toml`" + ` was found in the
current directory or any of its parents.

## Things you can try:
- Change into the IP's directory (or any directory below it)
- Create a manifest for a new IP:
~~~
$ orbit init
~~~`,
	}

	connectionFailedIssue = &Issue{
		id: ConnectionFailedId,
		mdMsg: `
# Connection failed!

A request to the release server did not succeed. orbit does not retry
automatically.

## Things you can try:
- Check your network connection and proxy settings
- Retry the command in a few minutes`,
		extLinks: []HttpLink{"https://www.githubstatus.com"},
	}

	unsupportedTargetIssue = &Issue{
		id: UnsupportedTargetId,
		mdMsg: `
# No pre-compiled binary for this platform!

The latest release does not publish an archive for your architecture and
operating system, so orbit cannot upgrade itself.

## Things you can try:
- Build orbit from source for your platform
- Check the release page for the list of published targets`,
		extLinks: []HttpLink{"https://github.com/cdotrus/orbit/releases"},
	}

	checksumMismatchIssue = &Issue{
		id: ChecksumMismatchId,
		mdMsg: `
# Checksums did not match!

The downloaded archive's SHA-256 digest differs from the published value.
Nothing was installed and your current binary is untouched.

## Things you can try:
- Run the upgrade again; the download may have been corrupted in transit
- If it keeps failing, report it along with both digests`,
		extLinks: []HttpLink{"https://github.com/cdotrus/orbit/issues"},
	}

	corruptPackageIssue = &Issue{
		id: CorruptPackageId,
		mdMsg: `
# Corrupt release package!

The archive passed verification but does not contain the orbit executable at
the expected location. Nothing was installed.

## Things you can try:
- Report the release on the issue tracker
- Install the release manually from the release page`,
		extLinks: []HttpLink{"https://github.com/cdotrus/orbit/issues"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

orbit could not write to the directory holding its executable.

## Things you can try:
- Run the upgrade with elevated privileges:
~~~
$ sudo orbit upgrade
~~~

- Or reinstall orbit into a directory you own`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		directoryNotFoundIssue.Id(): directoryNotFoundIssue,
		homeUndetectableIssue.Id():  homeUndetectableIssue,
		noIPDetectedIssue.Id():      noIPDetectedIssue,
		connectionFailedIssue.Id():  connectionFailedIssue,
		unsupportedTargetIssue.Id(): unsupportedTargetIssue,
		checksumMismatchIssue.Id():  checksumMismatchIssue,
		corruptPackageIssue.Id():    corruptPackageIssue,
		permissionDeniedIssue.Id():  permissionDeniedIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id - b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
