// Package buildinfo carries build metadata stamped with
//
//	-ldflags "-X clockface/internal/buildinfo.Version=v1.0.0 -X ...Commit=... -X ...Date=..."
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

const shortCommit = 7

// Short is the version for titles and the boot console: the release tag,
// else the abbreviated commit, else "dev".
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return abbrev(Commit)
	}
	return "dev"
}

// Lines describes the build for the about panel, one fact per line.
// Unknown facts are left out.
func Lines() []string {
	lines := []string{"clockface " + Short()}
	if Commit != "" && Commit != "unknown" {
		lines = append(lines, "commit "+abbrev(Commit))
	}
	if Date != "" && Date != "unknown" {
		lines = append(lines, "built "+Date)
	}
	return lines
}

func abbrev(c string) string {
	if len(c) > shortCommit {
		return c[:shortCommit]
	}
	return c
}
