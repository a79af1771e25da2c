// Package model holds the domain entities shared by the repository layer and
// the memory service: composite identities, the eight entity kinds, and the
// relationships between them.
package model

import "strings"

// GID builds a graph-unique id from a repository name, a branch name and a
// logical id: "repo:branch:logicalId". Logical ids may themselves contain
// colons; callers must use ParseGID (not strings.Split) to invert this.
func GID(repo, branch, logicalID string) string {
	return repo + ":" + branch + ":" + logicalID
}

// RepoGID builds the primary key of a Repository node: "repo:branch".
func RepoGID(repo, branch string) string {
	return repo + ":" + branch
}

// ParseGID splits a GUID into its repo, branch and logical-id components.
// The logical id is everything after the second colon, rejoined verbatim, so
// logical ids containing colons round-trip correctly. ok is false if the
// input has fewer than two colons.
func ParseGID(guid string) (repo, branch, logicalID string, ok bool) {
	parts := strings.SplitN(guid, ":", 3)
	if len(parts) < 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// ParseRepoGID splits a Repository primary key "repo:branch" into its parts.
func ParseRepoGID(repoGID string) (repo, branch string, ok bool) {
	parts := strings.SplitN(repoGID, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
