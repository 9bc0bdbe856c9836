// Package store persists the user → repository mapping that survives bot
// restarts, so a returning user can update an existing portfolio without
// re-entering everything. Two backends: a JSON file (default) and Redis.
package store

// RepoInfo is one persisted record: which GitHub repository belongs to a
// chat user. Last write wins for a single user's own repeated writes.
type RepoInfo struct {
	GitHubUsername string `json:"github_username"`
	RepoName       string `json:"repo_name"`
}

// RepoStore is the durable mapping of chat user ID to RepoInfo.
type RepoStore interface {
	// Get returns the record for a user. The bool reports presence.
	Get(userID int64) (RepoInfo, bool, error)
	// Put stores or replaces the record for a user.
	Put(userID int64, info RepoInfo) error
	// Delete removes the record for a user. Deleting a missing record is
	// not an error.
	Delete(userID int64) error
}
