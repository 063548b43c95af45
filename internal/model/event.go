package model

import "strings"

// Repository identifies the repository a webhook event originates from.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
}

// PushEvent is the GitHub push event payload, reduced to the fields
// needed for message formatting.
type PushEvent struct {
	Ref        string     `json:"ref"`
	Forced     bool       `json:"forced"`
	Commits    []Commit   `json:"commits"`
	Compare    string     `json:"compare"`
	Pusher     Pusher     `json:"pusher"`
	Repository Repository `json:"repository"`
}

// Branch returns the branch name from the event's ref
// (refs/heads/master → master).
func (e PushEvent) Branch() string {
	if i := strings.LastIndex(e.Ref, "/"); i >= 0 {
		return e.Ref[i+1:]
	}
	return e.Ref
}

// Commit is a single commit within a push event.
type Commit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  Author `json:"author"`
	URL     string `json:"url"`
}

// Author is a commit author. Username is empty when the commit is not
// linked to a GitHub account.
type Author struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Pusher is the account that performed a push.
type Pusher struct {
	Name string `json:"name"`
}

// PullRequestEvent is the GitHub pull_request event payload.
type PullRequestEvent struct {
	Action      string      `json:"action"`
	PullRequest PullRequest `json:"pull_request"`
	Repository  Repository  `json:"repository"`
	Sender      Sender      `json:"sender"`
}

// PullRequest carries the fields of a pull request used in messages.
type PullRequest struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
}

// Sender is the account that triggered an event.
type Sender struct {
	Login string `json:"login"`
}
