package webhook

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"psdevbot/config"
	"psdevbot/internal/model"
	"psdevbot/pkg/githubapi"
)

// repoAliases shortens well-known repository names in message output.
var repoAliases = map[string]string{
	"pokemon-showdown":        "server",
	"pokemon-showdown-client": "client",
	"pokemon-showdown-dex":    "dex",
}

var issuePattern = regexp.MustCompile(`#([0-9]+)`)

// Formatter renders webhook events as Showdown messages. The GitHub
// client is optional; without it author links fall back to plain text.
type Formatter struct {
	aliases config.UsernameAliases
	github  *githubapi.Client
}

// NewFormatter creates a Formatter.
func NewFormatter(aliases config.UsernameAliases, github *githubapi.Client) *Formatter {
	return &Formatter{aliases: aliases, github: github}
}

func h(s string) string {
	return html.EscapeString(s)
}

func repoDisplayName(repo model.Repository) string {
	if alias, ok := repoAliases[strings.ToLower(repo.Name)]; ok {
		return alias
	}
	return repo.Name
}

func formatRepository(repo model.Repository) string {
	return fmt.Sprintf("<a href='%s'><font color=FF00FF>%s</font></a>", h(repo.HTMLURL), h(repoDisplayName(repo)))
}

// truncateTitle keeps the first line of a possibly multi-line message,
// marking the cut with an ellipsis.
func truncateTitle(message string) string {
	line, _, multiline := strings.Cut(message, "\n")
	if multiline {
		return line + "…"
	}
	return line
}

// linkIssues rewrites #123 references in already-escaped text into
// issue links under the repository URL.
func linkIssues(escaped, repoURL string) string {
	url := h(repoURL)
	return issuePattern.ReplaceAllStringFunc(escaped, func(ref string) string {
		return fmt.Sprintf("<a href='%s/issues/%s'>%s</a>", url, ref[1:], ref)
	})
}

// renameAction maps raw pull request actions to readable verbs.
func renameAction(action string) string {
	switch action {
	case "synchronize":
		return "updated"
	case "review_requested":
		return "requested a review for"
	default:
		return action
	}
}

// sanitize applies the command-syntax workaround before a message is
// enqueued. Workaround for
// https://github.com/smogon/pokemon-showdown/pull/7611
func sanitize(text string) string {
	return strings.ReplaceAll(text, "here", "her&#101;")
}

// PushMessage renders the HTML notification for a push event.
func (f *Formatter) PushMessage(ctx context.Context, e model.PushEvent) string {
	pushed := "pushed"
	if e.Forced {
		pushed = "<font color='red'>force-pushed</font>"
	}
	plural := "s"
	if len(e.Commits) == 1 {
		plural = ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "addhtmlbox %s <a href='https://github.com/%s'><font color='909090'>%s</font></a> %s <a href='%s'><b>%d</b> new commit%s</a>",
		formatRepository(e.Repository), h(e.Pusher.Name), h(e.Pusher.Name), pushed, h(e.Compare), len(e.Commits), plural)
	for _, commit := range e.Commits {
		b.WriteString("<br>")
		b.WriteString(f.formatCommit(ctx, commit, e.Repository.HTMLURL))
	}
	return b.String()
}

// PushPlain renders the plain-text rendition for simple-format rooms.
func (f *Formatter) PushPlain(e model.PushEvent) string {
	pushed := "pushed"
	if e.Forced {
		pushed = "force-pushed"
	}
	plural := "s"
	if len(e.Commits) == 1 {
		plural = ""
	}
	return fmt.Sprintf("[%s] %s %s %d new commit%s: %s",
		repoDisplayName(e.Repository), e.Pusher.Name, pushed, len(e.Commits), plural, e.Compare)
}

func (f *Formatter) formatCommit(ctx context.Context, commit model.Commit, repoURL string) string {
	id := commit.ID
	if len(id) > 6 {
		id = id[:6]
	}
	formatted := linkIssues(h(truncateTitle(commit.Message)), repoURL)
	return fmt.Sprintf("<a href='%s'><font color=606060><kbd>%s</kbd></font></a> %s: <span title='%s'>%s</span>",
		h(commit.URL), h(id), f.formatAuthor(ctx, commit.Author), h(commit.Message), formatted)
}

func (f *Formatter) formatAuthor(ctx context.Context, author model.Author) string {
	if author.Username == "" {
		return fmt.Sprintf("<font color=909090>%s</font>", h(author.Name))
	}
	display := f.aliases.Get(author.Username)
	inner := fmt.Sprintf("<span title=\"%s\"><font color=909090>%s</font></span>", h(author.Name), h(display))
	if f.github != nil {
		if user, ok := f.github.FetchUser(ctx, author.Username); ok {
			return fmt.Sprintf("<a href='%s'>%s</a>", h(user.HTMLURL), inner)
		}
	}
	return inner
}

// PullRequestMessage renders the HTML notification for a pull request
// event.
func (f *Formatter) PullRequestMessage(e model.PullRequestEvent) string {
	display := f.aliases.Get(e.Sender.Login)
	return fmt.Sprintf("addhtmlbox [%s] <a href='https://github.com/%s'><font color='909090'>%s</font></a> %s pull request <a href='%s'>#%d</a>: %s",
		formatRepository(e.Repository), h(e.Sender.Login), h(display), renameAction(e.Action),
		h(e.PullRequest.HTMLURL), e.PullRequest.Number, h(truncateTitle(e.PullRequest.Title)))
}

// PullRequestPlain renders the plain-text rendition for simple-format
// rooms.
func (f *Formatter) PullRequestPlain(e model.PullRequestEvent) string {
	return fmt.Sprintf("[%s] %s %s pull request #%d: %s %s",
		repoDisplayName(e.Repository), f.aliases.Get(e.Sender.Login), renameAction(e.Action),
		e.PullRequest.Number, truncateTitle(e.PullRequest.Title), e.PullRequest.HTMLURL)
}
