package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"psdevbot/config"
	"psdevbot/internal/model"
	"psdevbot/internal/telemetry"
)

// ignoreActions are pull request actions that produce no notification
// and no dedup bookkeeping.
var ignoreActions = []string{
	"ready_for_review",
	"labeled",
	"unlabeled",
	"converted_to_draft",
}

// HandleGitHubWebhook processes one GitHub webhook delivery.
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		c.String(http.StatusBadRequest, "failed to read body")
		return
	}

	// Structural subset parse: only the repository full name, needed
	// to resolve the route (and with it the verification secret).
	var initial struct {
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(body, &initial); err != nil {
		h.l.Warnf(ctx, "Webhook payload is not valid JSON: %v", err)
		c.String(http.StatusBadRequest, "invalid JSON payload")
		return
	}
	route := h.cfg.RouteFor(initial.Repository.FullName)

	if err := VerifySignature(route.Secret, c.GetHeader("X-Hub-Signature-256"), body); err != nil {
		telemetry.SignatureRejections.Inc()
		h.l.Warnf(ctx, "Signature verification failed for %s: %v", initial.Repository.FullName, err)
		c.String(http.StatusUnauthorized, err.Error())
		return
	}

	if h.limiter != nil {
		if err := h.limiter.Allow(initial.Repository.FullName); err != nil {
			h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
			c.String(http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
	}

	event := c.GetHeader("X-GitHub-Event")
	telemetry.EventsReceived.WithLabelValues(event).Inc()
	h.l.Infof(ctx, "Got event %s for %s", event, initial.Repository.FullName)

	switch event {
	case "push":
		h.handlePush(c, route, body)
	case "pull_request":
		h.handlePullRequest(c, route, body)
	default:
		// Accepted and ignored.
		c.Status(http.StatusOK)
	}
}

func (h *Handler) handlePush(c *gin.Context, route config.Route, body []byte) {
	ctx := c.Request.Context()

	var event model.PushEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.l.Warnf(ctx, "Failed to parse push event: %v", err)
		c.String(http.StatusBadRequest, "invalid push payload")
		return
	}

	// Pushes to non-default branches are dropped, not errors.
	if event.Branch() != event.Repository.DefaultBranch {
		c.Status(http.StatusOK)
		return
	}

	htmlMsg := h.formatter.PushMessage(ctx, event)
	plainMsg := h.formatter.PushPlain(event)
	if !h.deliver(c, route, htmlMsg, plainMsg) {
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) handlePullRequest(c *gin.Context, route config.Route, body []byte) {
	ctx := c.Request.Context()

	var event model.PullRequestEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.l.Warnf(ctx, "Failed to parse pull request event: %v", err)
		c.String(http.StatusBadRequest, "invalid pull request payload")
		return
	}

	if slices.Contains(ignoreActions, event.Action) {
		c.Status(http.StatusOK)
		return
	}

	// GitHub delivers several webhooks for one logical PR action;
	// only the first within the window produces a notification.
	if !h.dedup.Insert(event.PullRequest.Number) {
		telemetry.DedupSuppressed.Inc()
		h.l.Infof(ctx, "Suppressing duplicate notification for PR #%d", event.PullRequest.Number)
		c.Status(http.StatusOK)
		return
	}

	htmlMsg := h.formatter.PullRequestMessage(event)
	plainMsg := h.formatter.PullRequestPlain(event)
	if !h.deliver(c, route, htmlMsg, plainMsg) {
		return
	}
	c.Status(http.StatusOK)
}

// deliver enqueues the message for every destination room, choosing
// the plain rendition for simple-format rooms. Reports false after
// responding with an error.
func (h *Handler) deliver(c *gin.Context, route config.Route, htmlMsg, plainMsg string) bool {
	ctx := c.Request.Context()
	for _, room := range route.Rooms {
		var msg model.OutboundMessage
		if route.IsSimple(room) {
			msg = model.Chat(room, sanitize(plainMsg))
		} else {
			msg = model.RoomCommand(room, sanitize(htmlMsg))
		}
		if err := h.publisher.Enqueue(msg); err != nil {
			h.l.Errorf(ctx, "Failed to enqueue message for %s: %v", room, err)
			c.String(http.StatusServiceUnavailable, "outbound queue closed")
			return false
		}
		telemetry.MessagesEnqueued.Inc()
	}
	return true
}
