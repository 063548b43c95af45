package webhook

import (
	"psdevbot/config"
	"psdevbot/internal/model"
	"psdevbot/pkg/githubapi"
	"psdevbot/pkg/log"
)

// Publisher hands formatted messages to the outbound queue.
type Publisher interface {
	Enqueue(msg model.OutboundMessage) error
}

// Handler processes GitHub webhook deliveries: verification, event
// dispatch, dedup, formatting, and enqueueing.
type Handler struct {
	cfg       *config.Config
	publisher Publisher
	formatter *Formatter
	dedup     *dedupSet
	limiter   *rateLimiter
	l         log.Logger
}

// NewHandler creates a Handler. The GitHub client may be nil when
// metadata enrichment is not configured.
func NewHandler(l log.Logger, cfg *config.Config, publisher Publisher, github *githubapi.Client) *Handler {
	h := &Handler{
		cfg:       cfg,
		publisher: publisher,
		formatter: NewFormatter(cfg.UsernameAliases, github),
		dedup:     newDedupSet(dedupWindow),
		l:         l,
	}
	if cfg.Webhook.RateLimitPerMin > 0 {
		h.limiter = newRateLimiter(cfg.Webhook.RateLimitPerMin)
	}
	return h
}
