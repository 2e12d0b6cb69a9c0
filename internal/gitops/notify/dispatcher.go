// Package notify matches domain events against channel triggers and records
// every dispatch attempt. Delivery itself is the transport's concern.
package notify

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external"
	"github.com/devcanvas-labs/argocd-emulator/internal/logging"
)

// Dispatcher fans domain events out to matching channels
type Dispatcher struct {
	transport external.NotificationTransport
	clock     clockwork.Clock
	log       *logrus.Entry

	mu      sync.Mutex
	records []gitops.DispatchRecord
}

// NewDispatcher returns a dispatcher delivering through transport and
// timestamping records with clock
func NewDispatcher(transport external.NotificationTransport, clock clockwork.Clock) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		clock:     clock,
		log:       logging.WithField("component", "dispatcher"),
	}
}

// Dispatch delivers event to every enabled channel with a matching trigger.
// Disabled channels, and channels with no matching trigger, never fire.
// Each attempt is recorded regardless of delivery outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, channels []*gitops.NotificationChannel, event gitops.Event, evctx map[string]string) []gitops.DispatchRecord {
	var fired []gitops.DispatchRecord
	for _, ch := range channels {
		if !ch.Enabled || !Matches(ch, event, evctx) {
			continue
		}
		rec := gitops.DispatchRecord{
			ID:      uuid.NewString(),
			Channel: ch.Name,
			Event:   event,
			At:      d.clock.Now(),
			Context: evctx,
		}
		if err := d.transport.Send(ctx, ch, event, evctx); err != nil {
			rec.OK = false
			rec.Error = err.Error()
			d.log.WithFields(logrus.Fields{
				"channel": ch.Name,
				"event":   event,
			}).WithError(err).Warn("Notification delivery failed")
		} else {
			rec.OK = true
			d.log.WithFields(logrus.Fields{
				"channel": ch.Name,
				"event":   event,
			}).Debug("Notification delivered")
		}
		d.record(rec)
		fired = append(fired, rec)
	}
	return fired
}

func (d *Dispatcher) record(rec gitops.DispatchRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, rec)
}

// Records returns a copy of all dispatch records, oldest first
func (d *Dispatcher) Records() []gitops.DispatchRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gitops.DispatchRecord(nil), d.records...)
}

// Matches reports whether any trigger of the channel fires for the event.
// A trigger fires when its event matches and its condition, if any, holds.
func Matches(ch *gitops.NotificationChannel, event gitops.Event, evctx map[string]string) bool {
	for _, tr := range ch.Triggers {
		if tr.Event != event {
			continue
		}
		if tr.Condition == "" || evalCondition(tr.Condition, evctx) {
			return true
		}
	}
	return false
}

// evalCondition evaluates the comma-separated "key=value" AND-list dialect; a
// bare key means "present and non-empty"
func evalCondition(cond string, evctx map[string]string) bool {
	for _, clause := range strings.Split(cond, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		key, want, hasValue := strings.Cut(clause, "=")
		got, ok := evctx[strings.TrimSpace(key)]
		if !hasValue {
			if !ok || got == "" {
				return false
			}
			continue
		}
		if !ok || got != strings.TrimSpace(want) {
			return false
		}
	}
	return true
}

// ValidateChannel checks the channel's typed config at construction time:
// exactly the variant matching the channel type must be set and complete.
func ValidateChannel(ch *gitops.NotificationChannel) *errors.ValidationResult {
	res := errors.OK()

	switch ch.Type {
	case gitops.ChannelSlack:
		if ch.Config.Slack == nil || ch.Config.Slack.Token == "" || ch.Config.Slack.Channel == "" {
			res.AddError("slack channel requires config.slack.token and config.slack.channel")
		}
	case gitops.ChannelEmail:
		if ch.Config.Email == nil || ch.Config.Email.SMTPHost == "" || len(ch.Config.Email.Recipients) == 0 {
			res.AddError("email channel requires config.email.smtpHost and at least one recipient")
		}
	case gitops.ChannelPagerDuty:
		if ch.Config.PagerDuty == nil || ch.Config.PagerDuty.RoutingKey == "" {
			res.AddError("pagerduty channel requires config.pagerduty.routingKey")
		}
	case gitops.ChannelWebhook:
		if ch.Config.Webhook == nil || ch.Config.Webhook.URL == "" {
			res.AddError("webhook channel requires config.webhook.url")
		}
	case gitops.ChannelOpsgenie:
		if ch.Config.Opsgenie == nil || ch.Config.Opsgenie.APIKey == "" {
			res.AddError("opsgenie channel requires config.opsgenie.apiKey")
		}
	case gitops.ChannelMSTeams:
		if ch.Config.MSTeams == nil || ch.Config.MSTeams.WebhookURL == "" {
			res.AddError("msteams channel requires config.msteams.webhookUrl")
		}
	default:
		res.AddError("unknown channel type %q", ch.Type)
	}

	for i, tr := range ch.Triggers {
		if tr.Event == "" {
			res.AddError("trigger %d has no event", i)
		}
	}
	return res
}
