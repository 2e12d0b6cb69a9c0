package notify

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external/mock"
)

func slackChannel(name string, enabled bool, triggers ...gitops.Trigger) *gitops.NotificationChannel {
	return &gitops.NotificationChannel{
		Name:    name,
		Type:    gitops.ChannelSlack,
		Enabled: enabled,
		Config: gitops.ChannelConfig{
			Slack: &gitops.SlackConfig{Token: "xoxb-test", Channel: "#deploys"},
		},
		Triggers: triggers,
	}
}

func TestDispatchMatchingChannelFires(t *testing.T) {
	transport := external.NewRecordingTransport()
	d := NewDispatcher(transport, clockwork.NewFakeClock())

	ch := slackChannel("deploys", true, gitops.Trigger{Event: gitops.EventSyncSucceeded})
	fired := d.Dispatch(context.Background(), []*gitops.NotificationChannel{ch}, gitops.EventSyncSucceeded, map[string]string{"app": "app-a"})

	require.Len(t, fired, 1)
	assert.True(t, fired[0].OK)
	assert.Equal(t, "deploys", fired[0].Channel)
	require.Len(t, transport.Sent(), 1)
	assert.Equal(t, gitops.EventSyncSucceeded, transport.Sent()[0].Event)
}

func TestDispatchDisabledChannelNeverFires(t *testing.T) {
	transport := external.NewRecordingTransport()
	d := NewDispatcher(transport, clockwork.NewFakeClock())

	ch := slackChannel("deploys", false, gitops.Trigger{Event: gitops.EventSyncSucceeded})
	fired := d.Dispatch(context.Background(), []*gitops.NotificationChannel{ch}, gitops.EventSyncSucceeded, nil)

	assert.Empty(t, fired)
	assert.Empty(t, transport.Sent())
	assert.Empty(t, d.Records())
}

func TestDispatchNoMatchingTrigger(t *testing.T) {
	transport := external.NewRecordingTransport()
	d := NewDispatcher(transport, clockwork.NewFakeClock())

	ch := slackChannel("deploys", true, gitops.Trigger{Event: gitops.EventSyncFailed})
	fired := d.Dispatch(context.Background(), []*gitops.NotificationChannel{ch}, gitops.EventSyncSucceeded, nil)

	assert.Empty(t, fired)
}

func TestDispatchDeliveryFailureIsRecorded(t *testing.T) {
	transport := external.NewRecordingTransport()
	transport.FailChannel("deploys", true)
	d := NewDispatcher(transport, clockwork.NewFakeClock())

	ch := slackChannel("deploys", true, gitops.Trigger{Event: gitops.EventSyncFailed})
	fired := d.Dispatch(context.Background(), []*gitops.NotificationChannel{ch}, gitops.EventSyncFailed, nil)

	require.Len(t, fired, 1)
	assert.False(t, fired[0].OK)
	assert.Contains(t, fired[0].Error, "delivery to deploys failed")
	// the failed attempt is still part of the audit trail
	assert.Len(t, d.Records(), 1)
}

func TestDispatchWithMockTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mock.NewMockNotificationTransport(ctrl)
	d := NewDispatcher(transport, clockwork.NewFakeClock())

	ch := slackChannel("deploys", true, gitops.Trigger{Event: gitops.EventHealthDegraded})
	transport.EXPECT().
		Send(gomock.Any(), ch, gitops.EventHealthDegraded, gomock.Any()).
		Return(nil)

	fired := d.Dispatch(context.Background(), []*gitops.NotificationChannel{ch}, gitops.EventHealthDegraded, map[string]string{"app": "app-a"})
	assert.Len(t, fired, 1)
}

func TestEvalCondition(t *testing.T) {
	evctx := map[string]string{"app": "app-a", "project": "prod", "error": ""}

	tests := []struct {
		name string
		cond string
		want bool
	}{
		{name: "equality match", cond: "app=app-a", want: true},
		{name: "equality mismatch", cond: "app=app-b", want: false},
		{name: "and list all match", cond: "app=app-a, project=prod", want: true},
		{name: "and list one mismatch", cond: "app=app-a, project=dev", want: false},
		{name: "bare key present", cond: "project", want: true},
		{name: "bare key empty value", cond: "error", want: false},
		{name: "bare key absent", cond: "cluster", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evalCondition(tt.cond, evctx))
		})
	}
}

func TestMatchesCondition(t *testing.T) {
	ch := slackChannel("deploys", true, gitops.Trigger{Event: gitops.EventSyncFailed, Condition: "project=prod"})

	assert.True(t, Matches(ch, gitops.EventSyncFailed, map[string]string{"project": "prod"}))
	assert.False(t, Matches(ch, gitops.EventSyncFailed, map[string]string{"project": "dev"}))
}

func TestValidateChannel(t *testing.T) {
	tests := []struct {
		name    string
		channel *gitops.NotificationChannel
		valid   bool
	}{
		{
			name:    "valid slack",
			channel: slackChannel("deploys", true),
			valid:   true,
		},
		{
			name: "slack missing token",
			channel: &gitops.NotificationChannel{
				Name: "deploys", Type: gitops.ChannelSlack,
				Config: gitops.ChannelConfig{Slack: &gitops.SlackConfig{Channel: "#deploys"}},
			},
			valid: false,
		},
		{
			name: "slack config absent",
			channel: &gitops.NotificationChannel{
				Name: "deploys", Type: gitops.ChannelSlack,
			},
			valid: false,
		},
		{
			name: "valid webhook",
			channel: &gitops.NotificationChannel{
				Name: "hooks", Type: gitops.ChannelWebhook,
				Config: gitops.ChannelConfig{Webhook: &gitops.WebhookConfig{URL: "https://hooks.example.com"}},
			},
			valid: true,
		},
		{
			name: "valid pagerduty",
			channel: &gitops.NotificationChannel{
				Name: "oncall", Type: gitops.ChannelPagerDuty,
				Config: gitops.ChannelConfig{PagerDuty: &gitops.PagerDutyConfig{RoutingKey: "rk"}},
			},
			valid: true,
		},
		{
			name: "unknown type",
			channel: &gitops.NotificationChannel{
				Name: "carrier-pigeon", Type: "pigeon",
			},
			valid: false,
		},
		{
			name: "trigger without event",
			channel: &gitops.NotificationChannel{
				Name: "deploys", Type: gitops.ChannelSlack,
				Config:   gitops.ChannelConfig{Slack: &gitops.SlackConfig{Token: "t", Channel: "#c"}},
				Triggers: []gitops.Trigger{{}},
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateChannel(tt.channel)
			assert.Equal(t, tt.valid, res.Valid, "errors: %v", res.Errors)
		})
	}
}
