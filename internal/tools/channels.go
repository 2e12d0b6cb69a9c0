package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// CreateChannelTool defines the create_channel tool schema
var CreateChannelTool = mcp.NewTool("create_channel",
	mcp.WithDescription("Creates a notification channel. The config must carry exactly the variant matching the channel type."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the channel (DNS-1123 label)."),
	),
	mcp.WithString("type",
		mcp.Required(),
		mcp.Description("The channel type: slack, email, pagerduty, webhook, opsgenie or msteams."),
	),
	mcp.WithString("config",
		mcp.Required(),
		mcp.Description(`Channel config as a JSON object, e.g. {"slack":{"token":"xoxb-1","channel":"#deploys"}}.`),
	),
	mcp.WithString("triggers",
		mcp.Description(`Triggers as a JSON array, e.g. [{"event":"sync-failed"}]. Empty means the channel receives every event.`),
	),
	mcp.WithBoolean("enabled",
		mcp.Description("Whether the channel receives dispatches. Defaults to true."),
	),
)

// HandleCreateChannel returns the create_channel handler bound to eng
func HandleCreateChannel(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		chType := request.GetString("type", "")
		if name == "" || chType == "" {
			return mcp.NewToolResultError("Channel name and type are required"), nil
		}
		ch := &gitops.NotificationChannel{
			Name:    name,
			Type:    gitops.ChannelType(chType),
			Enabled: request.GetBool("enabled", true),
		}
		if err := parseJSONInto(request.GetString("config", ""), "config", &ch.Config); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := parseJSONInto(request.GetString("triggers", ""), "triggers", &ch.Triggers); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		created, err := eng.AddChannel(ctx, ch)
		if err != nil {
			return errResult("create channel", err), nil
		}
		return jsonResult(created), nil
	}
}

// UpdateChannelTool defines the update_channel tool schema
var UpdateChannelTool = mcp.NewTool("update_channel",
	mcp.WithDescription("Updates a notification channel. Omitted fields keep their current values."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the channel to update."),
	),
	mcp.WithString("config",
		mcp.Description("Replacement channel config as a JSON object."),
	),
	mcp.WithString("triggers",
		mcp.Description("Replacement triggers as a JSON array."),
	),
	mcp.WithBoolean("enabled",
		mcp.Description("Whether the channel receives dispatches."),
	),
)

// HandleUpdateChannel returns the update_channel handler bound to eng
func HandleUpdateChannel(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Channel name is required"), nil
		}
		var current *gitops.NotificationChannel
		for _, ch := range eng.ListChannels() {
			if ch.Name == name {
				current = ch
				break
			}
		}
		if current == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Channel %q not found", name)), nil
		}
		if err := parseJSONInto(request.GetString("config", ""), "config", &current.Config); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := parseJSONInto(request.GetString("triggers", ""), "triggers", &current.Triggers); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		current.Enabled = request.GetBool("enabled", current.Enabled)
		updated, err := eng.UpdateChannel(ctx, current)
		if err != nil {
			return errResult("update channel", err), nil
		}
		return jsonResult(updated), nil
	}
}

// DeleteChannelTool defines the delete_channel tool schema
var DeleteChannelTool = mcp.NewTool("delete_channel",
	mcp.WithDescription("Deletes a notification channel. Past dispatch records are kept."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the channel to delete."),
	),
)

// HandleDeleteChannel returns the delete_channel handler bound to eng
func HandleDeleteChannel(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Channel name is required"), nil
		}
		if err := eng.DeleteChannel(ctx, name); err != nil {
			return errResult("delete channel", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Channel %q deleted", name)), nil
	}
}

// ListChannelsTool defines the list_channels tool schema
var ListChannelsTool = mcp.NewTool("list_channels",
	mcp.WithDescription("Lists all notification channels."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListChannels returns the list_channels handler bound to eng
func HandleListChannels(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		channels := eng.ListChannels()
		if len(channels) == 0 {
			return mcp.NewToolResultText("No channels found"), nil
		}
		return jsonResult(channels), nil
	}
}

// ListDispatchesTool defines the list_dispatches tool schema
var ListDispatchesTool = mcp.NewTool("list_dispatches",
	mcp.WithDescription("Lists the notification dispatch audit trail, newest first."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListDispatches returns the list_dispatches handler bound to eng
func HandleListDispatches(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records := eng.ListDispatches()
		if len(records) == 0 {
			return mcp.NewToolResultText("No dispatches recorded"), nil
		}
		return jsonResult(records), nil
	}
}
