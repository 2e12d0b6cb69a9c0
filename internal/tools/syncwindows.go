package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// CreateSyncWindowTool defines the create_sync_window tool schema
var CreateSyncWindowTool = mcp.NewTool("create_sync_window",
	mcp.WithDescription("Creates a sync window. The schedule is either a daily range (HH:MM-HH:MM) or a 5-field cron expression with a duration."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the sync window (DNS-1123 label)."),
	),
	mcp.WithString("schedule",
		mcp.Required(),
		mcp.Description(`The schedule, e.g. "22:00-06:00" or "0 2 * * 6".`),
	),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Whether the window allows or denies syncs: allow or deny."),
	),
	mcp.WithNumber("duration",
		mcp.Description("The window length in minutes; required for cron schedules."),
	),
	mcp.WithString("applications",
		mcp.Description("Comma-separated application name patterns the window scopes to; empty scopes to all."),
	),
	mcp.WithString("projects",
		mcp.Description("Comma-separated project name patterns the window scopes to; empty scopes to all."),
	),
	mcp.WithBoolean("manual_sync",
		mcp.Description("Whether manual syncs stay permitted while the window blocks automated ones (default: false)."),
	),
	mcp.WithString("timezone",
		mcp.Description("IANA timezone the schedule is evaluated in; defaults to the engine timezone."),
	),
)

// HandleCreateSyncWindow returns the create_sync_window handler bound to eng
func HandleCreateSyncWindow(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Sync window name is required"), nil
		}
		w := &gitops.SyncWindow{
			Name:         name,
			Schedule:     request.GetString("schedule", ""),
			Kind:         gitops.WindowKind(request.GetString("kind", "")),
			Duration:     request.GetInt("duration", 0),
			Applications: splitList(request.GetString("applications", "")),
			Projects:     splitList(request.GetString("projects", "")),
			ManualSync:   request.GetBool("manual_sync", false),
			TimeZone:     request.GetString("timezone", ""),
			Enabled:      true,
		}
		created, err := eng.AddSyncWindow(ctx, w)
		if err != nil {
			return errResult("create sync window", err), nil
		}
		return jsonResult(created), nil
	}
}

// UpdateSyncWindowTool defines the update_sync_window tool schema
var UpdateSyncWindowTool = mcp.NewTool("update_sync_window",
	mcp.WithDescription("Updates an existing sync window; omitted parameters keep their current values."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the sync window to update."),
	),
	mcp.WithString("schedule",
		mcp.Description("The new schedule."),
	),
	mcp.WithString("kind",
		mcp.Description("allow or deny."),
	),
	mcp.WithNumber("duration",
		mcp.Description("The window length in minutes."),
	),
	mcp.WithBoolean("manual_sync",
		mcp.Description("Whether manual syncs stay permitted."),
	),
	mcp.WithBoolean("enabled",
		mcp.Description("Whether the window participates in evaluation."),
	),
)

// HandleUpdateSyncWindow returns the update_sync_window handler bound to eng
func HandleUpdateSyncWindow(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Sync window name is required"), nil
		}
		var current *gitops.SyncWindow
		for _, w := range eng.ListSyncWindows() {
			if w.Name == name {
				current = w
				break
			}
		}
		if current == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Sync window %q not found", name)), nil
		}
		current.Schedule = request.GetString("schedule", current.Schedule)
		if kind := request.GetString("kind", ""); kind != "" {
			current.Kind = gitops.WindowKind(kind)
		}
		current.Duration = request.GetInt("duration", current.Duration)
		current.ManualSync = request.GetBool("manual_sync", current.ManualSync)
		current.Enabled = request.GetBool("enabled", current.Enabled)

		updated, err := eng.UpdateSyncWindow(ctx, current)
		if err != nil {
			return errResult("update sync window", err), nil
		}
		return jsonResult(updated), nil
	}
}

// DeleteSyncWindowTool defines the delete_sync_window tool schema
var DeleteSyncWindowTool = mcp.NewTool("delete_sync_window",
	mcp.WithDescription("Deletes a sync window."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the sync window to delete."),
	),
)

// HandleDeleteSyncWindow returns the delete_sync_window handler bound to eng
func HandleDeleteSyncWindow(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Sync window name is required"), nil
		}
		if err := eng.DeleteSyncWindow(ctx, name); err != nil {
			return errResult("delete sync window", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Sync window %q deleted", name)), nil
	}
}

// ListSyncWindowsTool defines the list_sync_windows tool schema
var ListSyncWindowsTool = mcp.NewTool("list_sync_windows",
	mcp.WithDescription("Lists all sync windows."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListSyncWindows returns the list_sync_windows handler bound to eng
func HandleListSyncWindows(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		windows := eng.ListSyncWindows()
		if len(windows) == 0 {
			return mcp.NewToolResultText("No sync windows found"), nil
		}
		return jsonResult(windows), nil
	}
}

// ValidateSyncPolicyTool defines the validate_sync_policy tool schema
var ValidateSyncPolicyTool = mcp.NewTool("validate_sync_policy",
	mcp.WithDescription("Checks whether an application's sync policy is currently valid under the configured sync windows, and which windows are open."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application to validate."),
	),
)

// HandleValidateSyncPolicy returns the validate_sync_policy handler bound to eng
func HandleValidateSyncPolicy(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application name is required"), nil
		}
		res, err := eng.ValidateAppSyncPolicy(name)
		if err != nil {
			return errResult("validate sync policy", err), nil
		}
		active, err := eng.ActiveSyncWindows(name)
		if err != nil {
			return errResult("validate sync policy", err), nil
		}
		activeNames := make([]string, 0, len(active))
		for _, w := range active {
			activeNames = append(activeNames, w.Name)
		}
		return jsonResult(map[string]interface{}{
			"valid":         res.Valid,
			"errors":        res.Errors,
			"warnings":      res.Warnings,
			"activeWindows": activeNames,
		}), nil
	}
}

// splitList parses a comma-separated parameter into a slice, dropping blanks
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
