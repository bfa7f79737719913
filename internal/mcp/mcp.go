// Package mcp implements the Model Context Protocol server for taskboard.
//
// It exposes the task list over MCP stdio so any agent can read and edit the
// same tasks the HTTP API serves.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Gentleman-Programming/taskboard/internal/app"
	"github.com/Gentleman-Programming/taskboard/internal/store"
	"github.com/Gentleman-Programming/taskboard/internal/tasks"
)

var version = "0.1.0"

func NewServer(svc *tasks.Service) *server.MCPServer {
	srv := server.NewMCPServer(
		"taskboard",
		version,
		server.WithToolCapabilities(true),
	)

	registerTools(srv, svc)
	return srv
}

func registerTools(srv *server.MCPServer, svc *tasks.Service) {
	// ─── task_list ───────────────────────────────────────────────────
	srv.AddTool(
		mcp.NewTool("task_list",
			mcp.WithDescription("List tasks, newest first. Use filter to show only active or completed tasks."),
			mcp.WithString("filter",
				mcp.Description("all, active or completed (default: all)"),
			),
		),
		handleList(svc),
	)

	// ─── task_get ────────────────────────────────────────────────────
	srv.AddTool(
		mcp.NewTool("task_get",
			mcp.WithDescription("Get one task with its full description."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Task ID"),
			),
		),
		handleGet(svc),
	)

	// ─── task_create ─────────────────────────────────────────────────
	srv.AddTool(
		mcp.NewTool("task_create",
			mcp.WithDescription("Create a new task. New tasks start not completed."),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Short title; surrounding whitespace is trimmed"),
			),
			mcp.WithString("description",
				mcp.Description("Optional details"),
			),
		),
		handleCreate(svc),
	)

	// ─── task_update ─────────────────────────────────────────────────
	srv.AddTool(
		mcp.NewTool("task_update",
			mcp.WithDescription("Replace a task's title and description. The completed flag is kept unless you pass it."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Task ID"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("New title"),
			),
			mcp.WithString("description",
				mcp.Description("New description (default: empty)"),
			),
			mcp.WithBoolean("completed",
				mcp.Description("New completed flag (default: unchanged)"),
			),
		),
		handleUpdate(svc),
	)

	// ─── task_toggle ─────────────────────────────────────────────────
	srv.AddTool(
		mcp.NewTool("task_toggle",
			mcp.WithDescription("Mark a task completed or not completed."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Task ID"),
			),
			mcp.WithBoolean("completed",
				mcp.Required(),
				mcp.Description("true to complete, false to reopen"),
			),
		),
		handleToggle(svc),
	)

	// ─── task_delete ─────────────────────────────────────────────────
	srv.AddTool(
		mcp.NewTool("task_delete",
			mcp.WithDescription("Delete a task permanently. Deleted IDs are never reused."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Task ID"),
			),
		),
		handleDelete(svc),
	)

	// ─── task_stats ──────────────────────────────────────────────────
	srv.AddTool(
		mcp.NewTool("task_stats",
			mcp.WithDescription("Show how many tasks exist and how many are still active."),
		),
		handleStats(svc),
	)
}

func handleList(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, _ := req.GetArguments()["filter"].(string)
		filter, err := app.FilterFromString(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		list, err := svc.List()
		if err != nil {
			return mcp.NewToolResultError("Failed to list tasks: " + err.Error()), nil
		}

		var b strings.Builder
		shown := 0
		for _, t := range list {
			if !filter.Match(t) {
				continue
			}
			shown++
			fmt.Fprintf(&b, "%s #%d %s\n", checkbox(t.Completed), t.ID, t.Title)
			if t.Description != "" {
				fmt.Fprintf(&b, "    %s\n", truncate(t.Description, 200))
			}
		}
		if shown == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No %s tasks found", filter)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("%d %s tasks:\n\n%s", shown, filter, b.String())), nil
	}
}

func handleGet(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(intArg(req, "id", 0))
		if id == 0 {
			return mcp.NewToolResultError("id is required"), nil
		}

		t, err := svc.Get(id)
		if err != nil {
			return toolError("get", id, err), nil
		}
		return mcp.NewToolResultText(formatTask(t)), nil
	}
}

func handleCreate(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, _ := req.GetArguments()["title"].(string)
		description, _ := req.GetArguments()["description"].(string)

		t, err := svc.Create(tasks.CreateInput{Title: title, Description: description})
		if err != nil {
			return toolError("create", 0, err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Created task #%d %q", t.ID, t.Title)), nil
	}
}

func handleUpdate(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(intArg(req, "id", 0))
		if id == 0 {
			return mcp.NewToolResultError("id is required"), nil
		}
		title, _ := req.GetArguments()["title"].(string)
		description, _ := req.GetArguments()["description"].(string)

		completed, ok := boolArg(req, "completed")
		if !ok {
			current, err := svc.Get(id)
			if err != nil {
				return toolError("update", id, err), nil
			}
			completed = current.Completed
		}

		t, err := svc.Update(id, tasks.UpdateInput{
			Title:       &title,
			Description: &description,
			Completed:   &completed,
		})
		if err != nil {
			return toolError("update", id, err), nil
		}
		return mcp.NewToolResultText("Updated task\n\n" + formatTask(t)), nil
	}
}

func handleToggle(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(intArg(req, "id", 0))
		if id == 0 {
			return mcp.NewToolResultError("id is required"), nil
		}

		in := tasks.PatchInput{}
		if completed, ok := boolArg(req, "completed"); ok {
			in.Completed = &completed
		}

		t, err := svc.SetCompleted(id, in)
		if err != nil {
			return toolError("update", id, err), nil
		}
		state := "active"
		if t.Completed {
			state = "completed"
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task #%d is now %s", t.ID, state)), nil
	}
}

func handleDelete(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(intArg(req, "id", 0))
		if id == 0 {
			return mcp.NewToolResultError("id is required"), nil
		}

		if _, err := svc.Delete(id); err != nil {
			return toolError("delete", id, err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task #%d deleted", id)), nil
	}
}

func handleStats(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := svc.Stats()
		if err != nil {
			return mcp.NewToolResultError("Failed to get stats: " + err.Error()), nil
		}

		result := fmt.Sprintf("Task Stats:\n- Total: %d\n- Active: %d\n- Completed: %d",
			stats.Total, stats.Active, stats.Completed)
		return mcp.NewToolResultText(result), nil
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func toolError(op string, id int64, err error) *mcp.CallToolResult {
	switch {
	case tasks.IsValidation(err):
		return mcp.NewToolResultError(err.Error())
	case tasks.IsNotFound(err):
		return mcp.NewToolResultError(fmt.Sprintf("Task #%d not found", id))
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s task: %s", op, err))
}

func formatTask(t *store.Task) string {
	out := fmt.Sprintf("%s #%d %s\nCreated: %s", checkbox(t.Completed), t.ID, t.Title, t.CreatedAt)
	if t.Description != "" {
		out += "\n\n" + t.Description
	}
	return out
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

func boolArg(req mcp.CallToolRequest, key string) (bool, bool) {
	v, ok := req.GetArguments()[key].(bool)
	return v, ok
}

// truncate cuts s to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
