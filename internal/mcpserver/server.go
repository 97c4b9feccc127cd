// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the record tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/veldt/opsdesk/internal/models"
	"github.com/veldt/opsdesk/internal/recordservice"
	"github.com/veldt/opsdesk/internal/store"
)

// Server wraps the MCP server with record tools.
type Server struct {
	mcp *server.MCPServer
	svc *recordservice.Service
}

// New creates a new MCP server with all record tools registered.
func New(svc *recordservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"OpsDesk",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search active notes by a term matched against title and body."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Category defaults to General and priority to medium."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("body", mcp.Description("Note body text")),
		mcp.WithString("category", mcp.Description("Category name")),
		mcp.WithString("priority", mcp.Description("Priority: low, medium or high")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("list_incidents",
		mcp.WithDescription("List incident records, optionally filtered by status, severity or type."),
		mcp.WithString("status", mcp.Description("Status filter (open, in-analysis, resolved, closed)")),
		mcp.WithString("severity", mcp.Description("Severity filter (low, medium, high, critical)")),
		mcp.WithString("type", mcp.Description("Type filter (incident, problem, observation, bug, improvement, other)")),
	), s.listIncidents)

	s.mcp.AddTool(mcp.NewTool("critical_incidents",
		mcp.WithDescription("List critical-severity incidents that are still open or in analysis."),
	), s.criticalIncidents)

	s.mcp.AddTool(mcp.NewTool("pending_actions",
		mcp.WithDescription("List incomplete action items across all meeting minutes."),
	), s.pendingActions)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Summary counts: active and archived notes, open and total incidents, total minutes."),
	), s.getStats)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.svc.SearchNotes(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n := models.Note{Title: title}
	if v, err := req.RequireString("body"); err == nil {
		n.Body = v
	}
	if v, err := req.RequireString("category"); err == nil {
		n.Category = v
	}
	if v, err := req.RequireString("priority"); err == nil {
		n.Priority = v
	}
	id, err := s.svc.CreateNote(ctx, n)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created note %d", id)), nil
}

func (s *Server) listIncidents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := store.IncidentFilter{
		Status:   models.FilterAll,
		Severity: models.FilterAll,
		Type:     models.FilterAll,
	}
	if v, err := req.RequireString("status"); err == nil {
		f.Status = v
	}
	if v, err := req.RequireString("severity"); err == nil {
		f.Severity = v
	}
	if v, err := req.RequireString("type"); err == nil {
		f.Type = v
	}
	incidents, err := s.svc.ListIncidents(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(incidents), nil
}

func (s *Server) criticalIncidents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	incidents, err := s.svc.CriticalOpen(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(incidents) == 0 {
		return mcp.NewToolResultText("no critical open incidents"), nil
	}
	return jsonResult(incidents), nil
}

func (s *Server) pendingActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	actions, err := s.svc.PendingActionItems(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(actions) == 0 {
		return mcp.NewToolResultText("no pending action items"), nil
	}
	return jsonResult(actions), nil
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(stats), nil
}
