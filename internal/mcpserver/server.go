// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the loaded menu document to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/lineview/internal/apperr"
	"github.com/starford/lineview/internal/document"
	"github.com/starford/lineview/internal/models"
)

// FormatURI identifies the document format resource.
const FormatURI = "lineview://document-format"

// Document is the document behaviour exposed as tools.
type Document interface {
	Snapshot(ctx context.Context) document.Snapshot
	Line(ctx context.Context, index int) (document.LineDetail, error)
	Execute(ctx context.Context, index int, ifMatch string) (*models.Run, error)
	Reload(ctx context.Context) (models.ViewSummary, error)
	Sources() []string
	History(ctx context.Context, limit, offset int) ([]models.Run, int, error)
	SearchHistory(ctx context.Context, query string, limit int) ([]models.Run, error)
}

// Server wraps the MCP server with line-view tools.
type Server struct {
	mcp *server.MCPServer
	doc Document
}

// New creates a new MCP server with all tools registered.
func New(doc Document, version string) *Server {
	s := &Server{doc: doc}

	s.mcp = server.NewMCPServer(
		"lineview",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_view",
		mcp.WithDescription("Read the loaded menu document: title, checksum and every line with its index, "+
			"kind (normal, title, warning), origin file and resolved command arguments."),
	), s.readView)

	s.mcp.AddTool(mcp.NewTool("get_line",
		mcp.WithDescription("Read a single line of the menu document by index."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based line index as returned by read_view")),
	), s.getLine)

	s.mcp.AddTool(mcp.NewTool("execute_line",
		mcp.WithDescription("Start the command attached to a line. The process runs detached; "+
			"the result only reports whether it was spawned. Pass the checksum from read_view "+
			"to refuse execution when the document changed in between."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based line index")),
		mcp.WithString("checksum", mcp.Description("Expected view checksum (optional)")),
	), s.executeLine)

	s.mcp.AddTool(mcp.NewTool("list_sources",
		mcp.WithDescription("List every file read to build the document, root first."),
	), s.listSources)

	s.mcp.AddTool(mcp.NewTool("reload_view",
		mcp.WithDescription("Rebuild the document from its root file and return the new summary."),
	), s.reloadView)

	s.mcp.AddTool(mcp.NewTool("list_history",
		mcp.WithDescription("List previously executed lines, newest first, optionally filtered by a search query."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs (default 20)")),
		mcp.WithNumber("offset", mcp.Description("Number of runs to skip")),
		mcp.WithString("query", mcp.Description("Search line text and arguments")),
	), s.listHistory)

	s.mcp.AddTool(mcp.NewTool("get_document_format",
		mcp.WithDescription("Returns the menu document format: directives, inclusion kinds and scoping rules."),
	), s.getDocumentFormat)

	// Resource: document format.
	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Menu Document Format",
			mcp.WithResourceDescription("Directive reference for line-view menu documents."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDocumentFormatResource,
	)

	return s
}

// Listen serves MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer, errLog *log.Logger) error {
	stdio := server.NewStdioServer(s.mcp)
	if errLog != nil {
		stdio.SetErrorLogger(errLog)
	}
	return stdio.Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readView(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.doc.Snapshot(ctx))
}

func (s *Server) getLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := s.doc.Line(ctx, index)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no line at index %d", index)), nil
	}
	return jsonResult(line)
}

func (s *Server) executeLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	checksum := req.GetString("checksum", "")

	run, err := s.doc.Execute(ctx, index, checksum)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("no line at index %d", index)), nil
	case errors.Is(err, apperr.ErrNoCommand):
		return mcp.NewToolResultError(fmt.Sprintf("line %d has no command", index)), nil
	case errors.Is(err, apperr.ErrConflict):
		return mcp.NewToolResultError("document changed since the checksum was read; call read_view again"), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("started %s (pid %d, run %s)",
		strings.Join(run.Args, " "), run.PID, run.ID)), nil
}

func (s *Server) listSources(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(s.doc.Sources(), "\n")), nil
}

func (s *Server) reloadView(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.doc.Reload(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(summary)
}

func (s *Server) listHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if query := strings.TrimSpace(req.GetString("query", "")); query != "" {
		runs, err := s.doc.SearchHistory(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(runs)
	}

	runs, _, err := s.doc.History(ctx, limit, req.GetInt("offset", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("no runs recorded"), nil
	}
	return jsonResult(runs)
}

func (s *Server) getDocumentFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormat), nil
}

func (s *Server) readDocumentFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     DocumentFormat,
		},
	}, nil
}
