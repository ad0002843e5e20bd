package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const defaultHistoryLimit = 10

func (s *Server) handleRunTests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	res, err := s.runner.Run(ctx, pathsArg(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Run failed: %v", err)), nil
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	return jsonResult(res)
}

func (s *Server) handleValidateDefinitions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.runner.Validate(pathsArg(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Validation failed: %v", err)), nil
	}

	invalid := 0
	for _, e := range entries {
		if !e.Valid {
			invalid++
		}
	}
	return jsonResult(map[string]any{
		"total":   len(entries),
		"invalid": invalid,
		"tests":   entries,
	})
}

func (s *Server) handleGetResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		return mcp.NewToolResultText("No test results available. Call run_tests first."), nil
	}
	return jsonResult(last)
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := defaultHistoryLimit
	if v, ok := request.GetArguments()["limit"].(float64); ok {
		if v < 1 {
			return mcp.NewToolResultError("limit must be at least 1"), nil
		}
		limit = int(v)
	}

	header, rows, err := s.history.Read()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read history: %v", err)), nil
	}
	if len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	runs := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		run := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				run[col] = row[i]
			}
		}
		runs = append(runs, run)
	}
	return jsonResult(runs)
}

func (s *Server) handleValidatorStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.status.Status(ctx))
}

func pathsArg(request mcp.CallToolRequest) []string {
	raw, _ := request.GetArguments()["paths"].(string)
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

