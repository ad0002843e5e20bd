package agent

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"fut/internal/checker"
	"fut/internal/report"
	"fut/internal/runner"
	"fut/pkg/logging"
)

// BatchRunner runs and validates definitions.
type BatchRunner interface {
	Run(ctx context.Context, args []string) (*runner.Result, error)
	Validate(args []string) ([]report.Entry, error)
}

var _ BatchRunner = (*runner.Runner)(nil)

// StatusProvider reports on the validator installation.
type StatusProvider interface {
	Status(ctx context.Context) checker.Status
}

// Server wraps the runner and exposes it via MCP.
type Server struct {
	mcpServer *server.MCPServer
	runner    BatchRunner
	status    StatusProvider
	history   report.History

	// runs are serialized; the validator reports of concurrent runs would collide
	runMu sync.Mutex

	mu   sync.RWMutex
	last *runner.Result
}

// NewServer creates an MCP server with all tools registered.
func NewServer(version string, r BatchRunner, status StatusProvider, history report.History) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"fut",
			version,
			server.WithToolCapabilities(false),
		),
		runner:  r,
		status:  status,
		history: history,
	}
	s.registerTools()
	return s
}

// Start serves on stdin/stdout until the client disconnects or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks the stdio transport over in and out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logging.Info("Agent", "Serving MCP tools over stdio")
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

func (s *Server) registerTools() {
	pathsOption := mcp.WithString("paths",
		mcp.Description("Comma separated definition files, directories or '*' patterns. Defaults to the working directory."),
	)

	s.mcpServer.AddTool(mcp.NewTool("run_tests",
		mcp.WithDescription("Run FHIR conformance tests and compare the validator output with the expected results"),
		pathsOption,
	), s.handleRunTests)

	s.mcpServer.AddTool(mcp.NewTool("validate_definitions",
		mcp.WithDescription("Check test definitions against the definition schema and resolve their instances without running them"),
		pathsOption,
	), s.handleValidateDefinitions)

	s.mcpServer.AddTool(mcp.NewTool("get_results",
		mcp.WithDescription("Retrieve results from the last test run"),
	), s.handleGetResults)

	s.mcpServer.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Return the most recent runs recorded in the history file"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to return (default 10)"),
		),
	), s.handleGetHistory)

	s.mcpServer.AddTool(mcp.NewTool("validator_status",
		mcp.WithDescription("Report the installed validator version and whether an update is available"),
	), s.handleValidatorStatus)
}
