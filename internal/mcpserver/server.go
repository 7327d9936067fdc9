// Package mcpserver exposes the document tools over the Model Context
// Protocol with stdio transport.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/service"
)

// Server wraps the MCP server and the shared service layer.
type Server struct {
	server  *server.MCPServer
	service *service.Service
	logger  *logger.Logger
}

// New creates the MCP server and registers every tool.
func New(svc *service.Service, version string, log *logger.Logger) *Server {
	s := &Server{
		server:  server.NewMCPServer("inkognito", version, server.WithLogging()),
		service: svc,
		logger:  log.WithComponent("mcp"),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the client disconnects.
func (s *Server) Run() error {
	return server.ServeStdio(s.server)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool("anonymize_documents",
			mcp.WithDescription(`Anonymize documents by replacing PII with realistic fake data.

The same entity always gets the same replacement across all documents in a
batch (e.g. "John Smith" always becomes the same generated name). A vault
file is written alongside the output so originals can be restored later
with restore_documents.`),
			mcp.WithString("output_dir", mcp.Required(), mcp.Description("Directory to save anonymized files and vault")),
			mcp.WithArray("files", mcp.Description("Specific file paths to anonymize (use files OR directory)")),
			mcp.WithString("directory", mcp.Description("Directory to scan for files")),
			mcp.WithArray("patterns", mcp.Description("File patterns to match (default: *.pdf, *.md, *.txt)")),
			mcp.WithBoolean("recursive", mcp.Description("Include subdirectories when scanning (default: true)")),
			mcp.WithArray("entity_types", mcp.Description("Specific entity types to detect (default: all)")),
			mcp.WithNumber("score_threshold", mcp.Description("Confidence threshold for PII detection (default: 0.5)")),
			mcp.WithNumber("date_shift_days", mcp.Description("Maximum days to shift dates (default: 365)")),
			mcp.WithString("vault_path", mcp.Description("Existing vault to resume a session (reuses its mappings)")),
		),
		s.handleAnonymize,
	)

	s.server.AddTool(
		mcp.NewTool("restore_documents",
			mcp.WithDescription(`Restore original PII in anonymized documents using the vault.

Only works with documents produced by anonymize_documents. The vault is
auto-detected next to the input files when vault_path is not given.`),
			mcp.WithString("output_dir", mcp.Required(), mcp.Description("Directory to save restored files")),
			mcp.WithArray("files", mcp.Description("Specific anonymized files to restore")),
			mcp.WithString("directory", mcp.Description("Directory containing anonymized files")),
			mcp.WithString("vault_path", mcp.Description("Path to vault.json (auto-detected if not provided)")),
			mcp.WithArray("patterns", mcp.Description("File patterns to match (default: *.md)")),
			mcp.WithBoolean("recursive", mcp.Description("Include subdirectories (default: true)")),
		),
		s.handleRestore,
	)

	s.server.AddTool(
		mcp.NewTool("extract_document",
			mcp.WithDescription(`Convert a PDF or office document to markdown.

Supports local processing (docling, MinerU) and cloud processing (Azure
Document Intelligence, LlamaParse); "auto" picks the best configured
connector.`),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the input document")),
			mcp.WithString("output_path", mcp.Description("Output markdown path (auto-generated if not provided)")),
			mcp.WithString("extraction_method", mcp.Description("auto, azure, llamaparse, docling, or mineru")),
		),
		s.handleExtract,
	)

	s.server.AddTool(
		mcp.NewTool("segment_document",
			mcp.WithDescription("Split a large markdown document into LLM-ready chunks at natural heading boundaries within token limits."),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to markdown file to segment")),
			mcp.WithString("output_dir", mcp.Required(), mcp.Description("Directory to save segment files")),
			mcp.WithNumber("max_tokens", mcp.Description("Maximum tokens per segment (default: 15000)")),
			mcp.WithNumber("min_tokens", mcp.Description("Minimum tokens per segment (default: 10000)")),
			mcp.WithArray("break_at_headings", mcp.Description("Heading levels to prefer for breaks (default: h1, h2)")),
		),
		s.handleSegment,
	)

	s.server.AddTool(
		mcp.NewTool("split_into_prompts",
			mcp.WithDescription("Split structured markdown into individual prompt files by heading level."),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to markdown file with clear heading structure")),
			mcp.WithString("output_dir", mcp.Required(), mcp.Description("Directory to save prompt files")),
			mcp.WithString("split_level", mcp.Description("Heading level to split at (default: h2)")),
			mcp.WithBoolean("include_parent_context", mcp.Description("Include parent heading in context (default: true)")),
			mcp.WithString("prompt_template", mcp.Description("Template with {heading}, {content}, {parent}, {level} placeholders")),
		),
		s.handleSplitPrompts,
	)
}
