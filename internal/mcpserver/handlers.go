package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/service"
)

// toolResult marshals a processing result as indented JSON text content.
func toolResult(result *service.ProcessingResult) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
	}, nil
}

func (s *Server) handleAnonymize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outputDir, err := req.RequireString("output_dir")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'output_dir': %v", err)), nil
	}

	result, err := s.service.Anonymize(ctx, service.AnonymizeRequest{
		OutputDir:      outputDir,
		Files:          req.GetStringSlice("files", nil),
		Directory:      req.GetString("directory", ""),
		Patterns:       req.GetStringSlice("patterns", nil),
		Recursive:      req.GetBool("recursive", true),
		EntityTypes:    req.GetStringSlice("entity_types", nil),
		ScoreThreshold: req.GetFloat("score_threshold", 0),
		DateShiftDays:  req.GetInt("date_shift_days", 0),
		SeedVault:      req.GetString("vault_path", ""),
		Progress:       s.progressFunc("anonymize_documents"),
	})
	if err != nil {
		s.logger.Error("Anonymization failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Anonymization failed: %v", err)), nil
	}

	return toolResult(result)
}

func (s *Server) handleRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outputDir, err := req.RequireString("output_dir")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'output_dir': %v", err)), nil
	}

	result, err := s.service.Restore(ctx, service.RestoreRequest{
		OutputDir: outputDir,
		Files:     req.GetStringSlice("files", nil),
		Directory: req.GetString("directory", ""),
		VaultPath: req.GetString("vault_path", ""),
		Patterns:  req.GetStringSlice("patterns", nil),
		Recursive: req.GetBool("recursive", true),
		Progress:  s.progressFunc("restore_documents"),
	})
	if err != nil {
		s.logger.Error("Restoration failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Restoration failed: %v", err)), nil
	}

	return toolResult(result)
}

func (s *Server) handleExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'file_path': %v", err)), nil
	}

	result, err := s.service.Extract(ctx, service.ExtractRequest{
		FilePath:   filePath,
		OutputPath: req.GetString("output_path", ""),
		Method:     req.GetString("extraction_method", "auto"),
		Progress:   s.progressFunc("extract_document"),
	})
	if err != nil {
		s.logger.Error("Extraction failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Extraction failed: %v", err)), nil
	}

	return toolResult(result)
}

func (s *Server) handleSegment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'file_path': %v", err)), nil
	}
	outputDir, err := req.RequireString("output_dir")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'output_dir': %v", err)), nil
	}

	result, err := s.service.Segment(ctx, service.SegmentRequest{
		FilePath:        filePath,
		OutputDir:       outputDir,
		MaxTokens:       req.GetInt("max_tokens", 0),
		MinTokens:       req.GetInt("min_tokens", 0),
		BreakAtHeadings: req.GetStringSlice("break_at_headings", nil),
		Progress:        s.progressFunc("segment_document"),
	})
	if err != nil {
		s.logger.Error("Segmentation failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Segmentation failed: %v", err)), nil
	}

	return toolResult(result)
}

func (s *Server) handleSplitPrompts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'file_path': %v", err)), nil
	}
	outputDir, err := req.RequireString("output_dir")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'output_dir': %v", err)), nil
	}

	result, err := s.service.SplitPrompts(ctx, service.SplitRequest{
		FilePath:             filePath,
		OutputDir:            outputDir,
		SplitLevel:           req.GetString("split_level", "h2"),
		IncludeParentContext: req.GetBool("include_parent_context", true),
		PromptTemplate:       req.GetString("prompt_template", ""),
		Progress:             s.progressFunc("split_into_prompts"),
	})
	if err != nil {
		s.logger.Error("Prompt generation failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Prompt generation failed: %v", err)), nil
	}

	return toolResult(result)
}

// progressFunc logs progress updates for a tool invocation.
func (s *Server) progressFunc(tool string) service.ProgressFunc {
	log := s.logger.WithTool(tool)
	return func(message string, fraction float64) {
		log.Info("Progress",
			zap.String("message", message),
			zap.Float64("fraction", fraction),
		)
	}
}
