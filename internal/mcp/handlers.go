package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/progress"
	"github.com/asteroid-belt/solvesync/internal/service"
	"github.com/asteroid-belt/solvesync/internal/syncer"
)

const (
	defaultLogLimit = 20
	maxLogLimit     = 100
)

// parseLimit extracts and validates a limit parameter from MCP tool arguments.
// Returns defaultVal if not present, caps at maxVal if exceeded.
func parseLimit(arguments map[string]interface{}, key string, defaultVal, maxVal int) int {
	if l, ok := arguments[key].(float64); ok && l > 0 {
		limit := int(l)
		if limit > maxVal {
			return maxVal
		}
		return limit
	}
	return defaultVal
}

func stringArg(arguments map[string]interface{}, key string) (string, bool) {
	v, ok := arguments[key].(string)
	return v, ok
}

func boolArg(arguments map[string]interface{}, key string) (bool, bool) {
	v, ok := arguments[key].(bool)
	return v, ok
}

func (s *Server) trackToolCall(toolName string, start time.Time, success bool) {
	s.telemetry.TrackMCPToolCalled(toolName, time.Since(start).Milliseconds(), success)
}

// jsonResult marshals v as the tool's text content.
func (s *Server) jsonResult(toolName string, start time.Time, v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		s.trackToolCall(toolName, start, false)
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	s.trackToolCall(toolName, start, true)
	return mcp.NewToolResultText(string(data)), nil
}

// resultOf converts a service result into a tool result.
func (s *Server) resultOf(toolName string, start time.Time, res service.Result) (*mcp.CallToolResult, error) {
	if !res.Success {
		s.trackToolCall(toolName, start, false)
		return mcp.NewToolResultError(res.Error), nil
	}
	return s.jsonResult(toolName, start, res)
}

// SyncResponse is returned by solvesync_force_sync.
type SyncResponse struct {
	service.Result
	Pass syncer.PassResult `json:"pass"`
}

// ProgressResponse is returned by solvesync_force_progress.
type ProgressResponse struct {
	service.Result
	Published progress.Published `json:"published"`
}

// SubmitResponse is returned by solvesync_submit.
type SubmitResponse struct {
	service.Result
	Accepted bool `json:"accepted"`
}

// MergeResponse is returned by solvesync_merge_catalog.
type MergeResponse struct {
	service.Result
	Changed int `json:"changed"`
}

func (s *Server) handleGetState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "solvesync_get_state"
	start := time.Now()

	state, err := s.svc.State(ctx)
	if err != nil {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError(fmt.Sprintf("failed to load state: %v", err)), nil
	}

	limit := parseLimit(req.Params.Arguments, "log_limit", defaultLogLimit, maxLogLimit)
	if len(state.Logs) > limit {
		state.Logs = state.Logs[:limit]
	}
	return s.jsonResult(tool, start, state)
}

func (s *Server) handleSaveSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "solvesync_save_settings"
	start := time.Now()

	state, err := s.svc.State(ctx)
	if err != nil {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError(fmt.Sprintf("failed to load settings: %v", err)), nil
	}
	settings := state.Settings
	args := req.Params.Arguments

	if v, ok := stringArg(args, "repository"); ok {
		settings.Repository = v
	}
	if v, ok := stringArg(args, "branch"); ok {
		settings.Branch = v
	}
	if v, ok := stringArg(args, "base_dir"); ok {
		settings.BaseDir = v
	}
	if v, ok := stringArg(args, "organization_mode"); ok {
		mode, err := models.ParseOrganizationMode(v)
		if err != nil {
			s.trackToolCall(tool, start, false)
			return mcp.NewToolResultError(err.Error()), nil
		}
		settings.OrganizationMode = mode
	}

	flags := map[string]*bool{
		"overwrite_existing":        &settings.OverwriteExisting,
		"include_header":            &settings.IncludeHeader,
		"include_difficulty_folder": &settings.IncludeDifficultyFolder,
		"include_list_folder":       &settings.IncludeListFolder,
		"filename_includes_slug":    &settings.FilenameIncludesSlug,
		"debug":                     &settings.Debug,
	}
	for key, field := range flags {
		if v, ok := boolArg(args, key); ok {
			*field = v
		}
	}

	return s.resultOf(tool, start, s.svc.SaveSettings(ctx, settings))
}

func (s *Server) handleSaveToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "solvesync_save_token"
	start := time.Now()

	token, ok := stringArg(req.Params.Arguments, "token")
	if !ok || token == "" {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError("token parameter is required"), nil
	}
	return s.resultOf(tool, start, s.svc.SaveCredential(ctx, token))
}

func (s *Server) handleClearToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.resultOf("solvesync_clear_token", time.Now(), s.svc.ClearCredential())
}

func (s *Server) handleSubmit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "solvesync_submit"
	start := time.Now()
	args := req.Params.Arguments

	slug, ok := stringArg(args, "slug")
	if !ok || slug == "" {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError("slug parameter is required"), nil
	}

	payload := models.SubmissionPayload{
		Slug:   slug,
		Source: models.SourceManual,
		At:     time.Now().UnixMilli(),
	}
	payload.Code, _ = stringArg(args, "code")
	payload.Language, _ = stringArg(args, "language")
	payload.Title, _ = stringArg(args, "title")
	payload.Difficulty, _ = stringArg(args, "difficulty")
	payload.Category, _ = stringArg(args, "category")
	payload.ListName, _ = stringArg(args, "list_name")

	accepted, res := s.svc.Submit(ctx, payload)
	if !res.Success {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError(res.Error), nil
	}
	return s.jsonResult(tool, start, SubmitResponse{Result: res, Accepted: accepted})
}

func (s *Server) handleForceSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "solvesync_force_sync"
	start := time.Now()

	pass, res := s.svc.ForceSync(ctx)
	if !res.Success {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError(res.Error), nil
	}
	return s.jsonResult(tool, start, SyncResponse{Result: res, Pass: pass})
}

func (s *Server) handleForceProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "solvesync_force_progress"
	start := time.Now()

	out, res := s.svc.ForceProgress(ctx)
	if !res.Success {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError(res.Error), nil
	}
	return s.jsonResult(tool, start, ProgressResponse{Result: res, Published: out})
}

func (s *Server) handleClearLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.resultOf("solvesync_clear_logs", time.Now(), s.svc.ClearLogs())
}

func (s *Server) handleMergeCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "solvesync_merge_catalog"
	start := time.Now()

	raw, ok := req.Params.Arguments["entries"].(map[string]interface{})
	if !ok {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError("entries parameter is required"), nil
	}

	// Round-trip through JSON to reuse the wire field names.
	data, err := json.Marshal(raw)
	if err != nil {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError(fmt.Sprintf("invalid entries: %v", err)), nil
	}
	var event models.CatalogEvent
	if err := json.Unmarshal(data, &event.Entries); err != nil {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError(fmt.Sprintf("invalid entries: %v", err)), nil
	}
	event.UpdatedAt = time.Now().UnixMilli()

	changed, res := s.svc.MergeCatalog(ctx, event)
	if !res.Success {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError(res.Error), nil
	}
	return s.jsonResult(tool, start, MergeResponse{Result: res, Changed: changed})
}

func (s *Server) handleResetMapping(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.resultOf("solvesync_reset_mapping", time.Now(), s.svc.ResetMapping())
}
