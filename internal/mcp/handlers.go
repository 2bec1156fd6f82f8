package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/futureletter/futureletter/internal/config"
	"github.com/futureletter/futureletter/internal/enhance"
	"github.com/futureletter/futureletter/internal/enhance/openai"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
// The enhancement gateway is built lazily on first use so every other
// tool works without LLM credentials.
type Handlers struct {
	db    *sql.DB
	cfg   *config.Config
	cache *enhance.Cache

	gatewayOnce sync.Once
	gateway     enhance.Gateway
	gatewayErr  error
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		db:    db,
		cfg:   cfg,
		cache: enhance.NewCache(cfg.CacheTTL()),
	}
}

func (h *Handlers) getGateway() (enhance.Gateway, error) {
	h.gatewayOnce.Do(func() {
		if h.gateway != nil {
			return
		}
		gw, err := openai.New(h.cfg)
		if err != nil {
			h.gatewayErr = err
			return
		}
		h.gateway = gw
	})
	return h.gateway, h.gatewayErr
}

// Request types for each tool

// CreateRequest represents the arguments for letter_create.
type CreateRequest struct {
	Title          string   `json:"title"`
	Goal           string   `json:"goal,omitempty"`
	Content        string   `json:"content,omitempty"`
	SendDate       string   `json:"send_date"`
	RecipientEmail *string  `json:"recipient_email,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Schedule       bool     `json:"schedule,omitempty"`
}

// FetchRequest represents the arguments for letter_fetch.
type FetchRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
	IncludeContent *bool  `json:"include_content,omitempty"`
}

// UpdateRequest represents the arguments for letter_update.
type UpdateRequest struct {
	ID             string    `json:"id"`
	Title          *string   `json:"title,omitempty"`
	Goal           *string   `json:"goal,omitempty"`
	Content        *string   `json:"content,omitempty"`
	SendDate       *string   `json:"send_date,omitempty"`
	RecipientEmail *string   `json:"recipient_email,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	Status         *string   `json:"status,omitempty"`
}

// DeleteRequest represents the arguments for letter_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for letter_list.
type ListRequest struct {
	Status         string `json:"status,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// SearchRequest represents the arguments for letter_search.
type SearchRequest struct {
	Query          string `json:"query"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// DueRequest represents the arguments for letter_due.
type DueRequest struct {
	AsOf string `json:"as_of,omitempty"`
}

// DeliverRequest represents the arguments for letter_deliver.
type DeliverRequest struct {
	ID string `json:"id"`
}

// EnhanceRequest represents the arguments for letter_enhance.
type EnhanceRequest struct {
	ID              string   `json:"id"`
	Force           bool     `json:"force,omitempty"`
	ApplyFields     []string `json:"apply_fields,omitempty"`
	ApplyMilestones bool     `json:"apply_milestones,omitempty"`
	ApplyAll        bool     `json:"apply_all,omitempty"`
}

// ExportRequest represents the arguments for letter_export.
type ExportRequest struct {
	Path           string `json:"path,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// ImportRequest represents the arguments for letter_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// PurgeRequest represents the arguments for letter_purge.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// MilestoneAddRequest represents the arguments for milestone_add.
type MilestoneAddRequest struct {
	LetterID    string  `json:"letter_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Percentage  int     `json:"percentage,omitempty"`
	TargetDate  string  `json:"target_date"`
}

// MilestoneUpdateRequest represents the arguments for milestone_update.
type MilestoneUpdateRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Percentage  *int    `json:"percentage,omitempty"`
	TargetDate  *string `json:"target_date,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Position    *int    `json:"position,omitempty"`
}

// MilestoneDeleteRequest represents the arguments for milestone_delete.
type MilestoneDeleteRequest struct {
	ID string `json:"id"`
}

// Handler implementations

// HandleCreate handles the letter_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(ctx, h.db, h.cfg, ops.CreateInput{
		Title:          input.Title,
		Goal:           input.Goal,
		Content:        input.Content,
		SendDate:       input.SendDate,
		RecipientEmail: input.RecipientEmail,
		Tags:           input.Tags,
		Schedule:       input.Schedule,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the letter_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             input.ID,
		IncludeDeleted: input.IncludeDeleted,
		IncludeContent: input.IncludeContent,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the letter_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(h.db, h.cfg, ops.UpdateInput{
		ID:             input.ID,
		Title:          input.Title,
		Goal:           input.Goal,
		Content:        input.Content,
		SendDate:       input.SendDate,
		RecipientEmail: input.RecipientEmail,
		Tags:           input.Tags,
		Status:         input.Status,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the letter_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the letter_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Status:         input.Status,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the letter_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(ctx, h.db, ops.SearchInput{
		Query:          input.Query,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDue handles the letter_due tool call.
func (h *Handlers) HandleDue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DueRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Due(h.db, ops.DueInput{AsOf: input.AsOf})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDeliver handles the letter_deliver tool call.
func (h *Handlers) HandleDeliver(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeliverRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Deliver(ctx, h.db, ops.DeliverInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleEnhance handles the letter_enhance tool call.
func (h *Handlers) HandleEnhance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EnhanceRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	gw, err := h.getGateway()
	if err != nil {
		return errorResult(errors.NewGatewayFailure(err)), nil
	}

	result, err := ops.Enhance(ctx, h.db, h.cfg, h.cache, gw, ops.EnhanceInput{
		ID:              input.ID,
		Force:           input.Force,
		ApplyFields:     input.ApplyFields,
		ApplyMilestones: input.ApplyMilestones,
		ApplyAll:        input.ApplyAll,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the letter_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:           input.Path,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the letter_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the letter_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(ctx, h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMilestoneAdd handles the milestone_add tool call.
func (h *Handlers) HandleMilestoneAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MilestoneAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.AddMilestone(h.db, ops.AddMilestoneInput{
		LetterID:    input.LetterID,
		Title:       input.Title,
		Description: input.Description,
		Percentage:  input.Percentage,
		TargetDate:  input.TargetDate,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMilestoneUpdate handles the milestone_update tool call.
func (h *Handlers) HandleMilestoneUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MilestoneUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateMilestone(h.db, ops.UpdateMilestoneInput{
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		Percentage:  input.Percentage,
		TargetDate:  input.TargetDate,
		Completed:   input.Completed,
		Position:    input.Position,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMilestoneDelete handles the milestone_delete tool call.
func (h *Handlers) HandleMilestoneDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MilestoneDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteMilestone(h.db, ops.DeleteMilestoneInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if lErr, ok := err.(*errors.LetterError); ok {
		errorObj := map[string]any{
			"code":    lErr.Code,
			"message": lErr.Message,
			"status":  lErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if lErr.Code != errors.ErrInternal && lErr.Details != nil {
			errorObj["details"] = lErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
