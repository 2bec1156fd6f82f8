package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var stringItems = map[string]any{"type": "string"}

var createToolDef = mcp.NewTool("letter_create",
	mcp.WithDescription("Create a letter to your future self. Letters start as drafts unless schedule is true."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Letter headline")),
	mcp.WithString("goal", mcp.Description("The aspiration the letter is written around")),
	mcp.WithString("content", mcp.Description("Letter body (markdown)")),
	mcp.WithString("send_date", mcp.Required(), mcp.Description("Delivery date, YYYY-MM-DD")),
	mcp.WithString("recipient_email", mcp.Description("Delivery address")),
	mcp.WithArray("tags", mcp.Description("Tags for categorization"), mcp.Items(stringItems)),
	mcp.WithBoolean("schedule", mcp.Description("Create as scheduled instead of draft")),
)

var fetchToolDef = mcp.NewTool("letter_fetch",
	mcp.WithDescription("Fetch a letter and its milestones by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Letter ULID")),
	mcp.WithBoolean("include_deleted", mcp.Description("Allow fetching soft-deleted letters")),
	mcp.WithBoolean("include_content", mcp.Description("Include the letter body (default true)")),
)

var updateToolDef = mcp.NewTool("letter_update",
	mcp.WithDescription("Update one or more fields of a letter. Omitted fields are unchanged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Letter ULID")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("goal", mcp.Description("New goal")),
	mcp.WithString("content", mcp.Description("New letter body")),
	mcp.WithString("send_date", mcp.Description("New delivery date, YYYY-MM-DD")),
	mcp.WithString("recipient_email", mcp.Description("New delivery address; empty string clears it")),
	mcp.WithArray("tags", mcp.Description("Replacement tag list"), mcp.Items(stringItems)),
	mcp.WithString("status", mcp.Description("New status: draft, scheduled, or delivered")),
)

var deleteToolDef = mcp.NewTool("letter_delete",
	mcp.WithDescription("Soft-delete a letter. Purge removes it permanently."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Letter ULID")),
)

var listToolDef = mcp.NewTool("letter_list",
	mcp.WithDescription("List letters, newest updates first."),
	mcp.WithString("status", mcp.Description("Filter by status: draft, scheduled, or delivered")),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted letters")),
)

var searchToolDef = mcp.NewTool("letter_search",
	mcp.WithDescription("Search letter titles, goals, and content."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted letters")),
)

var dueToolDef = mcp.NewTool("letter_due",
	mcp.WithDescription("List scheduled letters whose send date has arrived."),
	mcp.WithString("as_of", mcp.Description("Reference date, YYYY-MM-DD (default today)")),
)

var deliverToolDef = mcp.NewTool("letter_deliver",
	mcp.WithDescription("Record delivery of a scheduled letter."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Letter ULID")),
)

var enhanceToolDef = mcp.NewTool("letter_enhance",
	mcp.WithDescription("Enhance a letter with AI suggestions for the title, goal, content, and milestones. Results are cached by content fingerprint; nothing is changed unless apply flags are set."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Letter ULID")),
	mcp.WithBoolean("force", mcp.Description("Bypass the cached result and re-run the enhancement")),
	mcp.WithArray("apply_fields", mcp.Description("Suggested fields to persist: title, goal, content"), mcp.Items(stringItems)),
	mcp.WithBoolean("apply_milestones", mcp.Description("Replace the letter's milestones with the suggestions")),
	mcp.WithBoolean("apply_all", mcp.Description("Apply every suggestion")),
)

var exportToolDef = mcp.NewTool("letter_export",
	mcp.WithDescription("Export all letters and their milestones to a JSONL file."),
	mcp.WithString("path", mcp.Description("Target .jsonl path (default: exports dir with a timestamped name)")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted letters")),
)

var importToolDef = mcp.NewTool("letter_import",
	mcp.WithDescription("Import letters from a JSONL export file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .jsonl path")),
	mcp.WithString("mode", mcp.Description("Collision handling: error (default, atomic), replace, or skip")),
)

var purgeToolDef = mcp.NewTool("letter_purge",
	mcp.WithDescription("Permanently delete soft-deleted letters."),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge letters deleted more than N days ago")),
)

var milestoneAddToolDef = mcp.NewTool("milestone_add",
	mcp.WithDescription("Append a milestone to a letter."),
	mcp.WithString("letter_id", mcp.Required(), mcp.Description("Owning letter ULID")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Milestone label")),
	mcp.WithString("description", mcp.Description("What reaching it means")),
	mcp.WithNumber("percentage", mcp.Description("Progress toward the goal when reached, 0-100")),
	mcp.WithString("target_date", mcp.Required(), mcp.Description("Due date, YYYY-MM-DD")),
)

var milestoneUpdateToolDef = mcp.NewTool("milestone_update",
	mcp.WithDescription("Update a milestone. Omitted fields are unchanged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Milestone ULID")),
	mcp.WithString("title", mcp.Description("New label")),
	mcp.WithString("description", mcp.Description("New description")),
	mcp.WithNumber("percentage", mcp.Description("New progress value, 0-100")),
	mcp.WithString("target_date", mcp.Description("New due date, YYYY-MM-DD")),
	mcp.WithBoolean("completed", mcp.Description("Mark the milestone reached or not")),
	mcp.WithNumber("position", mcp.Description("New ordering position")),
)

var milestoneDeleteToolDef = mcp.NewTool("milestone_delete",
	mcp.WithDescription("Delete a milestone."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Milestone ULID")),
)
