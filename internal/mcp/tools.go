package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func getStateTool() mcp.Tool {
	return mcp.NewTool("solvesync_get_state",
		mcp.WithDescription("Get settings, queue contents with retry status, solved and mapped counts, last sync times and recent activity log entries."),
		mcp.WithNumber("log_limit",
			mcp.Description("Maximum number of log entries to return (default: 20, max: 100)"),
		),
	)
}

func saveSettingsTool() mcp.Tool {
	return mcp.NewTool("solvesync_save_settings",
		mcp.WithDescription("Update sync settings. Only the fields provided are changed."),
		mcp.WithString("repository",
			mcp.Description("Target repository: owner/repo for GitHub, or a local path for the git backend"),
		),
		mcp.WithString("branch",
			mcp.Description("Branch to commit to (default: main)"),
		),
		mcp.WithString("base_dir",
			mcp.Description("Folder inside the repository that holds synced files"),
		),
		mcp.WithString("organization_mode",
			mcp.Description("Folder layout: AUTO, CATEGORY, DIFFICULTY or FLAT"),
		),
		mcp.WithBoolean("overwrite_existing",
			mcp.Description("Replace a solution file that already exists"),
		),
		mcp.WithBoolean("include_header",
			mcp.Description("Prepend a comment header with the problem title and classification"),
		),
		mcp.WithBoolean("include_difficulty_folder",
			mcp.Description("Add a difficulty folder below the list folder in AUTO mode"),
		),
		mcp.WithBoolean("include_list_folder",
			mcp.Description("Add the study list folder in AUTO mode"),
		),
		mcp.WithBoolean("filename_includes_slug",
			mcp.Description("Prefix file names with the problem slug"),
		),
		mcp.WithBoolean("debug",
			mcp.Description("Record debug entries in the activity log"),
		),
	)
}

func saveTokenTool() mcp.Tool {
	return mcp.NewTool("solvesync_save_token",
		mcp.WithDescription("Save the remote access token. When a repository is configured the token is checked first and a rejected token is not saved."),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("Personal access token with contents write permission"),
		),
	)
}

func clearTokenTool() mcp.Tool {
	return mcp.NewTool("solvesync_clear_token",
		mcp.WithDescription("Remove the saved access token."),
	)
}

func submitTool() mcp.Tool {
	return mcp.NewTool("solvesync_submit",
		mcp.WithDescription("Queue an accepted solution for syncing. Identical resubmissions inside the freshness window are ignored."),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("Problem slug, e.g. two-sum"),
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Solution source code"),
		),
		mcp.WithString("language",
			mcp.Description("Language identifier, e.g. python3, cpp, golang"),
		),
		mcp.WithString("title",
			mcp.Description("Problem title"),
		),
		mcp.WithString("difficulty",
			mcp.Description("Easy, Medium or Hard"),
		),
		mcp.WithString("category",
			mcp.Description("Topic category"),
		),
		mcp.WithString("list_name",
			mcp.Description("Study list the problem belongs to"),
		),
	)
}

func forceSyncTool() mcp.Tool {
	return mcp.NewTool("solvesync_force_sync",
		mcp.WithDescription("Run a sync pass now and wait for it. Fails if a pass is already running or sync is not configured."),
	)
}

func forceProgressTool() mcp.Tool {
	return mcp.NewTool("solvesync_force_progress",
		mcp.WithDescription("Regenerate the progress snapshot and digest and commit them now."),
	)
}

func clearLogsTool() mcp.Tool {
	return mcp.NewTool("solvesync_clear_logs",
		mcp.WithDescription("Empty the activity log."),
	)
}

func mergeCatalogTool() mcp.Tool {
	return mcp.NewTool("solvesync_merge_catalog",
		mcp.WithDescription("Merge problem classifications into the catalog mapping used for folder layout."),
		mcp.WithObject("entries",
			mcp.Required(),
			mcp.Description("Map of slug to {title, category, listName, difficulty, sourceUrl}"),
		),
	)
}

func resetMappingTool() mcp.Tool {
	return mcp.NewTool("solvesync_reset_mapping",
		mcp.WithDescription("Delete every catalog mapping entry."),
	)
}
