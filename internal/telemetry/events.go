package telemetry

import (
	"runtime"

	"github.com/asteroid-belt/solvesync/pkg/version"
)

// Event names - CLI
const (
	EventAppStarted         = "app_started"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
)

// Event names - pipeline
const (
	EventSubmissionQueued  = "submission_queued"
	EventSyncPass          = "sync_pass"
	EventProgressPublished = "progress_published"
	EventSettingsChanged   = "settings_changed"
	EventCatalogMerged     = "catalog_merged"
)

// Event names - MCP
const (
	EventMCPToolCalled = "mcp_tool_called"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"version":    version.Version,
		"prerelease": version.IsPrerelease(),
		"dev_build":  version.IsDevBuild(),
	}
}

// TrackAppStarted tracks application startup.
func (c *posthogClient) TrackAppStarted(mode string, backend string) {
	props := baseProperties()
	props["mode"] = mode
	props["backend"] = backend
	c.Track(EventAppStarted, props)
}

// TrackCLICommandExecuted tracks a completed CLI command.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks a failed CLI command by error class only.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// TrackSubmissionQueued tracks an enqueue attempt. Slugs and code are never sent.
func (c *posthogClient) TrackSubmissionQueued(language, source string, accepted bool) {
	props := baseProperties()
	props["language"] = language
	props["source"] = source
	props["accepted"] = accepted
	c.Track(EventSubmissionQueued, props)
}

// TrackSyncPass tracks the outcome counts of a processing pass.
func (c *posthogClient) TrackSyncPass(trigger string, processed, retried, dropped, deferred int) {
	props := baseProperties()
	props["trigger"] = trigger
	props["processed"] = processed
	props["retried"] = retried
	props["dropped"] = dropped
	props["deferred"] = deferred
	c.Track(EventSyncPass, props)
}

// TrackProgressPublished tracks a progress regeneration.
func (c *posthogClient) TrackProgressPublished(total int) {
	props := baseProperties()
	props["total"] = total
	c.Track(EventProgressPublished, props)
}

// TrackSettingsChanged tracks a settings save.
func (c *posthogClient) TrackSettingsChanged(organizationMode string, includeHeader bool) {
	props := baseProperties()
	props["organization_mode"] = organizationMode
	props["include_header"] = includeHeader
	c.Track(EventSettingsChanged, props)
}

// TrackCatalogMerged tracks a catalog merge.
func (c *posthogClient) TrackCatalogMerged(entries, changed int) {
	props := baseProperties()
	props["entries"] = entries
	props["changed"] = changed
	c.Track(EventCatalogMerged, props)
}

// TrackMCPToolCalled tracks an MCP tool invocation.
func (c *posthogClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	props := baseProperties()
	props["tool_name"] = toolName
	props["duration_ms"] = durationMs
	props["success"] = success
	c.Track(EventMCPToolCalled, props)
}

// --- No-op implementations ---

func (c *noopClient) TrackAppStarted(mode string, backend string)                                 {}
func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {}
func (c *noopClient) TrackCLIError(commandName, errorType string)                                 {}
func (c *noopClient) TrackSubmissionQueued(language, source string, accepted bool)                {}
func (c *noopClient) TrackSyncPass(trigger string, processed, retried, dropped, deferred int)     {}
func (c *noopClient) TrackProgressPublished(total int)                                            {}
func (c *noopClient) TrackSettingsChanged(organizationMode string, includeHeader bool)            {}
func (c *noopClient) TrackCatalogMerged(entries, changed int)                                     {}
func (c *noopClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool)          {}
