package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"
)

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

type schemaResponse struct {
	SchemaVersion string   `json:"schema_version"`
	ServerVersion string   `json:"server_version"`
	Tools         []string `json:"tools"`
}

// toolNames lists the registered tools in registration order.
var toolNames = []string{
	"hilal_get_day",
	"hilal_calendar",
	"hilal_add_task",
	"hilal_toggle_task",
	"hilal_toggle_item",
	"hilal_delete_task",
	"hilal_change_date",
	"hilal_tasbeeh_list",
	"hilal_tasbeeh_increment",
	"hilal_quran_search",
	"hilal_quran_page",
}

func (s *Server) registerResources() {
	s.jsonResource("hilal://schema", "MCP tool schema version", func(context.Context) (any, error) {
		return schemaResponse{SchemaVersion: SchemaVersion, ServerVersion: Version, Tools: toolNames}, nil
	})
	s.jsonResource("hilal://day", "Tasks and completion of the active date", func(ctx context.Context) (any, error) {
		return s.services.Checklist.Day(s.ctx(ctx), "")
	})
	s.jsonResource("hilal://tasbeeh", "Dhikr counters", func(ctx context.Context) (any, error) {
		return s.services.Tasbeeh.State(ctx), nil
	})
}

func (s *Server) jsonResource(uri, description string, fn func(context.Context) (any, error)) {
	s.mcpServer.Resource(uri).
		Name(uri).
		Description(description).
		MimeType("application/json").
		Handler(func(ctx context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			v, err := fn(ctx)
			if err != nil {
				return nil, userErr(err, "Failed to read "+uri)
			}
			data, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
