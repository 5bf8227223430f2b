package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	ReadOnly    bool           `json:"-"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// filterProps are accepted by every tool that reads the portfolio.
func filterProps() map[string]any {
	return map[string]any{
		"year":      stringProp("Four-digit year scoping assessment selection and trend periods, e.g. 2024"),
		"delivery":  stringProp("Only projects with this delivery manager"),
		"leader":    stringProp("Only projects with this project leader"),
		"tech_lead": stringProp("Only projects with this technical lead"),
		"view": map[string]any{
			"type":        "string",
			"description": "Project status to show (default active)",
			"enum":        []string{"active", "closed"},
		},
	}
}

func dimensionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sub": map[string]any{
				"type":        "array",
				"description": "The four sub-criterion scores, each 1 (does not meet) to 5 (fully meets)",
				"items":       map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
				"minItems":    4,
				"maxItems":    4,
			},
			"notes": map[string]any{
				"type":        "array",
				"description": "Optional justification per sub-criterion, up to 1500 characters each",
				"items":       map[string]any{"type": "string"},
				"maxItems":    4,
			},
		},
		"required": []string{"sub"},
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Projects
		{
			Name:        "create_project",
			Description: "Register a new active project with no assessments",
			InputSchema: objectSchema(map[string]any{
				"id":        stringProp("Unique project identifier (optional, generated if omitted)"),
				"name":      stringProp("Project display name"),
				"client":    stringProp("Client organization"),
				"leader":    stringProp("Project leader"),
				"delivery":  stringProp("Delivery manager"),
				"tech_lead": stringProp("Technical lead"),
			}, "name"),
		},
		{
			Name:        "update_project",
			Description: "Edit project metadata; omitted fields are left unchanged",
			InputSchema: objectSchema(map[string]any{
				"id":        stringProp("Project ID"),
				"name":      stringProp("New display name"),
				"client":    stringProp("New client"),
				"leader":    stringProp("New project leader"),
				"delivery":  stringProp("New delivery manager"),
				"tech_lead": stringProp("New technical lead"),
			}, "id"),
		},
		{
			Name:        "archive_project",
			Description: "Close a project, moving it to the closed view; assessments are kept",
			InputSchema: objectSchema(map[string]any{
				"id": stringProp("Project ID"),
			}, "id"),
		},
		{
			Name:        "get_project",
			Description: "Get a project with its full assessment history",
			InputSchema: objectSchema(map[string]any{
				"id": stringProp("Project ID"),
			}, "id"),
			ReadOnly: true,
		},
		{
			Name:        "list_projects",
			Description: "List projects passing the filter with their relevant overall score and traffic light",
			InputSchema: objectSchema(filterProps()),
			ReadOnly:    true,
		},

		// Assessments
		{
			Name: "record_assessment",
			Description: "Score a project for an ISO week across the five dimensions (EN delivery, EQ team, " +
				"SH stakeholders, VA value, RI risks). If the week already has an assessment nothing is stored " +
				"and confirmation_required is returned; repeat with overwrite=true to replace it",
			InputSchema: objectSchema(map[string]any{
				"project_id": stringProp("Project ID"),
				"week":       stringProp("ISO week YYYY-Www (defaults to the current week)"),
				"dimensions": map[string]any{
					"type":        "object",
					"description": "Scores keyed by dimension code",
					"properties": map[string]any{
						"EN": dimensionSchema(),
						"EQ": dimensionSchema(),
						"SH": dimensionSchema(),
						"VA": dimensionSchema(),
						"RI": dimensionSchema(),
					},
					"required": []string{"EN", "EQ", "SH", "VA", "RI"},
				},
				"overwrite": map[string]any{
					"type":        "boolean",
					"description": "Replace an existing assessment for the same week",
				},
			}, "project_id", "dimensions"),
		},
		{
			Name:        "get_history",
			Description: "List a project's assessments, newest week first, with averages and notes",
			InputSchema: objectSchema(map[string]any{
				"id": stringProp("Project ID"),
			}, "id"),
			ReadOnly: true,
		},

		// Portfolio
		{
			Name:        "get_portfolio_stats",
			Description: "Total projects, average health, its traffic light, and how many projects score below 4",
			InputSchema: objectSchema(filterProps()),
			ReadOnly:    true,
		},
		{
			Name:        "get_trend",
			Description: "Overall score per assessed week (the last 12, or all of the given year) for the portfolio average and each project",
			InputSchema: objectSchema(filterProps()),
			ReadOnly:    true,
		},
		{
			Name:        "get_dashboard",
			Description: "Stats, table rows and trend for the filter, computed from one snapshot",
			InputSchema: objectSchema(filterProps()),
			ReadOnly:    true,
		},
		{
			Name:        "get_filter_options",
			Description: "Years, delivery managers, leaders and technical leads available as filter values",
			InputSchema: objectSchema(map[string]any{}),
			ReadOnly:    true,
		},

		// Activity
		{
			Name:        "get_recent_activity",
			Description: "Recent portfolio events, newest first",
			InputSchema: objectSchema(map[string]any{
				"project_id": stringProp("Only events for this project"),
				"type": map[string]any{
					"type":        "string",
					"description": "Only events of this type",
					"enum": []string{
						"project_created", "project_updated", "project_archived",
						"assessment_recorded", "assessment_replaced", "portfolio_imported",
					},
				},
				"limit":  intProp("Maximum number of entries (default 50)"),
				"offset": intProp("Offset for pagination"),
			}),
			ReadOnly: true,
		},
	}
}

// registerTools exposes every catalog entry as an MCP tool backed by h.
func registerTools(server *sdkmcp.Server, h *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		tool := &sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
		if def.ReadOnly {
			tool.Annotations = &sdkmcp.ToolAnnotations{ReadOnlyHint: true}
		}
		server.AddTool(tool, toolHandler(h, def.Name, logger))
	}
}

func toolHandler(h *Handler, name string, logger *slog.Logger) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		result, err := h.Handle(ctx, name, args)
		if err != nil {
			if apiErr := MapError(err); apiErr != nil {
				return errorResult(apiErr), nil
			}
			logger.Error("tool failed", "tool", name, "error", err)
			return errorResult(&APIError{Code: "INTERNAL", Message: err.Error()}), nil
		}

		data, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("encode %s result: %w", name, err)
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		}, nil
	}
}

func errorResult(apiErr *APIError) *sdkmcp.CallToolResult {
	data, err := json.Marshal(apiErr)
	if err != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}
