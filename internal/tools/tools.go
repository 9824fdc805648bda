// Package tools exposes the character actions to agents as MCP tools.
//
// Every action becomes one tool whose input schema mirrors the action's
// fields plus character_id. A call runs the check pass first and commits
// only when the check is clean. The check flag stays internal to the
// adapter and is not a tool parameter.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/observe"
	"github.com/KirkDiggler/rpg-tracker/internal/orchestrators/actions"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

// Tool names that are not actions
const (
	ToolGetSnapshot    = "get_character_snapshot"
	ToolListCharacters = "list_characters"
)

// Tool call statuses recorded in metrics
const (
	StatusRejected  = "rejected"
	StatusCommitted = "committed"
	StatusError     = "error"
)

// Config holds the dependencies for the tool adapter
type Config struct {
	Service tracker.Service
	Rules   *rules.Book
	// Roller fills in hit die rolls the caller left out. Defaults to
	// dice.DefaultRoller.
	Roller  dice.Roller
	Metrics *observe.Metrics
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	return vb.Build()
}

// Adapter registers tracker tools on an MCP server
type Adapter struct {
	service tracker.Service
	rules   *rules.Book
	roller  dice.Roller
	metrics *observe.Metrics
}

// New creates a tool adapter
func New(cfg *Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	a := &Adapter{
		service: cfg.Service,
		rules:   cfg.Rules,
		roller:  cfg.Roller,
		metrics: cfg.Metrics,
	}
	if a.roller == nil {
		a.roller = dice.DefaultRoller
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	return a, nil
}

// NewServer builds an MCP server with every tool registered
func (a *Adapter) NewServer(ctx context.Context, impl *mcp.Implementation) (*mcp.Server, error) {
	server := mcp.NewServer(impl, nil)
	if err := a.Register(ctx, server); err != nil {
		return nil, err
	}
	return server, nil
}

// Register adds the snapshot, listing and action tools to server
func (a *Adapter) Register(ctx context.Context, server *mcp.Server) error {
	actions, err := a.service.ListActions(ctx, &tracker.ListActionsInput{})
	if err != nil {
		return errors.Wrap(err, "failed to list actions")
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolListCharacters,
		Description: "List every tracked character",
	}, a.listCharacters)

	server.AddTool(&mcp.Tool{
		Name:        ToolGetSnapshot,
		Description: "Get the current derived state of a character: abilities, hit points, hit dice, spell slots and prepared spells",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				fieldCharacterID: map[string]any{"type": "string", "description": "The character to read"},
			},
			"required": []string{fieldCharacterID},
		},
	}, a.getSnapshot)

	for _, info := range actions.Actions {
		server.AddTool(&mcp.Tool{
			Name:        info.Name,
			Description: info.Description,
			InputSchema: inputSchema(info),
		}, a.actionHandler(info))
	}

	slog.DebugContext(ctx, "registered mcp tools", "actions", len(actions.Actions))
	return nil
}

// CharacterSummary is one entry of list_characters
type CharacterSummary struct {
	ID         string `json:"id" jsonschema:"character id"`
	Name       string `json:"name" jsonschema:"character name"`
	Species    string `json:"species" jsonschema:"species id"`
	Background string `json:"background" jsonschema:"background id"`
}

// ListCharactersInput takes no arguments
type ListCharactersInput struct{}

// ListCharactersResult lists the stored characters
type ListCharactersResult struct {
	Characters []CharacterSummary `json:"characters" jsonschema:"stored characters"`
}

func (a *Adapter) listCharacters(ctx context.Context, _ *mcp.CallToolRequest, _ ListCharactersInput) (*mcp.CallToolResult, ListCharactersResult, error) {
	out, err := a.service.ListCharacters(ctx, &tracker.ListCharactersInput{})
	if err != nil {
		a.metrics.RecordToolCall(ctx, ToolListCharacters, StatusError)
		return nil, ListCharactersResult{}, fmt.Errorf("list characters failed: %w", err)
	}

	result := ListCharactersResult{Characters: make([]CharacterSummary, 0, len(out.Characters))}
	for _, c := range out.Characters {
		result.Characters = append(result.Characters, CharacterSummary{
			ID:         c.ID,
			Name:       c.Name,
			Species:    c.Species,
			Background: c.Background,
		})
	}
	a.metrics.RecordToolCall(ctx, ToolListCharacters, StatusCommitted)
	return nil, result, nil
}

func (a *Adapter) getSnapshot(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(req)
	if err != nil {
		return a.toolError(ctx, ToolGetSnapshot, err), nil
	}
	characterID, _ := args[fieldCharacterID].(string)

	out, err := a.service.GetSnapshot(ctx, &tracker.GetSnapshotInput{CharacterID: characterID})
	if err != nil {
		return a.toolError(ctx, ToolGetSnapshot, err), nil
	}

	a.metrics.RecordToolCall(ctx, ToolGetSnapshot, StatusCommitted)
	return jsonResult(out.Snapshot, false)
}

func (a *Adapter) actionHandler(info tracker.ActionInfo) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := arguments(req)
		if err != nil {
			return a.toolError(ctx, info.Name, err), nil
		}
		c, err := newCall(info, args)
		if err != nil {
			return a.toolError(ctx, info.Name, err), nil
		}
		if err := a.autoRoll(ctx, c); err != nil {
			return a.toolError(ctx, info.Name, err), nil
		}

		slog.InfoContext(ctx, "tool call", "tool", info.Name, "request", c.Describe())

		out, status, err := a.run(ctx, c)
		if err != nil {
			return a.toolError(ctx, info.Name, err), nil
		}
		a.metrics.RecordToolCall(ctx, info.Name, status)
		return jsonResult(out, status == StatusRejected)
	}
}

// ToolResult is the body of every action tool response
type ToolResult struct {
	Request  string            `json:"request"`
	Complete bool              `json:"complete"`
	Values   map[string]string `json:"values,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Summary  string            `json:"summary,omitempty"`
	// Rolled lists rolls made on the caller's behalf
	Rolled      map[string]string `json:"rolled,omitempty"`
	CharacterID string            `json:"character_id,omitempty"`
}

func (a *Adapter) run(ctx context.Context, c *call) (*ToolResult, string, error) {
	check, _, err := a.perform(ctx, c, true)
	if err != nil {
		return nil, "", err
	}
	if len(check.Errors) > 0 {
		return c.result(check, ""), StatusRejected, nil
	}

	committed, characterID, err := a.perform(ctx, c, false)
	if err != nil {
		return nil, "", err
	}
	if !committed.Complete {
		return c.result(committed, ""), StatusRejected, nil
	}
	return c.result(committed, characterID), StatusCommitted, nil
}

// perform sends the form to the service. The character id is only set when
// a character was created.
func (a *Adapter) perform(ctx context.Context, c *call, checkOnly bool) (*tracker.ActionResult, string, error) {
	form := c.form(checkOnly)

	if c.action == actions.NameCreateCharacter {
		out, err := a.service.CreateCharacter(ctx, &tracker.CreateCharacterInput{Input: form})
		if err != nil {
			return nil, "", err
		}
		if out.Result == nil {
			return nil, "", errors.Internal("create_character returned no result")
		}
		if out.Character != nil {
			return out.Result, out.Character.ID, nil
		}
		return out.Result, "", nil
	}

	out, err := a.service.PerformAction(ctx, &tracker.PerformActionInput{
		CharacterID: c.characterID,
		Action:      c.action,
		Input:       form,
	})
	if err != nil {
		return nil, "", err
	}
	if out.Result == nil {
		return nil, "", errors.Internalf("%s returned no result", c.action)
	}
	return out.Result, "", nil
}

func (a *Adapter) toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	a.metrics.RecordToolCall(ctx, tool, StatusError)
	slog.WarnContext(ctx, "tool call failed", "tool", tool, "error", err)

	body := map[string]any{"error": err.Error(), "code": errors.GetCode(err).String()}
	if fields := errors.StructuralFields(err); fields != nil {
		body["fields"] = fields
	}
	res, encErr := jsonResult(body, true)
	if encErr != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		}
	}
	return res
}

func jsonResult(v any, isError bool) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode tool result")
	}
	return &mcp.CallToolResult{
		IsError: isError,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func arguments(req *mcp.CallToolRequest) (map[string]any, error) {
	args := map[string]any{}
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, errors.InvalidArgumentf("arguments must be a JSON object: %v", err)
	}
	return args, nil
}
