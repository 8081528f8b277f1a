package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toolfoundation/model"
)

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (req MCPRequest) IsNotification() bool {
	return req.ID == nil && strings.HasPrefix(req.Method, "notifications/")
}

// MCPResponse represents an MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *MCPError `json:"error,omitempty"`
}

// MCPError is a JSON-RPC error object.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func errorResponse(id any, code int, msg string) MCPResponse {
	return MCPResponse{JSONRPC: "2.0", ID: id, Error: &MCPError{Code: code, Message: msg}}
}

// HandleRequest processes an MCP request and returns a response.
func (r *Registry) HandleRequest(ctx context.Context, req MCPRequest) MCPResponse {
	switch req.Method {
	case "initialize":
		return r.handleInitialize(req.ID)
	case "ping":
		return MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{}}
	case "tools/list":
		return r.handleToolsList(req.ID)
	case "tools/call":
		return r.handleToolsCall(ctx, req.ID, req.Params)
	default:
		return errorResponse(req.ID, ErrCodeMethodNotFound, fmt.Sprintf("method %s not found", req.Method))
	}
}

func (r *Registry) handleInitialize(id any) MCPResponse {
	result := map[string]any{
		"protocolVersion": model.MCPVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    r.config.ServerInfo.Name,
			"version": r.config.ServerInfo.Version,
		},
	}
	return MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func (r *Registry) handleToolsList(id any) MCPResponse {
	tools := r.ListTools()
	mcpTools := make([]map[string]any, 0, len(tools))
	for _, tool := range tools {
		entry := toMCPTool(tool.Tool)
		entry["name"] = tool.ToolID()
		mcpTools = append(mcpTools, entry)
	}
	return MCPResponse{JSONRPC: "2.0", ID: id, Result: map[string]any{"tools": mcpTools}}
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (r *Registry) handleToolsCall(ctx context.Context, id any, params json.RawMessage) MCPResponse {
	var callParams toolsCallParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return errorResponse(id, ErrCodeInvalidParams, err.Error())
	}

	began := time.Now()
	result, err := r.Execute(ctx, callParams.Name, callParams.Arguments)
	var res *mcp.CallToolResult
	if err == nil {
		res, err = toolResult(result)
	}

	code, status := 0, "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrToolNotFound):
		code, status = ErrCodeToolNotFound, "not_found"
	case errors.Is(err, ErrInvalidArguments):
		code, status = ErrCodeInvalidParams, "invalid_params"
	default:
		code, status = ErrCodeToolExecFailed, "failed"
	}
	if r.config.Observer != nil {
		r.config.Observer.ObserveToolCall(callParams.Name, status, time.Since(began))
	}

	if err != nil {
		r.logger.WarnContext(ctx, "tool call failed", "tool", callParams.Name, "error", err)
		return errorResponse(id, code, err.Error())
	}
	return MCPResponse{JSONRPC: "2.0", ID: id, Result: res}
}

func toMCPTool(tool mcp.Tool) map[string]any {
	entry := map[string]any{
		"name":        tool.Name,
		"description": tool.Description,
		"inputSchema": tool.InputSchema,
	}
	if tool.Annotations != nil {
		entry["annotations"] = tool.Annotations
	}
	return entry
}
