// tools_guide.go holds the patchd_guide MCP tool, the embedded
// documentation an agent can read without leaving the session.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/patchd/guide"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) getGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	topic := getString(req, "topic", "")

	content, err := guide.Get(topic)

	log.Event("mcp:guide", "read").Author("mcp").Detail("topic", topic).Write(err)

	if err != nil {
		// An unknown topic still gets a useful answer: the topics that exist.
		topics, listErr := guide.List()
		if listErr != nil {
			return nil, fmt.Errorf("listing guides: %w", listErr)
		}
		return jsonResult(map[string]any{
			"error":            err.Error(),
			"available_topics": topics,
		})
	}

	return mcp.NewToolResultText(content), nil
}
