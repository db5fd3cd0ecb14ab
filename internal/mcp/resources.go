// resources.go serves documents as MCP resources, read-only access by
// URI for clients loading context rather than acting. URIs look like
// patchd://documents/{path}, with an optional /v/{version} suffix;
// without it the latest version is returned, matching cat.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyPath indicates a resource URI with no document path.
	ErrEmptyPath = errors.New("empty document path")
)

func (h *handlers) readDocumentResource(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}

	path, version, err := parseDocumentURI(uri)
	if err != nil {
		return nil, err
	}

	var content string
	if version > 0 {
		doc, err := h.svc.Version(ctx, path, version)
		if err != nil {
			return nil, err
		}
		content = doc.Content
	} else {
		// Keys work wherever paths do, resources included.
		doc, _, err := h.svc.Resolve(ctx, path, false)
		if err != nil {
			return nil, err
		}
		content = doc.Content
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     content,
		},
	}, nil
}

// parseDocumentURI splits patchd://documents/{path}[/v/{version}] into
// its path and version, version 0 meaning latest.
func parseDocumentURI(uri string) (path string, version int, err error) {
	const prefix = "patchd://documents/"
	if !strings.HasPrefix(uri, prefix) {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}

	rest := strings.TrimPrefix(uri, prefix)
	if rest == "" {
		return "", 0, ErrEmptyPath
	}

	if idx := strings.LastIndex(rest, "/v/"); idx != -1 {
		path = rest[:idx]
		vStr := rest[idx+3:]
		v, err := strconv.Atoi(vStr)
		if err != nil {
			return "", 0, fmt.Errorf("%w: invalid version %s", ErrInvalidURI, vStr)
		}
		return path, v, nil
	}

	return rest, 0, nil
}
