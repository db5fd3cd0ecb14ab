// The cmd tests drive the compiled binary end to end, from flag parsing
// down to SQLite. Internal packages without their own _test.go files are
// covered here; their failures surface as CLI test failures.

package cmd

import (
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles patchd once per test run and returns its path.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "patchd-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		name := "patchd"
		if os.PathSeparator == '\\' {
			name += ".exe"
		}
		binaryPath = filepath.Join(tmpDir, name)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = filepath.Dir(mustGetwd())
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv runs the binary inside its own initialised store directory.
type testEnv struct {
	t      *testing.T
	dir    string
	binary string
}

// newTestEnv initialises a store in a temp directory with a default author,
// so author-required commands work without -a. Tests that exercise the
// missing-author path remove .patchd/config.yaml first. HOME is pinned to
// the same directory so host-level config cannot leak in.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{t: t, dir: t.TempDir(), binary: buildBinary(t)}

	env.run("init")
	env.run("config", "author.name", "test-author")

	return env
}

// exec runs the binary with optional stdin and returns combined output.
func (e *testEnv) exec(stdin io.Reader, args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.dir)
	cmd.Stdin = stdin
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// run executes patchd and fails the test on error.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.exec(nil, args...)
	if err != nil {
		e.t.Fatalf("patchd %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes patchd and returns the output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	return e.exec(nil, args...)
}

// runStdin executes patchd with stdin input, failing the test on error.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.exec(strings.NewReader(input), args...)
	if err != nil {
		e.t.Fatalf("patchd %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes patchd with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()
	return e.exec(strings.NewReader(input), args...)
}

func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals compares output to expected, ignoring surrounding whitespace.
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// testGuideContent loads guide/guide.md as realistic long-form test data.
func testGuideContent() string {
	projectRoot := filepath.Dir(mustGetwd())
	content, err := os.ReadFile(filepath.Join(projectRoot, "guide", "guide.md"))
	if err != nil {
		panic("failed to read guide/guide.md for tests: " + err.Error())
	}
	return string(content)
}

// batchJSON encodes original/replacement pairs as a JSON batch for apply.
func batchJSON(t *testing.T, pairs ...[2]string) string {
	t.Helper()
	type edit struct {
		Original    string `json:"original"`
		Replacement string `json:"replacement"`
	}
	edits := make([]edit, len(pairs))
	for i, p := range pairs {
		edits[i] = edit{Original: p[0], Replacement: p[1]}
	}
	data, err := json.Marshal(edits)
	if err != nil {
		t.Fatalf("encoding batch: %v", err)
	}
	return string(data)
}

// Test apply operations - what we search for and replace with.
// Both strings occur exactly once in guide/guide.md.
const (
	testApplyOriginal    = "versioned document store"
	testApplyReplacement = "versioned document catalogue"
)

// Large content blocks for LLM-style editing tests.
// These simulate real LLM outputs - entire sections, not small edits.

// LLMTestDoc_V1 is a complete document an LLM might create
const LLMTestDoc_V1 = `# API Documentation

## Overview

This API provides access to the document management system. All endpoints
require authentication via Bearer tokens obtained from the /auth endpoint.

## Authentication

To authenticate, send a POST request to /auth/login with your credentials:

` + "```json" + `
{
    "username": "your-username",
    "password": "your-password"
}
` + "```" + `

The response will contain a JWT token valid for 24 hours.

## Endpoints

### GET /documents

Returns a list of all documents the authenticated user can access.

**Parameters:**
- ` + "`limit`" + ` (optional): Maximum number of results (default: 100)
- ` + "`offset`" + ` (optional): Pagination offset (default: 0)
- ` + "`sort`" + ` (optional): Sort field (default: created_at)

**Response:**
` + "```json" + `
{
    "documents": [
        {
            "id": "doc-123",
            "title": "Getting Started",
            "created_at": "2024-01-15T10:30:00Z",
            "updated_at": "2024-01-15T14:22:00Z"
        }
    ],
    "total": 42,
    "limit": 100,
    "offset": 0
}
` + "```" + `

### POST /documents

Creates a new document.

**Request Body:**
` + "```json" + `
{
    "title": "Document Title",
    "content": "Document content in markdown format",
    "tags": ["tag1", "tag2"]
}
` + "```" + `

### GET /documents/{id}

Returns a specific document by ID.

### PUT /documents/{id}

Updates an existing document.

### DELETE /documents/{id}

Soft-deletes a document (can be restored within 30 days).

## Error Handling

All errors follow this format:

` + "```json" + `
{
    "error": {
        "code": "DOCUMENT_NOT_FOUND",
        "message": "The requested document does not exist",
        "details": {}
    }
}
` + "```" + `

## Rate Limiting

- Standard users: 100 requests per minute
- Premium users: 1000 requests per minute

Rate limit headers are included in all responses.
`

// LLMTestDoc_V2_QuickStartReplacement is what an LLM would replace
// the "Quick Start" section with - a completely rewritten section
const LLMTestDoc_V2_QuickStartReplacement = `## Quick Start Guide

Welcome to patchd! This guide will get you up and running in minutes.

### Prerequisites

Before you begin, ensure you have:
- Go 1.21 or later installed
- A terminal with UTF-8 support
- Basic familiarity with command-line tools

### Installation

Install patchd using Go:

` + "```bash" + `
go install github.com/jpl-au/patchd@latest
` + "```" + `

Or download a pre-built binary from the releases page.

### Your First Document Store

1. **Initialise a new store:**

` + "```bash" + `
mkdir my-docs && cd my-docs
patchd init
patchd config author.name "Your Name"
` + "```" + `

2. **Create your first document:**

` + "```bash" + `
echo "# Welcome

This is my first document in patchd." | patchd write docs/welcome
` + "```" + `

3. **View your document:**

` + "```bash" + `
patchd cat docs/welcome
` + "```" + `

4. **List all documents:**

` + "```bash" + `
patchd ls
` + "```" + `

### Next Steps

- Learn about [editing documents](#editing)
- Explore [version history](#history)
- Set up [file synchronisation](#sync)
`

// LLMTestDoc_V3_CommandsTableReplacement replaces the commands table
// with an expanded, detailed version
const LLMTestDoc_V3_CommandsTableReplacement = `## Available Commands

patchd provides a comprehensive set of commands for document management.
Each command supports ` + "`--help`" + ` for detailed usage information.

### Core Commands

| Command | Description | Example |
|---------|-------------|---------|
| ` + "`init`" + ` | Initialise a new document store | ` + "`patchd init`" + ` |
| ` + "`write`" + ` | Create or update a document | ` + "`echo \"content\" \\| patchd write path`" + ` |
| ` + "`cat`" + ` | Display document contents | ` + "`patchd cat docs/readme`" + ` |
| ` + "`apply`" + ` | Apply a batch of patches | ` + "`patchd apply path -f batch.json`" + ` |
| ` + "`rm`" + ` | Soft-delete a document | ` + "`patchd rm docs/old`" + ` |

### Search Commands

| Command | Description | Example |
|---------|-------------|---------|
| ` + "`ls`" + ` | List documents | ` + "`patchd ls docs/`" + ` |
| ` + "`grep`" + ` | Search document contents | ` + "`patchd grep \"TODO\"`" + ` |
| ` + "`glob`" + ` | Pattern-based path matching | ` + "`patchd glob \"docs/**\"`" + ` |

### History Commands

| Command | Description | Example |
|---------|-------------|---------|
| ` + "`history`" + ` | View version history | ` + "`patchd history docs/api`" + ` |
| ` + "`diff`" + ` | Compare versions | ` + "`patchd diff docs/api -v 1:3`" + ` |
| ` + "`batches`" + ` | List patch apply records | ` + "`patchd batches docs/api`" + ` |
| ` + "`restore`" + ` | Restore deleted document | ` + "`patchd restore docs/old`" + ` |

### Sync Commands

| Command | Description | Example |
|---------|-------------|---------|
| ` + "`import`" + ` | Import from filesystem | ` + "`patchd import ./docs/`" + ` |
| ` + "`export`" + ` | Export to filesystem | ` + "`patchd export docs/ ./out/`" + ` |
| ` + "`sync`" + ` | Sync filesystem changes | ` + "`patchd sync`" + ` |
`

// LLMTestDoc_V4_NewSection is an entirely new section an LLM adds
const LLMTestDoc_V4_NewSection = `## Advanced Usage

### Working with Large Documents

When working with documents over 1000 lines, consider these best practices:

1. **Use patch batches** for targeted changes:
` + "```bash" + `
# Apply a prepared batch of search/replace edits
patchd apply docs/large -f new-section-batch.json
` + "```" + `

2. **Leverage grep for navigation:**
` + "```bash" + `
# Find all TODO items with line numbers
patchd grep -n "TODO" docs/
` + "```" + `

3. **Use structured paths** for organisation:
` + "```" + `
docs/
├── api/
│   ├── authentication
│   ├── endpoints
│   └── errors
├── guides/
│   ├── quickstart
│   └── advanced
└── reference/
    ├── commands
    └── config
` + "```" + `

### Automation and Scripting

patchd works great in scripts and CI/CD pipelines:

` + "```bash" + `
#!/bin/bash
set -euo pipefail

# Update version in all docs
for doc in $(patchd glob "docs/**"); do
    patchd apply "$doc" --original "v1.0.0" --replacement "v1.1.0" -a "release-bot"
done

# Export for static site generator
patchd export docs/ ./public/docs/

# Verify no broken links
patchd grep -l "](docs/" docs/ | while read doc; do
    echo "Checking links in $doc..."
done
` + "```" + `

### Integration with AI Assistants

When using patchd with AI assistants like Claude:

1. **Always identify yourself:**
` + "```bash" + `
patchd write docs/feature -a "claude-code" -m "Added authentication docs"
` + "```" + `

2. **Use JSON output for parsing:**
` + "```bash" + `
patchd ls -o json | jq '.[] | select(.path | startswith("docs/api"))'
` + "```" + `

3. **Check history before editing:**
` + "```bash" + `
patchd history docs/api -n 5  # See recent changes first
` + "```" + `
`

// LLMTestDoc_V5_CompleteRewrite is a complete document rewrite
const LLMTestDoc_V5_CompleteRewrite = `# patchd Reference Manual

**Version 2.0 - Complete Rewrite**

This document has been completely rewritten to provide clearer,
more comprehensive documentation for the patchd document management system.

## Table of Contents

1. [Introduction](#introduction)
2. [Installation](#installation)
3. [Core Concepts](#core-concepts)
4. [Command Reference](#command-reference)
5. [Configuration](#configuration)
6. [Best Practices](#best-practices)

## Introduction

patchd is a command-line document management system designed for
developers and technical writers. It provides:

- **Version Control**: Every change creates a new version
- **Full-Text Search**: Find content across all documents
- **Filesystem Sync**: Optional bidirectional sync with .md files
- **AI-Friendly**: JSON output and author attribution for LLM integration

## Installation

### Using Go

` + "```bash" + `
go install github.com/jpl-au/patchd@latest
` + "```" + `

### From Source

` + "```bash" + `
git clone https://github.com/jpl-au/patchd.git
cd patchd
go build -o patchd .
sudo mv patchd /usr/local/bin/
` + "```" + `

## Core Concepts

### Document Paths

Documents are identified by paths without file extensions:

- ✓ ` + "`docs/api/authentication`" + `
- ✗ ` + "`docs/api/authentication.md`" + `

### Versions

Every write operation creates a new version. Versions are numbered
sequentially starting from 1. You can access any version:

` + "```bash" + `
patchd cat docs/readme -v 3    # Read version 3
patchd diff docs/readme -v 1:5 # Compare versions 1 and 5
` + "```" + `

### Authors

Track who made changes with the ` + "`-a`" + ` flag:

` + "```bash" + `
patchd apply docs/api --original "old" --replacement "new" -a "claude" -m "Fixed typo"
` + "```" + `

## Command Reference

### Document Operations

#### write
` + "```bash" + `
echo "content" | patchd write <path> [-a author] [-m message]
` + "```" + `

#### cat
` + "```bash" + `
patchd cat <path> [-v version] [-o json]
` + "```" + `

#### apply
` + "```bash" + `
echo '[{"original": "old", "replacement": "new"}]' | patchd apply <path>
patchd apply <path> -f batch.json  # Prepared batch file
` + "```" + `

### Search Operations

#### grep
` + "```bash" + `
patchd grep <pattern> [path] [-i] [-l] [-c]
` + "```" + `

#### glob
` + "```bash" + `
patchd glob "docs/**"
` + "```" + `

## Configuration

Configuration is stored in ` + "`.patchd/config.yaml`" + `:

` + "```yaml" + `
author:
  name: Your Name
  email: you@example.com
sync:
  files: true  # Enable filesystem sync
` + "```" + `

## Best Practices

1. **Use meaningful paths**: ` + "`docs/api/auth`" + ` not ` + "`doc1`" + `
2. **Always attribute changes**: Use ` + "`-a`" + ` flag consistently
3. **Write descriptive messages**: Use ` + "`-m`" + ` for important changes
4. **Regular exports**: Back up with ` + "`patchd export`" + `
`

