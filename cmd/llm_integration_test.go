package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// The tests in this file drive the binary the way an LLM session does:
// long documents, repeated large edits, patches mixed with full rewrites,
// and history spot-checks along the way.

func TestLLM_ComprehensiveEditingWorkflow(t *testing.T) {
	env := newTestEnv(t)

	env.runStdin(LLMTestDoc_V1, "write", "docs/api", "-a", "human", "-m", "Initial API documentation")

	v1Content := env.run("cat", "docs/api")
	env.contains(v1Content, "# API Documentation")
	env.contains(v1Content, "## Authentication")
	env.contains(v1Content, "Bearer tokens")
	env.contains(v1Content, "## Endpoints")
	env.contains(v1Content, "Rate limit headers")

	// Seed a Quick Start section, then let a patch rewrite it wholesale.
	docWithQuickStart := LLMTestDoc_V1 + "\n## Quick Start\n\nBasic quick start info here.\n"
	env.runStdin(docWithQuickStart, "write", "docs/api", "-a", "human", "-m", "Added Quick Start")

	batch := batchJSON(t, [2]string{
		"## Quick Start\n\nBasic quick start info here.",
		LLMTestDoc_V2_QuickStartReplacement,
	})
	env.runStdin(batch, "apply", "docs/api", "-a", "claude-opus", "-m", "Completely rewrote Quick Start section")

	v3Content := env.run("cat", "docs/api")
	env.contains(v3Content, "## Quick Start Guide")
	env.contains(v3Content, "### Prerequisites")
	env.contains(v3Content, "Go 1.21 or later")
	env.contains(v3Content, "### Your First Document Store")
	// Untouched sections survive the patch.
	env.contains(v3Content, "## Authentication")
	env.contains(v3Content, "Bearer tokens")

	// A single-edit apply followed by an appended commands reference.
	env.run("apply", "docs/api", "--original", "## Endpoints", "--replacement", "## Endpoints (Legacy)", "-a", "claude-opus")

	currentContent := env.run("cat", "docs/api")
	env.runStdin(currentContent+"\n"+LLMTestDoc_V3_CommandsTableReplacement,
		"write", "docs/api", "-a", "claude-opus", "-m", "Added expanded commands reference")

	v5Content := env.run("cat", "docs/api")
	env.contains(v5Content, "## Available Commands")
	env.contains(v5Content, "### Core Commands")
	env.contains(v5Content, "### Search Commands")
	env.contains(v5Content, "### History Commands")
	env.contains(v5Content, "### Sync Commands")
	env.contains(v5Content, "| `grep` |")

	// Append an advanced section.
	currentContent = env.run("cat", "docs/api")
	env.runStdin(currentContent+"\n"+LLMTestDoc_V4_NewSection,
		"write", "docs/api", "-a", "claude-opus", "-m", "Added advanced usage section")

	v6Content := env.run("cat", "docs/api")
	env.contains(v6Content, "## Advanced Usage")
	env.contains(v6Content, "### Working with Large Documents")
	env.contains(v6Content, "### Automation and Scripting")
	env.contains(v6Content, "### Integration with AI Assistants")
	env.contains(v6Content, "set -euo pipefail")

	// Full rewrite as the final version.
	env.runStdin(LLMTestDoc_V5_CompleteRewrite, "write", "docs/api", "-a", "claude-opus", "-m", "Complete documentation rewrite v2.0")

	v7Content := env.run("cat", "docs/api")
	env.contains(v7Content, "# patchd Reference Manual")
	env.contains(v7Content, "**Version 2.0 - Complete Rewrite**")
	env.contains(v7Content, "## Table of Contents")
	env.contains(v7Content, "## Core Concepts")
	env.contains(v7Content, "## Best Practices")

	history := env.run("history", "docs/api")
	env.contains(history, "v1")
	env.contains(history, "v7")
	env.contains(history, "human")
	env.contains(history, "claude-opus")
	env.contains(history, "Initial API documentation")
	env.contains(history, "Complete documentation rewrite")

	// Both applies left audit records.
	batches := env.run("batches", "docs/api")
	env.contains(batches, "docs/api")
	env.contains(batches, "claude-opus")
	env.contains(batches, "applied=1")

	// Early and late versions stay retrievable and distinct.
	v1Check := env.run("cat", "-v", "1", "docs/api")
	env.contains(v1Check, "# API Documentation")
	env.contains(v1Check, "Bearer tokens")
	if strings.Contains(v1Check, "Quick Start Guide") {
		t.Error("v1 contains content introduced later")
	}

	v7Check := env.run("cat", "-v", "7", "docs/api")
	env.contains(v7Check, "# patchd Reference Manual")
	env.contains(v7Check, "Version 2.0")
	if strings.Contains(v7Check, "# API Documentation") {
		t.Error("v7 contains the pre-rewrite header")
	}

	diff1to7 := env.run("diff", "docs/api", "-v", "1:7")
	env.contains(diff1to7, "API Documentation")
	env.contains(diff1to7, "patchd Reference Manual")

	diff6to7 := env.run("diff", "docs/api", "-v", "6:7")
	env.contains(diff6to7, "v6")
	env.contains(diff6to7, "v7")

	grepResult := env.run("grep", "authentication", "docs/api")
	env.contains(grepResult, "docs/api")

	grepResult = env.run("grep", "-i", "version", "docs/api")
	env.contains(grepResult, "docs/api")

	grepResult = env.run("grep", "Reference Manual")
	env.contains(grepResult, "docs/api")
}

func TestLLM_FilesystemDiffIntegration(t *testing.T) {
	env := newTestEnv(t)
	guide := testGuideContent()

	env.runStdin(guide, "write", "docs/guide", "-a", "import", "-m", "Imported from guide/guide.md")

	imported := env.run("cat", "docs/guide")
	if imported != guide {
		t.Errorf("imported content differs from guide.md: want %d bytes, got %d", len(guide), len(imported))
	}

	env.runStdin(batchJSON(t, [2]string{"## Quick start", LLMTestDoc_V2_QuickStartReplacement}),
		"apply", "docs/guide", "-a", "claude", "-m", "Rewrote Quick Start")

	env.runStdin(batchJSON(t, [2]string{"## Everyday commands", LLMTestDoc_V3_CommandsTableReplacement}),
		"apply", "docs/guide", "-a", "claude", "-m", "Expanded Commands")

	v3Content := env.run("cat", "docs/guide")
	env.runStdin(v3Content+"\n"+LLMTestDoc_V4_NewSection, "write", "docs/guide", "-a", "claude", "-m", "Added Advanced section")

	history := env.run("history", "docs/guide")
	env.contains(history, "v4")

	diff1to4 := env.run("diff", "docs/guide", "-v", "1:4")
	env.contains(diff1to4, "Quick Start")

	// v1 still matches the filesystem original byte for byte.
	v1Content := env.run("cat", "-v", "1", "docs/guide")
	if v1Content != guide {
		t.Errorf("v1 differs from guide.md: want %d bytes, got %d", len(guide), len(v1Content))
	}

	exportDir := filepath.Join(env.dir, "exported")
	env.run("export", "docs/", exportDir)

	exportedContent, err := os.ReadFile(filepath.Join(exportDir, "guide.md"))
	if err != nil {
		t.Fatalf("reading exported file: %v", err)
	}
	if string(exportedContent) != env.run("cat", "docs/guide") {
		t.Error("exported content differs from the current version")
	}
}

func TestLLM_MassiveVersionHistory(t *testing.T) {
	env := newTestEnv(t)

	env.runStdin(LLMTestDoc_V1, "write", "docs/massive", "-a", "init")

	sections := []string{
		LLMTestDoc_V2_QuickStartReplacement,
		LLMTestDoc_V3_CommandsTableReplacement,
		LLMTestDoc_V4_NewSection,
		LLMTestDoc_V5_CompleteRewrite,
	}

	// Twenty appends produce a steadily growing document with 21 versions.
	for i := range 20 {
		section := sections[i%len(sections)]
		current := env.run("cat", "docs/massive")
		marker := strings.Repeat("=", 40) + "\n## Iteration " + string(rune('A'+i)) + "\n"
		env.runStdin(current+"\n"+marker+section, "write", "docs/massive", "-a", "llm-iteration-"+string(rune('A'+i)))
	}

	history := env.run("history", "docs/massive")
	env.contains(history, "v21")
	env.contains(history, "llm-iteration-A")
	env.contains(history, "llm-iteration-T")

	v1 := env.run("cat", "-v", "1", "docs/massive")
	env.contains(v1, "# API Documentation")

	v10 := env.run("cat", "-v", "10", "docs/massive")
	env.contains(v10, "## Iteration")

	v21 := env.run("cat", "-v", "21", "docs/massive")
	env.contains(v21, "## Iteration T")

	diff1to21 := env.run("diff", "docs/massive", "-v", "1:21")
	env.contains(diff1to21, "v1")
	env.contains(diff1to21, "v21")

	grepResult := env.run("grep", "authentication", "docs/massive")
	env.contains(grepResult, "docs/massive")
}

func TestLLM_MultipleDocumentsSimultaneous(t *testing.T) {
	env := newTestEnv(t)

	docs := map[string]string{
		"docs/api/overview":      LLMTestDoc_V1,
		"docs/api/auth":          LLMTestDoc_V2_QuickStartReplacement,
		"docs/guides/quickstart": LLMTestDoc_V3_CommandsTableReplacement,
		"docs/guides/advanced":   LLMTestDoc_V4_NewSection,
		"docs/reference/manual":  LLMTestDoc_V5_CompleteRewrite,
	}

	for path, content := range docs {
		env.runStdin(content, "write", path, "-a", "claude-init")
	}

	for path := range docs {
		for i := range 3 {
			current := env.run("cat", path)
			env.runStdin(current+"\n\n## Update "+string(rune('1'+i))+"\n\nAdditional content.\n",
				"write", path, "-a", "claude-update-"+string(rune('1'+i)))
		}
	}

	for path := range docs {
		history := env.run("history", path)
		env.contains(history, "v4")
		env.contains(history, "claude-init")
		env.contains(history, "claude-update-3")
	}

	lsResult := env.run("ls", "docs/")
	env.contains(lsResult, "docs/api/overview")
	env.contains(lsResult, "docs/api/auth")
	env.contains(lsResult, "docs/guides/quickstart")
	env.contains(lsResult, "docs/guides/advanced")
	env.contains(lsResult, "docs/reference/manual")

	grepResult := env.run("grep", "-r", "content", "docs/")
	env.contains(grepResult, "docs/api")
	env.contains(grepResult, "docs/guides")
	env.contains(grepResult, "docs/reference")

	v1Overview := env.run("cat", "-v", "1", "docs/api/overview")
	env.contains(v1Overview, "# API Documentation")

	v4Manual := env.run("cat", "-v", "4", "docs/reference/manual")
	env.contains(v4Manual, "## Update 3")
}

func TestLLM_SearchAndReplaceChain(t *testing.T) {
	env := newTestEnv(t)
	guide := testGuideContent()

	env.runStdin(guide, "write", "docs/guide", "-a", "import")

	// Each single-edit apply builds on the output of the previous one.
	edits := []struct {
		old, new, author, message string
	}{
		{"versioned document store", "versioned documentation system", "claude", "Updated terminology"},
		{"versioned documentation system", "versioned document management platform", "claude", "Refined terminology"},
		{"# patchd", "# patchd User Manual", "claude", "Updated title"},
		{"# patchd User Manual", "# patchd Documentation Portal", "claude", "Rebranded"},
		{"patchd init", "patchd initialise", "claude", "Standardised command names"},
		{"patchd cat docs/readme", "patchd read docs/readme", "claude", "Made command more intuitive"},
		{"## Quick start", "## Getting started", "claude", "More descriptive heading"},
		{"## LLM integration", "## AI assistant integration", "claude", "Professional section name"},
	}

	for _, e := range edits {
		env.run("apply", "docs/guide", "--original", e.old, "--replacement", e.new, "-a", e.author, "-m", e.message)
	}

	final := env.run("cat", "docs/guide")
	env.contains(final, "document management platform")
	env.contains(final, "# patchd Documentation Portal")
	env.contains(final, "patchd initialise")
	env.contains(final, "## Getting started")
	env.contains(final, "AI assistant integration")

	// One original write plus eight applies.
	history := env.run("history", "docs/guide")
	env.contains(history, "v9")

	batches := env.run("batches", "docs/guide")
	env.contains(batches, "docs/guide")
	env.contains(batches, "applied=1")

	v1 := env.run("cat", "-v", "1", "docs/guide")
	env.contains(v1, "document store")
	env.contains(v1, "# patchd")
	env.contains(v1, "patchd init")
	env.contains(v1, "## Quick start")
	env.contains(v1, "## LLM integration")

	diff := env.run("diff", "docs/guide", "-v", "1:9")
	env.contains(diff, "Documentation Portal")
	env.contains(diff, "v1")
	env.contains(diff, "v9")
}

func TestLLM_MultiEditBatch(t *testing.T) {
	env := newTestEnv(t)
	guide := testGuideContent()

	env.runStdin(guide, "write", "docs/guide", "-a", "import")

	// One batch rewrites two sections; listing order is irrelevant.
	batch := batchJSON(t,
		[2]string{"## Everyday commands", LLMTestDoc_V3_CommandsTableReplacement},
		[2]string{"## Quick start", LLMTestDoc_V2_QuickStartReplacement},
	)
	out := env.runStdin(batch, "apply", "docs/guide", "-a", "claude", "-m", "Rewrote quick start and commands sections")
	env.contains(out, "2 applied")

	v2Content := env.run("cat", "docs/guide")
	env.contains(v2Content, "## Quick Start Guide")
	env.contains(v2Content, "### Prerequisites")
	env.contains(v2Content, "## Available Commands")
	env.contains(v2Content, "### Core Commands")
	env.contains(v2Content, "# patchd")
	env.contains(v2Content, "## Filesystem sync")

	env.runStdin(batchJSON(t, [2]string{"## LLM integration", LLMTestDoc_V4_NewSection}),
		"apply", "docs/guide", "-a", "claude", "-m", "Replaced end with Advanced section")

	v3Content := env.run("cat", "docs/guide")
	env.contains(v3Content, "## Advanced Usage")
	env.contains(v3Content, "### Working with Large Documents")

	v1 := env.run("cat", "-v", "1", "docs/guide")
	if v1 != guide {
		t.Error("v1 differs from the original guide.md")
	}

	diff := env.run("diff", "docs/guide", "-v", "1:3")
	env.contains(diff, "v1")
	env.contains(diff, "v3")
}
