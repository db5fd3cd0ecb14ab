package cmd

import (
	"strings"
	"testing"
)

const opsDoc = `# Operations Guide

## Access

All deploy operations require authentication via JWT tokens.
Request access through the platform team.

## Failure Modes

The service reports standard HTTP status codes:
- 400: bad request
- 401: unauthorised
- 502: upstream error
- 503: overloaded

## Quotas

Each tenant gets 250 requests per minute.
`

const planDoc = `# Sprint Plan - 2024-03-04

## Team
- Dana (platform)
- Eli (backend)
- Fern (docs)

## Summary

Agreed to move session authentication behind the gateway.
Eli flagged retry behaviour as an open question.
Fern will refresh the onboarding pages.

## Follow-ups
- TODO: Dana to rotate the signing keys
- TODO: Eli to document retry behaviour
- TODO: Fern to update the onboarding guide
`

func TestGrep_Recursive(t *testing.T) {
	t.Run("without -r only searches direct children", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin("top level TODO item", "write", "readme")
		env.runStdin(planDoc, "write", "docs/meeting")

		out := env.run("grep", "TODO")
		env.contains(out, "readme")
		if strings.Contains(out, "docs/meeting") {
			t.Error("grep without -r matched a nested document")
		}
	})

	t.Run("with -r searches all nested documents", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin("top level TODO item", "write", "readme")
		env.runStdin(planDoc, "write", "docs/meeting")

		out := env.run("grep", "-r", "TODO")
		env.contains(out, "readme")
		env.contains(out, "docs/meeting")
	})

	t.Run("prefix without -r searches direct children of prefix", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")
		env.runStdin(planDoc, "write", "docs/notes/meeting")

		out := env.run("grep", "authentication", "docs/")
		env.contains(out, "docs/api")
		if strings.Contains(out, "docs/notes/meeting") {
			t.Error("grep docs/ without -r matched a deeply nested document")
		}
	})

	t.Run("prefix with -r searches all under prefix", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")
		env.runStdin(planDoc, "write", "docs/notes/meeting")

		out := env.run("grep", "-r", "authentication", "docs/")
		env.contains(out, "docs/api")
		env.contains(out, "docs/notes/meeting")
	})
}

func TestGrep(t *testing.T) {
	t.Run("basic match", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		out := env.run("grep", "-r", "authentication")
		env.contains(out, "docs/api")
		env.contains(out, "authentication")
	})

	t.Run("no match", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		out := env.run("grep", "-r", "NONEXISTENT_TERM_12345")
		if strings.Contains(out, "docs/api") {
			t.Error("grep matched a term the document does not contain")
		}
	})

	t.Run("case sensitive by default", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		out := env.run("grep", "-r", "jwt")
		if strings.Contains(out, "docs/api") {
			t.Error("grep jwt matched JWT; matching should be case-sensitive")
		}

		out = env.run("grep", "-r", "JWT")
		env.contains(out, "docs/api")

		out = env.run("grep", "-r", "-i", "jwt")
		env.contains(out, "docs/api")
	})

	t.Run("JSON output", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		out := env.run("grep", "-r", "authentication", "-o", "json")
		env.contains(out, `"path"`)
		env.contains(out, "docs/api")
	})
}

func TestGrep_Scope(t *testing.T) {
	t.Run("path scope excludes other paths", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")
		env.runStdin(planDoc, "write", "notes/meeting")

		out := env.run("grep", "-r", "authentication", "docs/")
		env.contains(out, "docs/api")
		if strings.Contains(out, "notes/meeting") {
			t.Error("grep scoped to docs/ matched notes/meeting")
		}
	})

	t.Run("matches across paths", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")
		env.runStdin(planDoc, "write", "notes/meeting")

		out := env.run("grep", "-r", "-i", "authentication")
		env.contains(out, "docs/api")
		env.contains(out, "notes/meeting")
	})
}

func TestGrep_PathsOnly(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin(opsDoc, "write", "docs/api")
	env.runStdin(planDoc, "write", "notes/meeting")

	out := env.run("grep", "-r", "-l", "TODO")
	env.contains(out, "notes/meeting")
	if strings.Contains(out, "Dana to rotate") {
		t.Error("grep -l printed matching content, want paths only")
	}
}

func TestGrep_Deleted(t *testing.T) {
	t.Run("normal excludes deleted", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(planDoc, "write", "notes/meeting")
		env.run("rm", "notes/meeting")

		out := env.run("grep", "-r", "TODO")
		if strings.Contains(out, "notes/meeting") {
			t.Error("grep matched a deleted document")
		}
	})

	t.Run("-D includes only deleted", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(planDoc, "write", "notes/meeting")
		env.run("rm", "notes/meeting")

		out := env.run("grep", "-r", "-D", "TODO")
		env.contains(out, "notes/meeting")
	})

	t.Run("-A includes all", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(testGuideContent(), "write", "docs/guide")
		env.runStdin("Another document about version control systems", "write", "docs/other")
		env.run("rm", "docs/other")

		out := env.run("grep", "-r", "-A", "version")
		env.contains(out, "docs/guide")
		env.contains(out, "docs/other")
	})
}

func TestGrep_Invert(t *testing.T) {
	t.Run("invert excludes matching lines", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(planDoc, "write", "notes/meeting")

		out := env.run("grep", "-r", "TODO")
		env.contains(out, "TODO")
		env.contains(out, "Dana to rotate")

		out = env.run("grep", "-r", "-v", "TODO")
		if strings.Contains(out, "TODO") {
			t.Error("grep -v TODO still printed TODO lines")
		}
		// Non-matching lines of the same document remain.
		env.contains(out, "notes/meeting")
		env.contains(out, "Sprint Plan")
	})

	t.Run("invert with case insensitive", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		out := env.run("grep", "-r", "-v", "-i", "error")
		if strings.Contains(out, "Error") || strings.Contains(out, "error") {
			t.Error("grep -v -i error still printed error lines")
		}
		env.contains(out, "docs/api")
		env.contains(out, "Access")
	})
}

func TestGrep_Count(t *testing.T) {
	t.Run("count matches", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(planDoc, "write", "notes/meeting")

		out := env.run("grep", "-r", "-c", "TODO")
		env.contains(out, "notes/meeting:3")
	})

	t.Run("count multiple documents", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(planDoc, "write", "notes/meeting")
		env.runStdin(opsDoc, "write", "docs/api")

		out := env.run("grep", "-r", "-c", "-i", "the")
		env.contains(out, "notes/meeting:")
		env.contains(out, "docs/api:")
	})
}

func TestGrep_Context(t *testing.T) {
	t.Run("context lines", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin("first\nsecond\nMATCH here\nfourth\nfifth", "write", "notes")

		out := env.run("grep", "-C", "1", "MATCH")
		env.contains(out, "second")
		env.contains(out, "MATCH here")
		env.contains(out, "fourth")
	})

	t.Run("context around repeated matches", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(planDoc, "write", "notes/meeting")

		out := env.run("grep", "-r", "-C", "1", "TODO")
		env.contains(out, "TODO")
		env.contains(out, "Follow-ups")
	})

	t.Run("negative context rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		if _, err := env.runErr("grep", "-C", "-1", "test"); err == nil {
			t.Error("grep -C -1 should fail")
		}
	})
}

func TestGrep_Regex(t *testing.T) {
	t.Run("alternation", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")
		env.runStdin(planDoc, "write", "notes/meeting")

		out := env.run("grep", "-r", "HTTP|TODO")
		env.contains(out, "docs/api")
		env.contains(out, "notes/meeting")
	})

	t.Run("dot star", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		out := env.run("grep", "-r", "HTTP.*codes")
		env.contains(out, "docs/api")
	})

	t.Run("character class", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		out := env.run("grep", "-r", "[0-9][0-9][0-9]")
		env.contains(out, "docs/api")
	})

	t.Run("line output format", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		// path:line:content, the way grep prints it
		out := env.run("grep", "-r", "Quotas")
		env.contains(out, "docs/api:")
		env.contains(out, "Quotas")
	})

	t.Run("invalid regex", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin(opsDoc, "write", "docs/api")

		out, err := env.runErr("grep", "[invalid")
		if err == nil {
			t.Error("grep with an unterminated class should fail")
		}
		env.contains(out, "invalid regex")
	})
}

func TestGrep_SeesPatchedContent(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin("The deploy target is staging.", "write", "docs/deploy")

	batch := batchJSON(t, [2]string{"target is staging", "target is production"})
	env.runStdin(batch, "apply", "docs/deploy")

	// Only the current version is searched.
	out := env.run("grep", "-r", "production")
	env.contains(out, "docs/deploy")

	out = env.run("grep", "-r", "staging")
	if strings.Contains(out, "docs/deploy") {
		t.Error("grep matched superseded content")
	}
}
