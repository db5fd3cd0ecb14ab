package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		env := newTestEnv(t)

		src := filepath.Join(env.dir, "incoming")
		require.NoError(t, os.MkdirAll(src, 0755))

		content := "# Incident Playbook\n\nWho to page and when."
		require.NoError(t, os.WriteFile(filepath.Join(src, "playbook.md"), []byte(content), 0644))

		env.run("import", filepath.Join(src, "playbook.md"))

		out := env.run("cat", "playbook")
		env.equals(out, content)
	})

	t.Run("directory", func(t *testing.T) {
		env := newTestEnv(t)

		src := filepath.Join(env.dir, "incoming")
		runbooks := filepath.Join(src, "runbooks")
		require.NoError(t, os.MkdirAll(runbooks, 0755))

		_ = os.WriteFile(filepath.Join(runbooks, "deploy.md"), []byte("deploy steps"), 0644)
		_ = os.WriteFile(filepath.Join(runbooks, "rollback.md"), []byte("rollback steps"), 0644)

		env.run("import", runbooks)

		out := env.run("ls")
		env.contains(out, "deploy")
		env.contains(out, "rollback")
	})

	t.Run("nested directory", func(t *testing.T) {
		env := newTestEnv(t)

		src := filepath.Join(env.dir, "incoming")
		nested := filepath.Join(src, "runbooks", "db", "postgres")
		require.NoError(t, os.MkdirAll(nested, 0755))

		_ = os.WriteFile(filepath.Join(nested, "failover.md"), []byte("failover steps"), 0644)

		env.run("import", src)

		out := env.run("ls", "-R")
		env.contains(out, "runbooks/db/postgres/failover")
	})

	t.Run("with prefix", func(t *testing.T) {
		env := newTestEnv(t)

		src := filepath.Join(env.dir, "incoming")
		require.NoError(t, os.MkdirAll(src, 0755))

		_ = os.WriteFile(filepath.Join(src, "playbook.md"), []byte("steps"), 0644)

		env.run("import", src, "-t", "imported/")

		out := env.run("ls", "-R")
		env.contains(out, "imported/playbook")
	})
}

func TestImport_Filters(t *testing.T) {
	t.Run("non-markdown ignored", func(t *testing.T) {
		env := newTestEnv(t)

		src := filepath.Join(env.dir, "incoming")
		require.NoError(t, os.MkdirAll(src, 0755))

		_ = os.WriteFile(filepath.Join(src, "playbook.md"), []byte("markdown"), 0644)
		_ = os.WriteFile(filepath.Join(src, "config.json"), []byte("{}"), 0644)
		_ = os.WriteFile(filepath.Join(src, "deploy.sh"), []byte("#!/bin/bash"), 0644)

		env.run("import", src)

		out := env.run("ls")
		env.contains(out, "playbook")
	})

	t.Run("hidden files ignored by default", func(t *testing.T) {
		env := newTestEnv(t)

		src := filepath.Join(env.dir, "incoming")
		hidden := filepath.Join(src, ".archive")
		require.NoError(t, os.MkdirAll(hidden, 0755))

		guide := testGuideContent()
		_ = os.WriteFile(filepath.Join(src, "visible.md"), []byte("visible content"), 0644)
		_ = os.WriteFile(filepath.Join(hidden, "stashed.md"), []byte(guide), 0644)

		env.run("import", src)

		out := env.run("ls")
		env.contains(out, "visible")
		assert.NotContains(t, out, "stashed")
	})

	t.Run("hidden files with -H flag", func(t *testing.T) {
		env := newTestEnv(t)

		src := filepath.Join(env.dir, "incoming")
		hidden := filepath.Join(src, ".archive")
		_ = os.MkdirAll(hidden, 0755)

		guide := testGuideContent()
		_ = os.WriteFile(filepath.Join(src, "visible.md"), []byte("visible content"), 0644)
		_ = os.WriteFile(filepath.Join(hidden, "stashed.md"), []byte(guide), 0644)

		env.run("import", src, "-H")

		out := env.run("ls", "-R")
		env.contains(out, "visible")
		env.contains(out, "stashed")
	})
}

func TestImport_DryRun(t *testing.T) {
	env := newTestEnv(t)

	src := filepath.Join(env.dir, "incoming")
	require.NoError(t, os.MkdirAll(src, 0755))

	guide := testGuideContent()
	_ = os.WriteFile(filepath.Join(src, "guide.md"), []byte(guide), 0644)
	_ = os.WriteFile(filepath.Join(src, "playbook.md"), []byte("# Playbook\n\nEscalation steps."), 0644)

	out := env.run("import", src, "-n")
	env.contains(out, "guide")
	env.contains(out, "playbook")

	lsOut := env.run("ls")
	// Either empty or "No documents" means the dry run imported nothing.
	assert.True(t, lsOut == "" || strings.Contains(lsOut, "No documents"),
		"Import(-n) should not import docs, got: %s", lsOut)
}

func TestImport_Flat(t *testing.T) {
	env := newTestEnv(t)

	src := filepath.Join(env.dir, "incoming")
	nested := filepath.Join(src, "runbooks", "db", "postgres")
	require.NoError(t, os.MkdirAll(nested, 0755))

	guide := testGuideContent()
	_ = os.WriteFile(filepath.Join(nested, "failover.md"), []byte(guide), 0644)

	env.run("import", src, "-F")

	out := env.run("ls")
	env.contains(out, "failover")
	assert.NotContains(t, out, "runbooks/db/postgres")
}

func TestImport_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("import", "/nonexistent/path")
	assert.Error(t, err)
}
