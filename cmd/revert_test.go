package cmd

import (
	"strings"
	"testing"
)

// versionKey pulls the eight-character key out of cat's JSON output.
func versionKey(t *testing.T, out string) string {
	t.Helper()
	i := strings.Index(out, `"key":"`)
	if i < 0 {
		t.Fatalf("no key in output: %s", out)
	}
	return out[i+7 : i+15]
}

func TestRevert(t *testing.T) {
	t.Run("by path and version", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin("version 1", "write", "docs/readme")
		env.runStdin("version 2", "write", "docs/readme")
		env.runStdin("version 3", "write", "docs/readme")

		out := env.run("revert", "docs/readme", "1")
		env.contains(out, "Reverted docs/readme to v1")
		env.contains(out, "now v4")

		env.equals(env.run("cat", "docs/readme"), "version 1")

		// The revert is itself a new version on top of the history.
		out = env.run("history", "docs/readme")
		env.contains(out, "v4")
		env.contains(out, "v3")
		env.contains(out, "v2")
		env.contains(out, "v1")
	})

	t.Run("by key", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin("version 1", "write", "docs/readme")
		env.runStdin("version 2", "write", "docs/readme")

		key := versionKey(t, env.run("cat", "docs/readme", "-v", "1", "-o", "json"))

		out := env.run("revert", key)
		env.contains(out, "Reverted docs/readme to v1")

		env.equals(env.run("cat", "docs/readme"), "version 1")
	})

	t.Run("undoes a patch", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin("status: draft", "write", "docs/readme")

		batch := batchJSON(t, [2]string{"status: draft", "status: published"})
		env.runStdin(batch, "apply", "docs/readme")
		env.equals(env.run("cat", "docs/readme"), "status: published")

		env.run("revert", "docs/readme", "1")
		env.equals(env.run("cat", "docs/readme"), "status: draft")
	})

	t.Run("custom message", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin("original", "write", "docs/readme")
		env.runStdin("changed", "write", "docs/readme")

		env.run("revert", "docs/readme", "1", "-m", "Rolling back bad changes")

		out := env.run("history", "docs/readme")
		env.contains(out, "Rolling back bad changes")
	})

	t.Run("JSON output", func(t *testing.T) {
		env := newTestEnv(t)
		env.runStdin("v1", "write", "docs/readme")
		env.runStdin("v2", "write", "docs/readme")

		out := env.run("revert", "docs/readme", "1", "-o", "json")
		env.contains(out, `"path"`)
		env.contains(out, `"docs/readme"`)
		env.contains(out, `"reverted_to":1`)
		env.contains(out, `"new_version":3`)
	})
}

func TestRevert_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(env *testEnv)
		args  []string
	}{
		{
			"version not found",
			func(env *testEnv) { env.runStdin("content", "write", "docs/readme") },
			[]string{"revert", "docs/readme", "99"},
		},
		{
			"path not found",
			nil,
			[]string{"revert", "docs/nonexistent", "1"},
		},
		{
			"key not found",
			nil,
			[]string{"revert", "zzzzzzzz"},
		},
		{
			"path without version",
			func(env *testEnv) { env.runStdin("content", "write", "docs/readme") },
			[]string{"revert", "docs/readme"},
		},
		{
			"deleted document",
			func(env *testEnv) {
				env.runStdin("content", "write", "docs/readme")
				env.run("rm", "docs/readme")
			},
			[]string{"revert", "docs/readme", "1"},
		},
		{
			"invalid version format",
			func(env *testEnv) { env.runStdin("content", "write", "docs/readme") },
			[]string{"revert", "docs/readme", "abc"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tc.setup != nil {
				tc.setup(env)
			}
			if _, err := env.runErr(tc.args...); err == nil {
				t.Errorf("%v should fail", tc.args)
			}
		})
	}
}

func TestRevert_PreservesHistory(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin("v1", "write", "docs/readme")
	env.runStdin("v2", "write", "docs/readme")
	env.runStdin("v3", "write", "docs/readme")

	env.run("revert", "docs/readme", "1")

	// Every original version stays readable; v4 repeats v1's content.
	tests := []struct {
		version string
		want    string
	}{
		{"1", "v1"},
		{"2", "v2"},
		{"3", "v3"},
		{"4", "v1"},
	}

	for _, tc := range tests {
		t.Run("v"+tc.version, func(t *testing.T) {
			env.equals(env.run("cat", "-v", tc.version, "docs/readme"), tc.want)
		})
	}
}

func TestRevert_MultipleReverts(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin("v1", "write", "docs/readme")
	env.runStdin("v2", "write", "docs/readme")
	env.runStdin("v3", "write", "docs/readme")

	for _, target := range []struct{ version, want string }{
		{"1", "v1"},
		{"2", "v2"},
		{"3", "v3"},
	} {
		env.run("revert", "docs/readme", target.version)
		env.equals(env.run("cat", "docs/readme"), target.want)
	}

	// Three writes plus three reverts.
	out := env.run("history", "docs/readme")
	env.contains(out, "v6")
}

func TestRevert_KeyFlag(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin("version 1", "write", "docs/readme")
	env.runStdin("version 2", "write", "docs/readme")

	key := versionKey(t, env.run("cat", "docs/readme", "-v", "1", "-o", "json"))

	out := env.run("revert", "--key", key)
	env.contains(out, "Reverted docs/readme to v1")

	env.equals(env.run("cat", "docs/readme"), "version 1")
}

func TestRevert_VersionValidation(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin("content", "write", "docs/readme")

	for _, v := range []string{"0", "-1"} {
		if _, err := env.runErr("revert", "docs/readme", v); err == nil {
			t.Errorf("revert to version %s should fail", v)
		}
	}
}
