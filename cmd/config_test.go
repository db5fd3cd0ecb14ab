package cmd

import (
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("config", "author.name", "Priya Nair")

		out := env.run("config", "author.name")
		env.contains(out, "Priya Nair")
	})

	t.Run("bare config lists every key", func(t *testing.T) {
		env := newTestEnv(t)

		// Keys appear with their defaults even before anything is set.
		out := env.run("config")
		for _, key := range []string{
			"author.name", "author.email", "sync.files",
			"limits.max_batch_edits", "patch.max_passes",
		} {
			env.contains(out, key)
		}
	})

	t.Run("numeric defaults are reported", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.run("config", "limits.max_batch_edits")
		env.contains(out, "256")
	})
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"author name", "author.name", "Priya Nair"},
		{"author email", "author.email", "priya@example.net"},
		{"sync on", "sync.files", "true"},
		{"sync off", "sync.files", "false"},
		{"batch edit cap", "limits.max_batch_edits", "64"},
		{"pass bound", "patch.max_passes", "5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)

			env.run("config", tc.key, tc.value)

			out := env.run("config", tc.key)
			env.contains(out, tc.value)
		})
	}
}

func TestConfig_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "patch.unknown", "1"},
		{"non-boolean sync", "sync.files", "maybe"},
		{"zero passes", "patch.max_passes", "0"},
		{"negative batch cap", "limits.max_batch_edits", "-3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)

			out, err := env.runErr("config", tc.key, tc.value)
			if err == nil {
				t.Errorf("config %s %s accepted, want rejection: %s", tc.key, tc.value, out)
			}
		})
	}
}

func TestConfig_SurvivesRestart(t *testing.T) {
	// Settings persist in the YAML file, so a fresh process sees them.
	env := newTestEnv(t)
	env.run("config", "patch.max_passes", "7")

	out := env.run("config")
	if !strings.Contains(out, "7") {
		t.Errorf("config after restart missing stored value: %s", out)
	}
}
