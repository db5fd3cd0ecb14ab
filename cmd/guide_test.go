package cmd

import "testing"

func TestGuide(t *testing.T) {
	env := newTestEnv(t)

	t.Run("front page", func(t *testing.T) {
		out := env.run("guide")
		env.contains(out, "patchd")
		env.contains(out, "Quick start")
		env.contains(out, "apply")
	})

	// Each command topic renders its own usage section.
	topics := map[string]string{
		"write":  "patchd write",
		"init":   "patchd init",
		"apply":  "patchd apply",
		"sync":   "patchd sync",
		"config": "patchd config",
	}
	for topic, want := range topics {
		t.Run(topic, func(t *testing.T) {
			env.contains(env.run("guide", topic), want)
		})
	}

	t.Run("unknown topic", func(t *testing.T) {
		out, err := env.runErr("guide", "nonexistent")
		if err == nil {
			t.Error("guide nonexistent succeeded, want error")
		}
		// The error lists the topics that do exist.
		env.contains(out, "Available:")
	})
}
