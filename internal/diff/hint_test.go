package diff

import (
	"strings"
	"testing"
)

func TestClosestMatch(t *testing.T) {
	content := strings.Join([]string{
		"# Deployment",
		"",
		"The rollout happens in two stages.",
		"First the canary fleet, then the rest.",
	}, "\n")

	t.Run("exact line scores full similarity", func(t *testing.T) {
		snippet, score, ok := ClosestMatch(content, "The rollout happens in two stages.")
		if !ok {
			t.Fatalf("ClosestMatch(exact) = ok false, want true")
		}
		if score != 1 {
			t.Errorf("ClosestMatch(exact) score = %v, want 1", score)
		}
		if snippet != "The rollout happens in two stages." {
			t.Errorf("ClosestMatch(exact) snippet = %q", snippet)
		}
	})

	t.Run("near miss returns the similar line", func(t *testing.T) {
		snippet, score, ok := ClosestMatch(content, "The rollout happens in three stages.")
		if !ok {
			t.Fatalf("ClosestMatch(near miss) = ok false, want true")
		}
		if score >= 1 || score < minHintSimilarity {
			t.Errorf("ClosestMatch(near miss) score = %v, want in [%v, 1)", score, minHintSimilarity)
		}
		if snippet != "The rollout happens in two stages." {
			t.Errorf("ClosestMatch(near miss) snippet = %q", snippet)
		}
	})

	t.Run("multi-line needle returns a window of the same height", func(t *testing.T) {
		needle := "First the canary fleet, then the rest.\nAfter that we monitor for an hour."
		snippet, _, ok := ClosestMatch(content+"\nAfter that we monitor for an hour.", needle)
		if !ok {
			t.Fatalf("ClosestMatch(multi-line) = ok false, want true")
		}
		if got := len(strings.Split(snippet, "\n")); got != 2 {
			t.Errorf("ClosestMatch(multi-line) snippet lines = %d, want 2", got)
		}
	})

	t.Run("nothing similar", func(t *testing.T) {
		_, _, ok := ClosestMatch(content, "zzzz qqqq xxxx yyyy wwww vvvv")
		if ok {
			t.Error("ClosestMatch(dissimilar) = ok true, want false")
		}
	})

	t.Run("empty inputs", func(t *testing.T) {
		if _, _, ok := ClosestMatch("", "needle"); ok {
			t.Error("ClosestMatch(empty content) = ok true, want false")
		}
		if _, _, ok := ClosestMatch(content, ""); ok {
			t.Error("ClosestMatch(empty needle) = ok true, want false")
		}
	})
}

func TestHint(t *testing.T) {
	t.Run("formats snippet and score", func(t *testing.T) {
		out := Hint("status: draft", "status: drafts")
		if !strings.Contains(out, "closest match") {
			t.Errorf("Hint() = %q, want closest match prefix", out)
		}
		if !strings.Contains(out, `"status: draft"`) {
			t.Errorf("Hint() = %q, want quoted snippet", out)
		}
	})

	t.Run("empty when nothing is close", func(t *testing.T) {
		if out := Hint("alpha beta gamma", "zzzz qqqq xxxx"); out != "" {
			t.Errorf("Hint(dissimilar) = %q, want empty", out)
		}
	})
}
