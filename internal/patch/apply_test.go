package patch

import (
	"testing"
)

func TestApplyReplacements(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		edits       []Edit
		want        string
		wantApplied int
		wantSkipped int
		wantUnap    int
	}{
		{
			name:        "single replace",
			content:     "hello world",
			edits:       []Edit{{Original: "world", Replacement: "there"}},
			want:        "hello there",
			wantApplied: 1,
		},
		{
			name:        "case-insensitive match keeps replacement as written",
			content:     "Hello World",
			edits:       []Edit{{Original: "hello", Replacement: "Goodbye"}},
			want:        "Goodbye World",
			wantApplied: 1,
		},
		{
			name:        "tabs in document match spaces in original",
			content:     "one\t\ttwo",
			edits:       []Edit{{Original: "one two", Replacement: "1 2"}},
			want:        "1 2",
			wantApplied: 1,
		},
		{
			name:    "dedented original lands on indented lines",
			content: "    foo()\n    bar()\n",
			edits:   []Edit{{Original: "foo()\nbar()", Replacement: "qux()"}},
			want:    "    qux()\n",

			wantApplied: 1,
		},
		{
			name:        "deletion",
			content:     "a b c",
			edits:       []Edit{{Original: "b ", Replacement: ""}},
			want:        "a c",
			wantApplied: 1,
		},
		{
			name:        "two independent edits",
			content:     "alpha\nbeta\ngamma\n",
			edits:       []Edit{{Original: "alpha", Replacement: "one"}, {Original: "gamma", Replacement: "three"}},
			want:        "one\nbeta\nthree\n",
			wantApplied: 2,
		},
		{
			name:        "unmatched edit leaves content untouched",
			content:     "hello",
			edits:       []Edit{{Original: "nope", Replacement: "x"}},
			want:        "hello",
			wantApplied: 0,
			wantUnap:    1,
		},
		{
			name:        "already applied is skipped",
			content:     "goodbye world",
			edits:       []Edit{{Original: "hello", Replacement: "goodbye"}},
			want:        "goodbye world",
			wantSkipped: 1,
		},
		{
			name:    "empty batch is a no-op",
			content: "unchanged",
			edits:   nil,
			want:    "unchanged",
		},
		{
			name:        "empty replacement cannot be verified as applied",
			content:     "a c",
			edits:       []Edit{{Original: "b ", Replacement: ""}},
			want:        "a c",
			wantApplied: 0,
			wantUnap:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(tt.content, tt.edits, 0)

			if res.Content != tt.want {
				t.Errorf("content = %q, want %q", res.Content, tt.want)
			}
			if res.Applied != tt.wantApplied {
				t.Errorf("applied = %d, want %d", res.Applied, tt.wantApplied)
			}
			if res.Skipped != tt.wantSkipped {
				t.Errorf("skipped = %d, want %d", res.Skipped, tt.wantSkipped)
			}
			if res.Unapplied != tt.wantUnap {
				t.Errorf("unapplied = %d, want %d", res.Unapplied, tt.wantUnap)
			}
		})
	}
}

func TestApplyInsertions(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		edits       []Edit
		want        string
		wantApplied int
	}{
		{
			name:        "insertion into empty document",
			content:     "",
			edits:       []Edit{{Original: "", Replacement: "hello"}},
			want:        "hello",
			wantApplied: 1,
		},
		{
			name:        "insertion prepends",
			content:     "world\n",
			edits:       []Edit{{Original: "", Replacement: "hello"}},
			want:        "hello\nworld\n",
			wantApplied: 1,
		},
		{
			name:    "insertions join in input order",
			content: "",
			edits: []Edit{
				{Original: "", Replacement: "first"},
				{Original: "", Replacement: "second"},
			},
			want:        "first\nsecond",
			wantApplied: 2,
		},
		{
			name:    "insertion alongside replacement",
			content: "body\n",
			edits: []Edit{
				{Original: "body", Replacement: "text"},
				{Original: "", Replacement: "header"},
			},
			want:        "header\ntext\n",
			wantApplied: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(tt.content, tt.edits, 0)

			if res.Content != tt.want {
				t.Errorf("content = %q, want %q", res.Content, tt.want)
			}
			if res.Applied != tt.wantApplied {
				t.Errorf("applied = %d, want %d", res.Applied, tt.wantApplied)
			}
		})
	}
}

func TestApplyIndentation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		edit    Edit
		want    string
	}{
		{
			name:    "multi-line replacement picks up site indentation",
			content: "    foo()",
			edit:    Edit{Original: "foo()", Replacement: "bar()\nbaz()"},
			want:    "    bar()\n    baz()",
		},
		{
			name:    "dedented block re-indents preserving relative depth",
			content: "  call()",
			edit:    Edit{Original: "call()", Replacement: "if ok {\n    call()\n}"},
			want:    "  if ok {\n      call()\n  }",
		},
		{
			name:    "common indentation is stripped first",
			content: "\tstmt",
			edit:    Edit{Original: "stmt", Replacement: "        a\n        b"},
			want:    "\ta\n\tb",
		},
		{
			name:    "blank replacement lines become empty",
			content: "  x",
			edit:    Edit{Original: "x", Replacement: "a\n   \nb"},
			want:    "  a\n\n  b",
		},
		{
			name:    "top level site gets no indentation",
			content: "foo()",
			edit:    Edit{Original: "foo()", Replacement: "bar()\nbaz()"},
			want:    "bar()\nbaz()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(tt.content, []Edit{tt.edit}, 0)

			if res.Content != tt.want {
				t.Errorf("content = %q, want %q", res.Content, tt.want)
			}
			if res.Applied != 1 {
				t.Errorf("applied = %d, want 1", res.Applied)
			}
		})
	}
}

func TestApplyIdempotence(t *testing.T) {
	content := "func greet() {\n    println(\"hi\")\n}\n"
	edits := []Edit{
		{Original: "greet", Replacement: "welcome"},
		{Original: "println(\"hi\")", Replacement: "println(\"hello\")"},
	}

	first := Apply(content, edits, 0)
	if first.Applied != len(edits) {
		t.Fatalf("first apply: applied = %d, want %d", first.Applied, len(edits))
	}

	second := Apply(first.Content, edits, 0)
	if second.Applied != 0 {
		t.Errorf("second apply: applied = %d, want 0", second.Applied)
	}
	if second.Skipped != len(edits) {
		t.Errorf("second apply: skipped = %d, want %d", second.Skipped, len(edits))
	}
	if second.Content != first.Content {
		t.Errorf("second apply changed content:\n%q\nwant\n%q", second.Content, first.Content)
	}
}

func TestApplyOrderInvariance(t *testing.T) {
	content := "alpha\nbeta\ngamma\ndelta\n"
	edits := []Edit{
		{Original: "alpha", Replacement: "one"},
		{Original: "gamma", Replacement: "three"},
		{Original: "delta", Replacement: "four"},
	}

	perms := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	want := Apply(content, edits, 0).Content
	for _, perm := range perms {
		batch := make([]Edit, len(perm))
		for i, p := range perm {
			batch[i] = edits[p]
		}
		got := Apply(content, batch, 0)
		if got.Content != want {
			t.Errorf("permutation %v: content = %q, want %q", perm, got.Content, want)
		}
		if got.Applied != len(edits) {
			t.Errorf("permutation %v: applied = %d, want %d", perm, got.Applied, len(edits))
		}
	}
}

func TestApplyOverlapResolution(t *testing.T) {
	// Both edits match overlapping spans of "one two three". The earlier
	// starting edit wins the first pass; the loser no longer matches
	// afterwards and is reported unapplied. Outcome must be identical on
	// every run and for either input order.
	content := "one two three\n"
	a := Edit{Original: "one two", Replacement: "1 2"}
	b := Edit{Original: "two three", Replacement: "2 3"}

	for run := 0; run < 3; run++ {
		res := Apply(content, []Edit{a, b}, 0)
		if res.Content != "1 2 three\n" {
			t.Errorf("content = %q, want %q", res.Content, "1 2 three\n")
		}
		if res.Applied != 1 || res.Unapplied != 1 {
			t.Errorf("applied/unapplied = %d/%d, want 1/1", res.Applied, res.Unapplied)
		}
		if res.FirstUnapplied == nil || res.FirstUnapplied.Original != b.Original {
			t.Errorf("firstUnapplied = %+v, want the later-starting edit", res.FirstUnapplied)
		}
	}

	reversed := Apply(content, []Edit{b, a}, 0)
	if reversed.Content != "1 2 three\n" {
		t.Errorf("reversed input: content = %q, want %q", reversed.Content, "1 2 three\n")
	}
}

func TestApplyOverlapLoserRetries(t *testing.T) {
	// The losing edit still matches after the winner mutates the document,
	// so it applies on the second pass.
	content := "aa bb cc"
	res := Apply(content, []Edit{
		{Original: "aa bb", Replacement: "xx bb"},
		{Original: "bb cc", Replacement: "bb yy"},
	}, 0)

	if res.Content != "xx bb yy" {
		t.Errorf("content = %q, want %q", res.Content, "xx bb yy")
	}
	if res.Applied != 2 {
		t.Errorf("applied = %d, want 2", res.Applied)
	}
	if res.Passes != 2 {
		t.Errorf("passes = %d, want 2", res.Passes)
	}
}

func TestApplyTieBreakShorterFirst(t *testing.T) {
	content := "foo bar baz"
	res := Apply(content, []Edit{
		{Original: "foo bar baz", Replacement: "long"},
		{Original: "foo", Replacement: "short"},
	}, 0)

	if res.Content != "short bar baz" {
		t.Errorf("content = %q, want %q", res.Content, "short bar baz")
	}
	if res.Applied != 1 || res.Unapplied != 1 {
		t.Errorf("applied/unapplied = %d/%d, want 1/1", res.Applied, res.Unapplied)
	}
}

func TestApplyCrossPassDependency(t *testing.T) {
	content := "A\nB\n"
	res := Apply(content, []Edit{
		{Original: "A\nB", Replacement: "X"},
		{Original: "X", Replacement: "Y"},
	}, 0)

	if res.Content != "Y\n" {
		t.Errorf("content = %q, want %q", res.Content, "Y\n")
	}
	if res.Applied != 2 {
		t.Errorf("applied = %d, want 2", res.Applied)
	}
	if res.Passes != 2 {
		t.Errorf("passes = %d, want 2", res.Passes)
	}
}

func TestApplyPassBound(t *testing.T) {
	// A three-deep dependency chain needs three passes; capping at two
	// leaves the tail edit unapplied.
	content := "a"
	edits := []Edit{
		{Original: "a", Replacement: "b"},
		{Original: "b", Replacement: "c"},
		{Original: "c", Replacement: "d"},
	}

	capped := Apply(content, edits, 2)
	if capped.Content != "c" {
		t.Errorf("capped content = %q, want %q", capped.Content, "c")
	}
	if capped.Applied != 2 || capped.Unapplied != 1 {
		t.Errorf("capped applied/unapplied = %d/%d, want 2/1", capped.Applied, capped.Unapplied)
	}
	if capped.Passes != 2 {
		t.Errorf("capped passes = %d, want 2", capped.Passes)
	}

	full := Apply(content, edits, 3)
	if full.Content != "d" {
		t.Errorf("full content = %q, want %q", full.Content, "d")
	}
	if full.Applied != 3 {
		t.Errorf("full applied = %d, want 3", full.Applied)
	}
}

func TestApplyExhaustionReport(t *testing.T) {
	content := "the quick brown fox\n"
	edits := []Edit{
		{Original: "jumped over", Replacement: "sat on"},
	}

	res := Apply(content, edits, 0)

	if res.Content != content {
		t.Errorf("content = %q, want untouched original", res.Content)
	}
	if res.Applied != 0 || res.Skipped != 0 || res.Unapplied != 1 {
		t.Errorf("counts = %d/%d/%d, want 0/0/1", res.Applied, res.Skipped, res.Unapplied)
	}
	if res.FirstUnapplied == nil {
		t.Fatal("firstUnapplied = nil, want the failed edit")
	}
	if res.FirstUnapplied.Original != edits[0].Original {
		t.Errorf("firstUnapplied.Original = %q, want %q", res.FirstUnapplied.Original, edits[0].Original)
	}
}

func TestApplyEarlyStop(t *testing.T) {
	// Nothing matches on the first pass, so later passes are pointless and
	// must not run.
	res := Apply("hello", []Edit{{Original: "absent", Replacement: "x"}}, 0)

	if res.Passes != 1 {
		t.Errorf("passes = %d, want 1", res.Passes)
	}
}

func TestApplyMixedOutcome(t *testing.T) {
	content := "keep\nchange me\nalready new\n"
	edits := []Edit{
		{Original: "change me", Replacement: "changed"},
		{Original: "already old", Replacement: "already new"},
		{Original: "never present", Replacement: "also never present"},
	}

	res := Apply(content, edits, 0)

	if res.Content != "keep\nchanged\nalready new\n" {
		t.Errorf("content = %q", res.Content)
	}
	if res.Applied != 1 || res.Skipped != 1 || res.Unapplied != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", res.Applied, res.Skipped, res.Unapplied)
	}
	if res.FirstUnapplied == nil || res.FirstUnapplied.Original != "never present" {
		t.Errorf("firstUnapplied = %+v", res.FirstUnapplied)
	}
}

func TestNormalizeIndent(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		matchStart  int
		replacement string
		want        string
	}{
		{
			name:        "single line at column zero",
			content:     "foo",
			matchStart:  0,
			replacement: "bar",
			want:        "bar",
		},
		{
			name:        "second line picks up target indent",
			content:     "    foo",
			matchStart:  4,
			replacement: "a\nb",
			want:        "a\n    b",
		},
		{
			name:        "common indent stripped before re-indent",
			content:     "  foo",
			matchStart:  2,
			replacement: "    a\n      b",
			want:        "a\n    b",
		},
		{
			name:        "blank lines emptied",
			content:     "  foo",
			matchStart:  2,
			replacement: "a\n \t\nb",
			want:        "a\n\n  b",
		},
		{
			name:        "whitespace-only replacement collapses",
			content:     "foo",
			matchStart:  0,
			replacement: "  \n  ",
			want:        "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeIndent(tt.content, tt.matchStart, tt.replacement)
			if got != tt.want {
				t.Errorf("normalizeIndent(%q, %d, %q) = %q, want %q",
					tt.content, tt.matchStart, tt.replacement, got, tt.want)
			}
		})
	}
}

func TestLineIndent(t *testing.T) {
	tests := []struct {
		content string
		pos     int
		want    string
	}{
		{"foo", 0, ""},
		{"  foo", 2, "  "},
		{"ab\n  cd", 5, "  "},
		{"ab\n  cd", 3, "  "},
		{"\tx", 1, "\t"},
		{"a\nb", 2, ""},
	}

	for _, tt := range tests {
		if got := lineIndent(tt.content, tt.pos); got != tt.want {
			t.Errorf("lineIndent(%q, %d) = %q, want %q", tt.content, tt.pos, got, tt.want)
		}
	}
}
