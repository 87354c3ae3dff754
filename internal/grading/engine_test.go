package grading_test

import (
	"testing"

	"github.com/quizforge/quizforge/internal/grading"
)

func TestEveryTypeHasAStrategy(t *testing.T) {
	covered := map[string]bool{}
	for _, typ := range grading.NewGrader().CoveredTypes() {
		covered[typ] = true
	}
	for _, typ := range grading.AllTypes() {
		if !covered[typ] {
			t.Fatalf("question type %q has no grading strategy", typ)
		}
	}
}

// Submitting each question's own answer key must score full points for every
// auto-gradable type.
func TestCorrectAnswerRoundTrip(t *testing.T) {
	g := grading.NewGrader()
	cases := []struct {
		name string
		q    grading.Q
		resp any
	}{
		{"multiple-choice", grading.Q{Type: grading.TypeMultipleChoice, Points: 5, Answer: "opt-b"}, "opt-b"},
		{"true-false", grading.Q{Type: grading.TypeTrueFalse, Points: 2, Answer: "true"}, "true"},
		{"short-answer", grading.Q{Type: grading.TypeShortAnswer, Points: 3, Answer: "Goroutine"}, "Goroutine"},
		{"multiple-select", grading.Q{Type: grading.TypeMultipleSelect, Points: 4, Answers: []string{"a", "c"}}, []string{"a", "c"}},
		{"fill-blanks", grading.Q{Type: grading.TypeFillBlanks, Points: 4, Blanks: map[string]string{"b1": "heap", "b2": "stack"}}, map[string]string{"b1": "heap", "b2": "stack"}},
		{"matching", grading.Q{Type: grading.TypeMatching, Points: 6, Pairs: []grading.Pair{{Left: "tcp", Right: "stream"}, {Left: "udp", Right: "datagram"}}}, map[string]string{"tcp": "stream", "udp": "datagram"}},
		{"ordering", grading.Q{Type: grading.TypeOrdering, Points: 3, Answers: []string{"first", "second", "third"}}, []string{"first", "second", "third"}},
		{"drag-drop", grading.Q{Type: grading.TypeDragDrop, Points: 3, Answers: []string{"x", "y"}}, []string{"x", "y"}},
		{"image-choice", grading.Q{Type: grading.TypeImageChoice, Points: 2, Answer: "img-3"}, "img-3"},
		{"hotspot", grading.Q{Type: grading.TypeHotspot, Points: 5, Targets: []grading.Point{{X: 40, Y: 60}}}, []grading.Point{{X: 40, Y: 60}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := g.Grade(tc.q, tc.resp)
			if !out.Correct {
				t.Fatalf("expected correct")
			}
			if out.PointsEarned != tc.q.Points || out.PointsPossible != tc.q.Points {
				t.Fatalf("points = %d/%d, want %d/%d", out.PointsEarned, out.PointsPossible, tc.q.Points, tc.q.Points)
			}
		})
	}
}

func TestEmptyResponseAlwaysZero(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeMultipleChoice, Points: 5, Answer: "a"}
	for _, resp := range []any{nil, "", "   ", []string{}, []any{}, map[string]any{}} {
		out := g.Grade(q, resp)
		if out.Correct || out.PointsEarned != 0 {
			t.Fatalf("empty response %#v scored %+v", resp, out)
		}
		if out.PointsPossible != 5 {
			t.Fatalf("possible = %d, want 5", out.PointsPossible)
		}
	}
}

func TestTextMatchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeShortAnswer, Points: 1, Answer: "Channel"}
	if !g.Grade(q, "  cHaNnEl ").Correct {
		t.Fatal("trimmed case-insensitive match should pass")
	}
	if g.Grade(q, "channels").Correct {
		t.Fatal("different word should fail")
	}
}

func TestImageChoiceIsExact(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeImageChoice, Points: 1, Answer: "Img-1"}
	if g.Grade(q, "img-1").Correct {
		t.Fatal("image-choice must compare identifiers exactly")
	}
	if !g.Grade(q, "Img-1").Correct {
		t.Fatal("identical identifier should pass")
	}
}

func TestMultiSelectOrderIndependent(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeMultipleSelect, Points: 2, Answers: []string{"a", "c"}}
	if !g.Grade(q, []string{"c", "a"}).Correct {
		t.Fatal("order must not matter")
	}
	if g.Grade(q, []string{"a"}).Correct {
		t.Fatal("missing element must fail")
	}
	if g.Grade(q, []string{"a", "c", "d"}).Correct {
		t.Fatal("extra element must fail")
	}
}

func TestOrderingOrderMatters(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeOrdering, Points: 2, Answers: []string{"a", "b", "c"}}
	if g.Grade(q, []string{"b", "a", "c"}).Correct {
		t.Fatal("wrong order must fail")
	}
}

func TestFillBlanksIgnoresExtraKeys(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeFillBlanks, Points: 2, Blanks: map[string]string{"b1": "go"}}
	if !g.Grade(q, map[string]string{"b1": " GO ", "scratch": "ignored"}).Correct {
		t.Fatal("extra submitted keys must be ignored")
	}
	if g.Grade(q, map[string]string{"scratch": "go"}).Correct {
		t.Fatal("missing expected key must fail")
	}
}

func TestMatchingRequiresEveryPair(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeMatching, Points: 2, Pairs: []grading.Pair{
		{Left: "l1", Right: "r1"},
		{Left: "l2", Right: "r2"},
	}}
	if g.Grade(q, map[string]string{"l1": "r1", "l2": "r1"}).Correct {
		t.Fatal("one wrong mapping must fail the question")
	}
}

// The tolerance is a 10-unit box per axis, not a radius: exactly 10 off on one
// axis is still a hit, 11 is a miss.
func TestHotspotPerAxisTolerance(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeHotspot, Points: 3, Targets: []grading.Point{{X: 100, Y: 200}}}

	if !g.Grade(q, []grading.Point{{X: 110, Y: 200}}).Correct {
		t.Fatal("10 units off in x should be within tolerance")
	}
	if g.Grade(q, []grading.Point{{X: 111, Y: 200}}).Correct {
		t.Fatal("11 units off in x should miss")
	}
	// 10 off on both axes is ~14.1 radially but still inside the box.
	if !g.Grade(q, []grading.Point{{X: 110, Y: 210}}).Correct {
		t.Fatal("tolerance is per-axis, not Euclidean")
	}
}

func TestHotspotEveryTargetNeedsAHit(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeHotspot, Points: 3, Targets: []grading.Point{
		{X: 10, Y: 10}, {X: 300, Y: 300},
	}}
	if g.Grade(q, []grading.Point{{X: 10, Y: 10}}).Correct {
		t.Fatal("unclicked target must fail the question")
	}
	if !g.Grade(q, []grading.Point{{X: 305, Y: 295}, {X: 12, Y: 8}}).Correct {
		t.Fatal("one hit per target should pass regardless of click order")
	}
}

func TestEssayNeverAutoScored(t *testing.T) {
	g := grading.NewGrader()
	q := grading.Q{Type: grading.TypeEssay, Points: 10}
	out := g.Grade(q, "a very thorough essay")
	if out.Correct || out.PointsEarned != 0 {
		t.Fatalf("essay must not auto-score, got %+v", out)
	}
}

// Shapes coming off the wire are []any / map[string]any; the evaluator has to
// accept them the same as native slices and maps.
func TestDecodedJSONShapes(t *testing.T) {
	g := grading.NewGrader()

	ms := grading.Q{Type: grading.TypeMultipleSelect, Points: 1, Answers: []string{"a", "b"}}
	if !g.Grade(ms, []any{"b", "a"}).Correct {
		t.Fatal("decoded []any should grade like []string")
	}

	fb := grading.Q{Type: grading.TypeFillBlanks, Points: 1, Blanks: map[string]string{"b1": "x"}}
	if !g.Grade(fb, map[string]any{"b1": "x"}).Correct {
		t.Fatal("decoded map[string]any should grade like map[string]string")
	}

	hs := grading.Q{Type: grading.TypeHotspot, Points: 1, Targets: []grading.Point{{X: 5, Y: 5}}}
	if !g.Grade(hs, []any{map[string]any{"x": 7.0, "y": 3.0}}).Correct {
		t.Fatal("decoded point maps should grade like []Point")
	}
}

func TestUnknownTypeNeverScores(t *testing.T) {
	g := grading.NewGrader()
	out := g.Grade(grading.Q{Type: "telepathy", Points: 5, Answer: "42"}, "42")
	if out.Correct || out.PointsEarned != 0 {
		t.Fatalf("unknown type scored: %+v", out)
	}
}
