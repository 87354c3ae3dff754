package grading

// Question type tags. This is a closed set: the evaluator dispatches over it
// exhaustively, and the engine tests assert that every tag has a strategy so
// adding a variant without one fails immediately.
const (
	TypeMultipleChoice = "multiple-choice"
	TypeMultipleSelect = "multiple-select"
	TypeTrueFalse      = "true-false"
	TypeShortAnswer    = "short-answer"
	TypeFillBlanks     = "fill-blanks"
	TypeMatching       = "matching"
	TypeOrdering       = "ordering"
	TypeDragDrop       = "drag-drop"
	TypeImageChoice    = "image-choice"
	TypeHotspot        = "hotspot"
	TypeEssay          = "essay"
)

// AllTypes lists every known question type tag.
func AllTypes() []string {
	return []string{
		TypeMultipleChoice, TypeMultipleSelect, TypeTrueFalse, TypeShortAnswer,
		TypeFillBlanks, TypeMatching, TypeOrdering, TypeDragDrop,
		TypeImageChoice, TypeHotspot, TypeEssay,
	}
}

// HotspotTolerance is the per-axis click tolerance in content units. A click
// counts for a target when both |dx| and |dy| are within it; the check is a
// box, not a radius.
const HotspotTolerance = 10.0

// Pair is one left/right association of a matching question.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Point is a hotspot coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Q is the minimal view of a question needed for grading. Exactly one answer
// field is populated, according to Type.
type Q struct {
	Type    string
	Points  int
	Answer  string            // multiple-choice, true-false, short-answer, image-choice
	Answers []string          // multiple-select, ordering, drag-drop
	Blanks  map[string]string // fill-blanks: blank key -> expected text
	Pairs   []Pair            // matching
	Targets []Point           // hotspot
}

// Outcome is the result of grading one response. Points are all-or-nothing:
// PointsEarned is either 0 or PointsPossible.
type Outcome struct {
	Correct        bool
	PointsEarned   int
	PointsPossible int
}

// Strategy grades a single question type.
type Strategy interface {
	Grade(q Q, response any) Outcome
}

// Grader routes a response to the Strategy for its question type.
type Grader interface {
	Grade(q Q, response any) Outcome
	CoveredTypes() []string
}

type defaultGrader struct {
	strategies map[string]Strategy
}

// NewGrader installs the built-in strategy for every question type.
func NewGrader() Grader {
	return &defaultGrader{
		strategies: map[string]Strategy{
			TypeMultipleChoice: textMatchStrategy{},
			TypeTrueFalse:      textMatchStrategy{},
			TypeShortAnswer:    textMatchStrategy{},
			TypeMultipleSelect: multiSelectStrategy{},
			TypeFillBlanks:     fillBlanksStrategy{},
			TypeMatching:       matchingStrategy{},
			TypeOrdering:       sequenceStrategy{},
			TypeDragDrop:       sequenceStrategy{},
			TypeImageChoice:    exactMatchStrategy{},
			TypeHotspot:        hotspotStrategy{},
			TypeEssay:          essayStrategy{},
		},
	}
}

// Grade evaluates a single response. A missing or empty response is always
// incorrect with zero points, checked before any type dispatch. Unknown types
// never score.
func (g *defaultGrader) Grade(q Q, response any) Outcome {
	out := Outcome{PointsPossible: q.Points}
	if isEmpty(response) {
		return out
	}
	s, ok := g.strategies[q.Type]
	if !ok {
		return out
	}
	out = s.Grade(q, response)
	out.PointsPossible = q.Points
	if out.Correct {
		out.PointsEarned = q.Points
	} else {
		out.PointsEarned = 0
	}
	return out
}

func (g *defaultGrader) CoveredTypes() []string {
	out := make([]string, 0, len(g.strategies))
	for t := range g.strategies {
		out = append(out, t)
	}
	return out
}

// --- Strategies ---

// textMatchStrategy: case-insensitive, trimmed string equality.
type textMatchStrategy struct{}

func (textMatchStrategy) Grade(q Q, response any) Outcome {
	resp, ok := asString(response)
	if !ok {
		return Outcome{}
	}
	return Outcome{Correct: foldEqual(resp, q.Answer)}
}

// exactMatchStrategy: plain equality of the selected option identifier.
type exactMatchStrategy struct{}

func (exactMatchStrategy) Grade(q Q, response any) Outcome {
	resp, ok := asString(response)
	if !ok {
		return Outcome{}
	}
	return Outcome{Correct: resp == q.Answer}
}

// multiSelectStrategy: order-independent set equality, realized by sorting
// both sides and comparing element-wise.
type multiSelectStrategy struct{}

func (multiSelectStrategy) Grade(q Q, response any) Outcome {
	resp, ok := asStringSlice(response)
	if !ok {
		return Outcome{}
	}
	return Outcome{Correct: sortedEqual(resp, q.Answers)}
}

// sequenceStrategy: element-wise equality, order matters. Shared by ordering
// and drag-drop.
type sequenceStrategy struct{}

func (sequenceStrategy) Grade(q Q, response any) Outcome {
	resp, ok := asStringSlice(response)
	if !ok || len(resp) != len(q.Answers) {
		return Outcome{}
	}
	for i := range resp {
		if resp[i] != q.Answers[i] {
			return Outcome{}
		}
	}
	return Outcome{Correct: true}
}

// fillBlanksStrategy: every expected blank must be answered with a trimmed,
// case-insensitive match. Extra submitted keys are ignored.
type fillBlanksStrategy struct{}

func (fillBlanksStrategy) Grade(q Q, response any) Outcome {
	resp, ok := asStringMap(response)
	if !ok || len(q.Blanks) == 0 {
		return Outcome{}
	}
	for key, want := range q.Blanks {
		got, has := resp[key]
		if !has || !foldEqual(got, want) {
			return Outcome{}
		}
	}
	return Outcome{Correct: true}
}

// matchingStrategy: every pair's left key must map, in the submission, to
// exactly that pair's right value.
type matchingStrategy struct{}

func (matchingStrategy) Grade(q Q, response any) Outcome {
	resp, ok := asStringMap(response)
	if !ok || len(q.Pairs) == 0 {
		return Outcome{}
	}
	for _, p := range q.Pairs {
		if resp[p.Left] != p.Right {
			return Outcome{}
		}
	}
	return Outcome{Correct: true}
}

// hotspotStrategy: every target point needs at least one click within the
// per-axis tolerance on both axes.
type hotspotStrategy struct{}

func (hotspotStrategy) Grade(q Q, response any) Outcome {
	clicks, ok := asPoints(response)
	if !ok || len(q.Targets) == 0 {
		return Outcome{}
	}
	for _, target := range q.Targets {
		hit := false
		for _, c := range clicks {
			if within(c.X, target.X) && within(c.Y, target.Y) {
				hit = true
				break
			}
		}
		if !hit {
			return Outcome{}
		}
	}
	return Outcome{Correct: true}
}

func within(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= HotspotTolerance
}

// essayStrategy: never auto-scored; essays wait for human grading.
type essayStrategy struct{}

func (essayStrategy) Grade(Q, any) Outcome { return Outcome{} }
