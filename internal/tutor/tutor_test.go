package tutor

import (
	"testing"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/content"
)

func questionWithBlocks(n int) *catalog.Question {
	blocks := make([]content.Block, n)
	for i := range blocks {
		blocks[i] = content.Block{Type: content.BlockText, Content: "step"}
	}
	return &catalog.Question{Explanation: &content.Payload{Blocks: blocks}}
}

func testKit() *catalog.LearningKit {
	return &catalog.LearningKit{
		TopicID: "t1",
		Summary: catalog.KitSummary{Bullets: []string{"remember the formula"}},
		Mistakes: []catalog.KitMistake{
			{Mistake: "dividing by zero", Fix: "check the denominator first"},
		},
		Checks: []string{"substitute the result back"},
	}
}

func TestRender_AllBlocksWhenNotGuided(t *testing.T) {
	v := Render(questionWithBlocks(3), nil, false, 0)

	if len(v.Blocks) != 3 {
		t.Errorf("len(Blocks) = %d, want 3", len(v.Blocks))
	}
	if v.FallbackUsed {
		t.Error("FallbackUsed = true, want false")
	}
	if v.CanAdvance {
		t.Error("CanAdvance = true, want false outside guided mode")
	}
}

func TestRender_GuidedStepping(t *testing.T) {
	q := questionWithBlocks(3)

	cases := []struct {
		step        int
		wantVisible int
		wantAdvance bool
	}{
		{-1, 1, true}, // negative steps clamp to one block
		{0, 1, true},
		{1, 2, true},
		{2, 3, false},
		{5, 3, false}, // clamped past the end
	}
	prev := 0
	for _, tc := range cases {
		v := Render(q, nil, true, tc.step)
		if len(v.Blocks) != tc.wantVisible {
			t.Errorf("step %d: visible = %d, want %d", tc.step, len(v.Blocks), tc.wantVisible)
		}
		if v.CanAdvance != tc.wantAdvance {
			t.Errorf("step %d: CanAdvance = %v, want %v", tc.step, v.CanAdvance, tc.wantAdvance)
		}
		if len(v.Blocks) < prev {
			t.Errorf("step %d: visible count decreased (%d -> %d)", tc.step, prev, len(v.Blocks))
		}
		prev = len(v.Blocks)
	}
}

func TestRender_KitFallback(t *testing.T) {
	q := &catalog.Question{} // no explanation at all
	kit := testKit()

	v := Render(q, kit, true, 0)

	if !v.FallbackUsed {
		t.Fatal("FallbackUsed = false, want true")
	}
	if v.Kit != kit {
		t.Error("Kit not passed through")
	}
	if v.Pending {
		t.Error("Pending = true, want false when a kit exists")
	}
	// Guided stepping must not apply to fallback content.
	if v.CanAdvance {
		t.Error("CanAdvance = true, want false for fallback content")
	}
	if len(v.KitMistakes) != 1 {
		t.Errorf("KitMistakes = %v, want the kit's mistake list", v.KitMistakes)
	}
	if len(v.KitChecks) != 1 {
		t.Errorf("KitChecks = %v, want the kit's check list", v.KitChecks)
	}
}

func TestRender_PendingPlaceholder(t *testing.T) {
	v := Render(&catalog.Question{}, nil, false, 0)

	if !v.FallbackUsed || !v.Pending {
		t.Errorf("FallbackUsed=%v Pending=%v, want both true with no explanation and no kit", v.FallbackUsed, v.Pending)
	}
	if len(v.KitMistakes) != 0 || len(v.KitChecks) != 0 {
		t.Error("kit lists should be empty without a kit")
	}
}

func TestRender_AuxiliarySectionsPreferOwnText(t *testing.T) {
	q := &catalog.Question{
		ErrorCommon: "forgetting the middle term",
		Explanation: &content.Payload{
			Text:         "short explanation",
			Verificacion: "expandir para comprobar",
		},
	}

	v := Render(q, testKit(), false, 0)

	if v.ErrorCommon != "forgetting the middle term" {
		t.Errorf("ErrorCommon = %q, want the question column", v.ErrorCommon)
	}
	if v.Verification != "expandir para comprobar" {
		t.Errorf("Verification = %q, want the embedded legacy field", v.Verification)
	}
	// Not in fallback mode, so kit lists stay hidden.
	if len(v.KitMistakes) != 0 || len(v.KitChecks) != 0 {
		t.Error("kit lists should not be shown when the question has its own explanation")
	}
}

func TestRender_NoAuxiliaryOutsideFallback(t *testing.T) {
	v := Render(questionWithBlocks(2), testKit(), false, 0)

	if v.ErrorCommon != "" || v.Verification != "" {
		t.Errorf("auxiliary = %q/%q, want empty", v.ErrorCommon, v.Verification)
	}
	if len(v.KitMistakes) != 0 || len(v.KitChecks) != 0 {
		t.Error("kit lists shown outside fallback mode")
	}
}
