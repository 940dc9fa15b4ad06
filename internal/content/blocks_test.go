package content

import "testing"

func TestNormalize_LegacyText(t *testing.T) {
	p := &Payload{Text: "Factor out the common term."}

	blocks := Normalize(p)

	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	if blocks[0].Type != BlockText {
		t.Errorf("Type = %q, want %q", blocks[0].Type, BlockText)
	}
	if blocks[0].Content != "Factor out the common term." {
		t.Errorf("Content = %q, want the original text", blocks[0].Content)
	}
}

func TestNormalize_BlockListUnchanged(t *testing.T) {
	p := &Payload{
		Blocks: []Block{
			{Type: BlockText, Content: "Step one."},
			{Type: BlockMath, Latex: "x^2 - 4 = (x-2)(x+2)"},
			{Type: BlockText, Content: ""},
		},
		// Legacy text must be ignored when an explicit list exists.
		Text: "stale",
	}

	blocks := Normalize(p)

	if len(blocks) != 3 {
		t.Fatalf("len(blocks) = %d, want 3 (empty blocks pass through)", len(blocks))
	}
	if blocks[1].Type != BlockMath || blocks[1].Latex != "x^2 - 4 = (x-2)(x+2)" {
		t.Errorf("block 1 = %+v, want the math block unchanged", blocks[1])
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("Normalize(nil) = %v, want empty", got)
	}
	if got := Normalize(&Payload{}); len(got) != 0 {
		t.Errorf("Normalize(empty payload) = %v, want empty", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(&Payload{Text: "only paragraph"})
	second := Normalize(&Payload{Blocks: first})

	if len(second) != len(first) {
		t.Fatalf("len = %d, want %d", len(second), len(first))
	}
	if second[0] != first[0] {
		t.Errorf("re-normalized block = %+v, want %+v", second[0], first[0])
	}
}

func TestPayload_CommonError_PrefersCurrentField(t *testing.T) {
	p := &Payload{ErrorCommon: "sign error", ErrorComun: "old"}
	if got := p.CommonError(); got != "sign error" {
		t.Errorf("CommonError() = %q, want %q", got, "sign error")
	}

	p = &Payload{ErrorComun: "olvidar el signo"}
	if got := p.CommonError(); got != "olvidar el signo" {
		t.Errorf("CommonError() = %q, want legacy field", got)
	}

	var nilPayload *Payload
	if got := nilPayload.CommonError(); got != "" {
		t.Errorf("nil CommonError() = %q, want empty", got)
	}
}

func TestPayload_VerificationNote_LegacyFallback(t *testing.T) {
	p := &Payload{Verificacion: "sustituir x=2"}
	if got := p.VerificationNote(); got != "sustituir x=2" {
		t.Errorf("VerificationNote() = %q, want legacy field", got)
	}
}

func TestBlock_Empty(t *testing.T) {
	cases := []struct {
		name  string
		block Block
		want  bool
	}{
		{"text with content", Block{Type: BlockText, Content: "x"}, false},
		{"text whitespace only", Block{Type: BlockText, Content: "   "}, true},
		{"math with latex", Block{Type: BlockMath, Latex: "a+b"}, false},
		{"math blank", Block{Type: BlockMath}, true},
	}
	for _, tc := range cases {
		if got := tc.block.Empty(); got != tc.want {
			t.Errorf("%s: Empty() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
