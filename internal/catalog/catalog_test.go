package catalog

import (
	"testing"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

func TestThemesCatalog(t *testing.T) {
	got, err := Themes()
	if err != nil {
		t.Fatalf("Themes: %v", err)
	}
	if len(got) != 34 {
		t.Fatalf("expected 34 themes, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Name >= got[i].Name {
			t.Fatalf("themes not sorted by name at %d: %q >= %q", i, got[i-1].Name, got[i].Name)
		}
	}
	ach, ok := ThemeByName("achiever")
	if !ok || ach.ID.String() != "550e8400-e29b-41d4-a716-446655440001" {
		t.Fatalf("ThemeByName(achiever): %+v ok=%v", ach, ok)
	}
	woo, ok := ThemeByName("Woo")
	if !ok || woo.ID.String() != "550e8400-e29b-41d4-a716-446655440034" {
		t.Fatalf("ThemeByName(Woo): %+v ok=%v", woo, ok)
	}
	if _, ok := ThemeByName("Clairvoyance"); ok {
		t.Fatalf("unknown theme matched")
	}
}

func TestFallbackCoversEveryAspectOnce(t *testing.T) {
	fb, err := Fallback()
	if err != nil {
		t.Fatalf("Fallback: %v", err)
	}
	if len(fb) != len(types.Aspects) {
		t.Fatalf("expected %d fallback prompts, got %d", len(types.Aspects), len(fb))
	}
	themes := map[string]bool{}
	for i, f := range fb {
		if f.Prompt.Aspect != types.Aspects[i] {
			t.Fatalf("fallback[%d] aspect %s, want %s", i, f.Prompt.Aspect, types.Aspects[i])
		}
		if f.Theme.ID != f.Prompt.ThemeID {
			t.Fatalf("fallback[%d] theme mismatch", i)
		}
		themes[f.Theme.Name] = true
	}
	for _, name := range []string{"Achiever", "Learner", "Strategic", "Ideation", "Individualization"} {
		if !themes[name] {
			t.Fatalf("fallback missing default theme %s", name)
		}
	}
}

func TestParseFallbackRejectsMissingAspect(t *testing.T) {
	_, byID, err := parseThemes(themesYAML)
	if err != nil {
		t.Fatalf("parseThemes: %v", err)
	}
	raw := []byte(`prompts:
  - id: 550e8400-e29b-41d4-a716-446655440101
    theme_id: 550e8400-e29b-41d4-a716-446655440001
    aspect: career
    prompt_text: "only one"
`)
	if _, err := parseFallback(raw, byID); err == nil {
		t.Fatalf("expected error for incomplete fallback table")
	}
}
