package domain

import "testing"

func TestAspectIndexMatchesEnumerationOrder(t *testing.T) {
	want := []Aspect{"career", "social", "financial", "physical", "community"}
	for i, a := range want {
		if got := a.Index(); got != i {
			t.Fatalf("%s: index %d, want %d", a, got, i)
		}
	}
	if Aspect("spiritual").Valid() {
		t.Fatalf("unknown aspect reported valid")
	}
}

func TestParseAspect(t *testing.T) {
	a, ok := ParseAspect("  Financial ")
	if !ok || a != AspectFinancial {
		t.Fatalf("ParseAspect: got %q ok=%v", a, ok)
	}
	if _, ok := ParseAspect("Spiritual"); ok {
		t.Fatalf("ParseAspect accepted unknown domain")
	}
}
