package elements

import "testing"

func TestTypeFromNameCaseInsensitive(t *testing.T) {
	if TypeFromName("DIV") != Div {
		t.Fatalf("want Div for DIV")
	}
	if TypeFromName("TaBlE") != Table {
		t.Fatalf("want Table for TaBlE")
	}
	if TypeFromName("frobnicate") != Unknown {
		t.Fatalf("want Unknown for an unrecognised tag name")
	}
}

func TestCategoryPredicatesAreMutuallyExclusive(t *testing.T) {
	for t1 := Address; t1 <= Unknown; t1++ {
		categories := 0
		if IsSpecial(t1) {
			categories++
		}
		if IsScoping(t1) {
			categories++
		}
		if IsFormatting(t1) {
			categories++
		}
		if IsPhrasing(t1) {
			categories++
		}
		if categories != 1 {
			t.Errorf("type %d belongs to %d categories, want exactly 1", t1, categories)
		}
	}
}

func TestUnusedIsNeverReturnedByName(t *testing.T) {
	for name := range byName {
		if TypeFromName(name) == Unused {
			t.Errorf("TypeFromName(%q) returned the reserved Unused sentinel", name)
		}
	}
}
