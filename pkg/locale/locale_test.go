package locale

import "testing"

func TestParse(t *testing.T) {
	tests := map[string]Locale{
		"":       Default,
		"en":     English,
		"EN-us":  English,
		"ar":     Arabic,
		"ar-SA":  Arabic,
		" ar_AE": Arabic,
		"fr":     Default,
	}
	for raw, want := range tests {
		if got := Parse(raw); got != want {
			t.Errorf("Parse(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestLocaleDirAndString(t *testing.T) {
	if Arabic.Dir() != "rtl" || English.Dir() != "ltr" {
		t.Fatalf("unexpected text direction")
	}
	if Locale("de").String() != "en" {
		t.Fatalf("unknown locale should stringify as default")
	}
}

func TestNameDisplay(t *testing.T) {
	name := NewName(" Spicy ", " حار ")
	if name.Display(English) != "Spicy" {
		t.Fatalf("english display = %q", name.Display(English))
	}
	if name.Display(Arabic) != "حار" {
		t.Fatalf("arabic display = %q", name.Display(Arabic))
	}

	partial := Name{En: "Only English"}
	if partial.Display(Arabic) != "Only English" {
		t.Fatalf("missing half should fall back, got %q", partial.Display(Arabic))
	}
	if !(Name{En: " ", Ar: ""}).Empty() {
		t.Fatalf("blank name should be empty")
	}
}

func TestPick(t *testing.T) {
	if Pick(Arabic, "a", "b") != "b" || Pick(English, "a", "b") != "a" {
		t.Fatalf("Pick returned the wrong half")
	}
}
