package catalog

import "testing"

func TestNameColumn(t *testing.T) {
	cases := map[string]string{
		"djmdArtist": "Name",
		"djmdKey":    "ScaleName",
		"djmdColor":  "ColorCode",
	}
	for table, want := range cases {
		got, ok := NameColumn(table)
		if !ok || got != want {
			t.Errorf("NameColumn(%q) = (%q, %v), want (%q, true)", table, got, ok, want)
		}
	}

	if _, ok := NameColumn("djmdContent"); ok {
		t.Error("djmdContent is not a master table and should have no name column")
	}
}

func TestIsColorCodeDedup(t *testing.T) {
	if !IsColorCodeDedup("djmdColor") {
		t.Error("djmdColor dedupes by integer ColorCode, not string name equality")
	}
	if IsColorCodeDedup("djmdArtist") {
		t.Error("djmdArtist dedupes by Name, not ColorCode")
	}
}

func TestForeignKeysContentHasFourArtistLinks(t *testing.T) {
	fks := ForeignKeys("djmdContent")
	count := 0
	for _, fk := range fks {
		if fk.Referent == "djmdArtist" {
			count++
		}
	}
	if count != 4 {
		t.Errorf("expected 4 djmdArtist foreign keys on djmdContent, got %d", count)
	}
}

func TestForeignKeysUnknownTableIsNil(t *testing.T) {
	if fks := ForeignKeys("notATable"); fks != nil {
		t.Errorf("expected nil for unknown table, got %v", fks)
	}
}

func TestJSONBlobField(t *testing.T) {
	b, ok := JSONBlobField("contentCue")
	if !ok || b.Column != "Cues" || b.Referent != "djmdCue" {
		t.Errorf("JSONBlobField(contentCue) = %+v, ok=%v", b, ok)
	}

	if _, ok := JSONBlobField("djmdContent"); ok {
		t.Error("djmdContent has no embedded JSON blob column")
	}
}

func TestResetColumnSets(t *testing.T) {
	if len(ResetToZeroColumns) == 0 || len(ResetToNullColumns) == 0 {
		t.Fatal("reset column sets must not be empty")
	}
	for _, c := range ResetToZeroColumns {
		for _, n := range ResetToNullColumns {
			if c == n {
				t.Errorf("%q appears in both reset-to-zero and reset-to-null sets", c)
			}
		}
	}
}

func TestMasterAndRelatedTablesDisjoint(t *testing.T) {
	seen := make(map[string]bool)
	for _, t2 := range MasterTables {
		seen[t2] = true
	}
	for _, t2 := range RelatedTables {
		if seen[t2] {
			t.Errorf("%q appears in both MasterTables and RelatedTables", t2)
		}
	}
}
