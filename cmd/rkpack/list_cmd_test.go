package main

import "testing"

func TestFormatCreateTableSplitsTopLevelColumns(t *testing.T) {
	in := "CREATE TABLE djmdContent (ID TEXT, Title TEXT, ArtistID TEXT)"
	got := formatCreateTable(in)
	want := "CREATE TABLE djmdContent (\n  ID TEXT,\n  Title TEXT,\n  ArtistID TEXT\n)"
	if got != want {
		t.Errorf("formatCreateTable() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatCreateTableIgnoresCommasInsideBackticks(t *testing.T) {
	in := "CREATE TABLE `weird, name` (ID TEXT, `col, with comma` TEXT)"
	got := formatCreateTable(in)
	want := "CREATE TABLE `weird, name` (\n  ID TEXT,\n  `col, with comma` TEXT\n)"
	if got != want {
		t.Errorf("formatCreateTable() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatCreateTableReturnsInputWhenUnparenthesized(t *testing.T) {
	in := "CREATE TABLE no_parens_here"
	if got := formatCreateTable(in); got != in {
		t.Errorf("formatCreateTable() = %q, want unchanged %q", got, in)
	}
}
