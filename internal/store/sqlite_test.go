package store

import "testing"

func TestDBName_StripsScheme(t *testing.T) {
	cases := map[string]string{
		"https://example.com": "example.com",
		"http://example.com":  "example.com",
		"example.com":         "example.com",
	}
	for in, want := range cases {
		if got := DBName(in); got != want {
			t.Fatalf("DBName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTableName_IdentifierSafe(t *testing.T) {
	got := tableName("https://Sub.Example.com:8080")
	want := "comments_sub_example_com_8080"
	if got != want {
		t.Fatalf("tableName = %q, want %q", got, want)
	}
}
