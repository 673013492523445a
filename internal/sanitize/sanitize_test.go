package sanitize

import "testing"

func TestSanitize_StripsScript(t *testing.T) {
	s := NewHTML()

	out, err := s.Sanitize("<script>alert(1)</script>Hello")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if out != "Hello" {
		t.Fatalf("expected script markup removed, got %q", out)
	}
}

func TestSanitize_KeepsMarkdownQuotes(t *testing.T) {
	s := NewHTML()

	out, err := s.Sanitize("> quoted line")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if out != "> quoted line" {
		t.Fatalf("expected markdown quote preserved, got %q", out)
	}
}

func TestSanitize_PlainTextUntouched(t *testing.T) {
	s := NewHTML()

	out, err := s.Sanitize("just a comment")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if out != "just a comment" {
		t.Fatalf("expected plain text untouched, got %q", out)
	}
}
