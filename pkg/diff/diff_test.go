package diff

import "testing"

func TestUnifiedNonEmptyOnChange(t *testing.T) {
	out := Unified("version 1", "# Hi\n", "version 2", "# Hi\nmore words here\n")
	if out == "" {
		t.Fatal("expected non-empty diff for changed content")
	}
}

func TestUnifiedEmptyWhenIdentical(t *testing.T) {
	out := Unified("version 1", "# Hi\n", "version 1", "# Hi\n")
	if out != "" {
		t.Fatalf("expected empty diff for identical content, got %q", out)
	}
}
