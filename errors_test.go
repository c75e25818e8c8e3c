package docweaver

import (
	"errors"
	"strings"
	"testing"

	"github.com/grahms/docweaver/memdoc"
)

func Test_Engine_Should_Report_MissingAttribute(t *testing.T) {
	en := NewEngine(nil)
	input := "<template>\n<kwd/>\n</template>"
	_, err := en.Process([]byte(input), memdoc.New())

	if err == nil {
		t.Fatal("expected error for missing attribute, got nil")
	}
	var attrErr *AttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("expected AttributeError, got %T: %v", err, err)
	}
	if attrErr.TagName != "kwd" {
		t.Errorf("expected tag name 'kwd', got %q", attrErr.TagName)
	}
	if attrErr.AttributeName != "name" {
		t.Errorf("expected attribute name 'name', got %q", attrErr.AttributeName)
	}
	if attrErr.Pos.Line != 2 {
		t.Errorf("expected line 2, got %d", attrErr.Pos.Line)
	}
	if !strings.Contains(attrErr.Context, "-> 2: <kwd/>") {
		t.Errorf("expected context to point at the tag, got:\n%s", attrErr.Context)
	}
}

func Test_Engine_Should_Report_UnmatchedTag(t *testing.T) {
	var s tagStack
	s.push(&frame{name: "par"})
	_, err := s.pop("run", Position{Line: 4, Column: 2})
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Fatalf("expected structural mismatch, got %v", err)
	}
	want := "unmatched closing tag </run>: expected </par> at line 4, column 2"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func Test_Engine_Should_Report_DuplicateTag(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("note", Spec{})
	err := reg.Register("note", Spec{})

	var dup *DuplicateTagError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateTagError, got %T: %v", err, err)
	}
	if dup.Name != "note" {
		t.Errorf("expected name 'note', got %q", dup.Name)
	}
}

func Test_Engine_Should_Wrap_TagErrors(t *testing.T) {
	cause := errors.New("disk on fire")
	err := &TagError{ParseError: ParseError{Pos: Position{Line: 1, Column: 5}, Message: "end failed"}, TagName: "table", ID: "t1", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected TagError to unwrap to its cause")
	}
	want := `<table> "t1": end failed: disk on fire at line 1, column 5`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func Test_Engine_Should_Keep_Context_Empty_Without_Position(t *testing.T) {
	if got := extractContext("a\nb", Position{}); got != "" {
		t.Errorf("expected no context, got %q", got)
	}
	if got := extractContext("a\nb", Position{Line: 9}); got != "" {
		t.Errorf("expected no context past the end, got %q", got)
	}
}
