package docweaver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateTag             = errors.New("tag already registered")
	ErrInvalidDescriptor        = errors.New("invalid tag descriptor")
	ErrStructuralMismatch       = errors.New("structural mismatch")
	ErrMissingRequiredAttribute = errors.New("missing required attribute")
	ErrIllegalNesting           = errors.New("illegal nesting")
	ErrForbiddenContent         = errors.New("content not allowed")
	ErrUnknownTag               = errors.New("unknown tag")
	ErrConfigurationRequired    = errors.New("data configuration required")
	ErrDuplicateReference       = errors.New("duplicate reference")
	ErrLocked                   = errors.New("reference model is locked")
	ErrUnresolvedReference      = errors.New("unresolved reference")
	ErrReferenceMismatch        = errors.New("reference mismatch")
	ErrNestedRun                = errors.New("nested runs are forbidden")
	ErrBufferUnderflow          = errors.New("content buffer stack is empty")
	ErrDuplicateHandler         = errors.New("handler already registered")
)

// Position represents a position in the input stream.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ParseError is the base error type for all errors tied to a template location.
type ParseError struct {
	Pos     Position // Position where the error occurred
	Message string   // Error message
	Context string   // Surrounding content for context
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s at %s\nContext: %s", e.Message, e.Pos, e.Context)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

func (e *ParseError) attachContext(src string) {
	if e.Context == "" {
		e.Context = extractContext(src, e.Pos)
	}
}

func (e *ParseError) suffix() string {
	var b strings.Builder
	b.WriteString(" at ")
	b.WriteString(e.Pos.String())
	if e.Context != "" {
		b.WriteString("\nContext: ")
		b.WriteString(e.Context)
	}
	return b.String()
}

// UnmatchedTagError represents a closing tag that does not match the open one.
type UnmatchedTagError struct {
	ParseError
	TagName string // Name of the closing tag
	Open    string // Name of the tag on top of the stack, empty if none
}

// Error implements the error interface.
func (e *UnmatchedTagError) Error() string {
	if e.Open == "" {
		return fmt.Sprintf("unmatched closing tag </%s>: no open tag%s", e.TagName, e.suffix())
	}
	return fmt.Sprintf("unmatched closing tag </%s>: expected </%s>%s", e.TagName, e.Open, e.suffix())
}

func (e *UnmatchedTagError) Is(target error) bool { return target == ErrStructuralMismatch }

// AttributeError represents a missing required attribute.
type AttributeError struct {
	ParseError
	TagName       string // Name of the tag with the attribute error
	AttributeName string // Name of the missing attribute
	Role          string // Role the attribute was required by, if any
}

// Error implements the error interface.
func (e *AttributeError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("missing attribute '%s' in tag <%s> required by role %q%s",
			e.AttributeName, e.TagName, e.Role, e.suffix())
	}
	return fmt.Sprintf("missing required attribute '%s' in tag <%s>%s",
		e.AttributeName, e.TagName, e.suffix())
}

func (e *AttributeError) Is(target error) bool { return target == ErrMissingRequiredAttribute }

// NestingError represents a tag found inside a tag that forbids nested tags.
type NestingError struct {
	ParseError
	TagName string
	Parent  string
}

// Error implements the error interface.
func (e *NestingError) Error() string {
	return fmt.Sprintf("nesting tags in <%s> is forbidden: found <%s>%s", e.Parent, e.TagName, e.suffix())
}

func (e *NestingError) Is(target error) bool { return target == ErrIllegalNesting }

// ContentError represents text found in a tag that must be empty.
type ContentError struct {
	ParseError
	TagName string
	Text    string
}

// Error implements the error interface.
func (e *ContentError) Error() string {
	return fmt.Sprintf("<%s> tag must be empty: found %q%s", e.TagName, e.Text, e.suffix())
}

func (e *ContentError) Is(target error) bool { return target == ErrForbiddenContent }

// TagError wraps a fatal failure raised while processing one tag.
type TagError struct {
	ParseError
	TagName string
	ID      string // identifying value, if known
	Err     error
}

// Error implements the error interface.
func (e *TagError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("<%s> %q: %s: %v%s", e.TagName, e.ID, e.Message, e.Err, e.suffix())
	}
	return fmt.Sprintf("<%s>: %s: %v%s", e.TagName, e.Message, e.Err, e.suffix())
}

func (e *TagError) Unwrap() error { return e.Err }

// DuplicateTagError is returned when a tag name is registered twice.
type DuplicateTagError struct {
	Name string
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("tag <%s> already registered", e.Name)
}

func (e *DuplicateTagError) Is(target error) bool { return target == ErrDuplicateTag }

// DuplicateReferenceError is returned when a reference key is set twice.
type DuplicateReferenceError struct {
	Role, Attribute, Key string
	Existing, Text       string
}

func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("duplicate reference %s[%s=%q]: %q already set, refusing %q",
		e.Role, e.Attribute, e.Key, e.Existing, e.Text)
}

func (e *DuplicateReferenceError) Is(target error) bool { return target == ErrDuplicateReference }

// ConfigurationError is returned when a tag needs data configuration and the
// engine has none.
type ConfigurationError struct {
	TagName string
	Key     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("<%s> %q needs a data configuration but none was provided", e.TagName, e.Key)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfigurationRequired }

// NewParseError creates a new ParseError with context.
func NewParseError(pos Position, message, context string) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: message,
		Context: extractContext(context, pos),
	}
}

// NewUnmatchedTagError creates a new UnmatchedTagError.
func NewUnmatchedTagError(pos Position, tagName, open, context string) *UnmatchedTagError {
	return &UnmatchedTagError{
		ParseError: ParseError{
			Pos:     pos,
			Message: "closing tag does not match the open tag",
			Context: extractContext(context, pos),
		},
		TagName: tagName,
		Open:    open,
	}
}

// NewAttributeError creates a new AttributeError.
func NewAttributeError(pos Position, tagName, attrName, role, context string) *AttributeError {
	return &AttributeError{
		ParseError: ParseError{
			Pos:     pos,
			Message: "missing required attribute",
			Context: extractContext(context, pos),
		},
		TagName:       tagName,
		AttributeName: attrName,
		Role:          role,
	}
}

// attachContext fills the source snippet of any positioned error in err's chain.
func attachContext(err error, src []byte) error {
	var pe interface{ attachContext(string) }
	if errors.As(err, &pe) {
		pe.attachContext(string(src))
	}
	return err
}

// extractContext extracts a snippet of text around the error position for context.
// It tries to include a few lines before and after the error.
func extractContext(content string, pos Position) string {
	if content == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(content, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	startLine := max(0, pos.Line-3)
	endLine := min(len(lines)-1, pos.Line+1)

	var contextBuilder strings.Builder
	for i := startLine; i <= endLine; i++ {
		lineNum := i + 1
		if lineNum == pos.Line {
			contextBuilder.WriteString(fmt.Sprintf("-> %d: %s\n", lineNum, lines[i]))

			// Add a pointer to the column if possible
			if pos.Column > 0 && pos.Column <= len(lines[i])+1 {
				contextBuilder.WriteString(strings.Repeat(" ", pos.Column+5) + "^\n")
			}
		} else {
			contextBuilder.WriteString(fmt.Sprintf("   %d: %s\n", lineNum, lines[i]))
		}
	}

	return contextBuilder.String()
}
