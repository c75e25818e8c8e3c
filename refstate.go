package docweaver

import (
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ReferenceState carries the heading path and item counters of the
// reference pass.
type ReferenceState struct {
	heading  []int
	counters map[string]int
	depth    int // counting depth; 0 resets item counters at every heading
	content  *strings.Builder
	refs     *RefBuilder
	log      *zap.Logger
}

func newReferenceState(reg *Registry, refs *RefBuilder, depth int, log *zap.Logger) *ReferenceState {
	s := &ReferenceState{
		counters: map[string]int{},
		depth:    depth,
		refs:     refs,
		log:      log,
	}
	for _, name := range reg.Referenceable() {
		s.counters[name] = 0
	}
	return s
}

// Heading returns a copy of the current heading path.
func (s *ReferenceState) Heading() []int { return slices.Clone(s.heading) }

// Counter returns the current item counter for role.
func (s *ReferenceState) Counter(role string) int { return s.counters[role] }

// NextItem increments and returns the item counter for role.
func (s *ReferenceState) NextItem(role string) int {
	s.counters[role]++
	return s.counters[role]
}

// IncrementHeading advances the heading path to a heading at level (1-based).
func (s *ReferenceState) IncrementHeading(level int) {
	if level < 1 {
		return
	}
	cur := len(s.heading)
	switch {
	case level == cur+1:
		s.heading = append(s.heading, 1)
	case level > cur+1:
		s.log.Warn("suspicious heading level",
			zap.Int("level", level), zap.Int("current", cur))
		for i := 0; i < level-cur; i++ {
			s.heading = append(s.heading, 1)
		}
	default:
		s.heading = s.heading[:level]
		s.heading[level-1]++
	}
	if s.depth == 0 || level <= s.depth {
		for k := range s.counters {
			s.counters[k] = 0
		}
	}
	s.log.Debug("heading", zap.Ints("path", s.heading))
}

// FormatHeading renders prefix followed by the dotted heading path. A
// non-empty suffix is appended after a dash and limits the path to the
// counting depth.
func (s *ReferenceState) FormatHeading(prefix, suffix string) string {
	path := s.heading
	if suffix != "" && s.depth > 0 && len(path) > s.depth {
		path = path[:s.depth]
	}
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = strconv.Itoa(n)
	}
	num := strings.Join(parts, ".")
	if suffix != "" {
		if num == "" {
			num = suffix
		} else {
			num += "-" + suffix
		}
	}
	switch {
	case prefix == "":
		return num
	case num == "":
		return prefix
	}
	return prefix + " " + num
}

// BeginContent starts accumulating text for the current target.
func (s *ReferenceState) BeginContent() { s.content = &strings.Builder{} }

// AddContent appends text when accumulation is active.
func (s *ReferenceState) AddContent(text string) {
	if s.content != nil {
		s.content.WriteString(text)
	}
}

// EndContent stops accumulation and returns the normalized text.
func (s *ReferenceState) EndContent() string {
	if s.content == nil {
		return ""
	}
	text := collapse(s.content.String())
	s.content = nil
	return text
}

// Set records a reference.
func (s *ReferenceState) Set(role, attr, key, text string, duplicates bool) error {
	return s.refs.Set(role, attr, key, text, duplicates)
}
