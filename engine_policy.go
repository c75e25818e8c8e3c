package docweaver

import (
	"go.uber.org/zap"
)

// UnknownTagPolicy decides what the assembly pass does with unregistered tags.
type UnknownTagPolicy int

const (
	UnknownDrop   UnknownTagPolicy = iota // log and skip the branch
	UnknownAudit                          // also leave an alt-text placeholder
	UnknownStrict                         // abort the document
)

func (p UnknownTagPolicy) String() string {
	switch p {
	case UnknownDrop:
		return "drop"
	case UnknownAudit:
		return "audit"
	case UnknownStrict:
		return "strict"
	}
	return "unknown"
}

// ParseUnknownTagPolicy accepts "drop", "audit" or "strict".
func ParseUnknownTagPolicy(s string) (UnknownTagPolicy, bool) {
	for _, p := range []UnknownTagPolicy{UnknownDrop, UnknownAudit, UnknownStrict} {
		if p.String() == s {
			return p, true
		}
	}
	return UnknownDrop, false
}

type Engine struct {
	reg          *Registry
	policy       UnknownTagPolicy
	log          *zap.Logger
	styles       Styles
	data         DataConfig
	plugins      *Plugins
	keywords     Keywords
	headingDepth int
}
