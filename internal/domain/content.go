package domain

import "errors"

var (
	ErrModuleNotFound      = errors.New("module not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrUpgradeRequired     = errors.New("upgrade required")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Module is one unit of course content. MinTier tags the catalog entry
// with the lowest tier allowed to read its sections; the free-preview
// catalog is simply the set of modules with MinTier == TierPreview.
type Module struct {
	ID              string
	Title           string
	DurationMinutes int
	Points          int
	MinTier         Tier
	Position        int
	Sections        []Section
}

type Section struct {
	Position int
	Title    string
	Body     string
}

// Question carries the authoritative answer key and rationale. Both must
// be stripped before serialization to any caller; grading always re-derives
// correctness from this struct, never from client input.
type Question struct {
	ID          string
	ModuleID    string
	Position    int
	Category    string
	Prompt      string
	Options     []string
	AnswerIndex int
	Rationale   string
}
