package model

// OutcomeKind classifies what happened to a link file.
type OutcomeKind int

const (
	// Unchanged means the link already forwards everything it should.
	Unchanged OutcomeKind = iota
	// Changed means new content was synthesized for the link.
	Changed
	// Failed means the link could not be processed.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Failed:
		return "failed"
	}

	return "unknown"
}

// RewriteOutcome is the single result of rewriting one link. Content is only
// set for Changed, Err only for Failed.
type RewriteOutcome struct {
	Kind    OutcomeKind
	Content []byte
	Err     error
}

// LinkState tracks how far a link got through the rewrite.
type LinkState string

// Link rewrite states.
const (
	StateStart          LinkState = "start"
	StateParsed         LinkState = "parsed"
	StateAnchorResolved LinkState = "anchor_resolved"
	StateModuleLocated  LinkState = "module_located"
	StateTypesExtracted LinkState = "types_extracted"
	StateRewritten      LinkState = "rewritten"
	StateUnchanged      LinkState = "unchanged"
	StateFailed         LinkState = "failed"
)

// LinkResult is everything known about one processed link file.
type LinkResult struct {
	Path         Path
	Outcome      RewriteOutcome
	Require      PathComponents
	Target       Path
	Declarations int
	Original     []byte
	Written      bool
}

// BatchReport aggregates the results of one run.
type BatchReport struct {
	Sourcemap Path
	Roots     []Path
	DryRun    bool
	Results   []LinkResult
}

func (r BatchReport) count(kind OutcomeKind) int {
	n := 0

	for _, result := range r.Results {
		if result.Outcome.Kind == kind {
			n++
		}
	}

	return n
}

// Changed returns the number of links that received new content.
func (r BatchReport) Changed() int {
	return r.count(Changed)
}

// Unchanged returns the number of links left as they were.
func (r BatchReport) Unchanged() int {
	return r.count(Unchanged)
}

// Failed returns the number of links that could not be processed.
func (r BatchReport) Failed() int {
	return r.count(Failed)
}

// Succeeded reports whether no link failed.
func (r BatchReport) Succeeded() bool {
	return r.Failed() == 0
}
