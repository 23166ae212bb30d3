package extract

import (
	"fmt"
	"math"
)

const (
	// DefaultLineCount is the line count used when the caller does not request one.
	DefaultLineCount uint = 10

	// MaxLineCount is the maximum line count accepted for anchor-relative modes.
	MaxLineCount uint = 5000
)

// DocumentBudgetUint is a type alias for uint, representing the total number of
// documents an extraction run may emit.
type DocumentBudgetUint = uint

// UnboundedBudget marks a document budget without an upper limit.
const UnboundedBudget DocumentBudgetUint = math.MaxUint

/***** Mode *****/

// Mode identifies which combination of time/selection parameters drives a run.
// Exactly one mode is selected per plan.
type Mode int

const (
	ModeNone Mode = iota
	ModeAround
	ModeTo
	ModeFrom
	ModeFromTo
	ModeFollow
)

func (m Mode) String() string {
	switch m {
	case ModeAround:
		return "around"
	case ModeTo:
		return "to"
	case ModeFrom:
		return "from"
	case ModeFromTo:
		return "from+to"
	case ModeFollow:
		return "follow"
	case ModeNone:
		return "none"
	default:
		return "unknown"
	}
}

/***** Anchor *****/

// Anchor describes the one-time reverse probe that locates the starting cursor
// for anchor-relative modes.
type Anchor struct {
	reference string
	probeSize uint
}

// Reference is the raw user-supplied datetime the probe seeks towards.
// Empty means "the live edge", i.e. now minus the ingestion-latency buffer.
func (a Anchor) Reference() string {
	return a.reference
}

// ProbeSize is the number of documents the probe window covers. The engine
// requests one more than this so the cursor lands just before the window.
func (a Anchor) ProbeSize() uint {
	return a.probeSize
}

/***** Options *****/

// Options carries the raw user-supplied values of one extraction command.
// Select and Where are pointers so that a supplied-but-empty spec can be told
// apart from an absent one; the former is a validation error.
type Options struct {
	Around string  // anchor time spec, empty when unset
	From   string  // range-start time spec, empty when unset
	To     string  // range-end time spec, empty when unset
	Lines  uint    // requested line count
	Follow bool    // tail the store in real time
	Select *string // raw comma-separated field selection spec, nil when unset
	Where  *string // raw comma-separated field:value filter spec, nil when unset
}

/***** Plan *****/

// Plan is the immutable result of parameter resolution. It is computed once by
// ResolvePlan and read-only thereafter.
type Plan struct {
	mode               Mode
	needsSnapshot      bool
	budget             DocumentBudgetUint
	selectFields       []string
	whereFilters       WhereFilters
	anchor             *Anchor
	pollBetweenBatches bool
	timeFrom           string
	timeTo             string
}

func (p Plan) Mode() Mode {
	return p.mode
}

// NeedsSnapshot reports whether the run requires a server-side consistent-read
// snapshot for multi-page pagination.
func (p Plan) NeedsSnapshot() bool {
	return p.needsSnapshot
}

func (p Plan) Budget() DocumentBudgetUint {
	return p.budget
}

// SelectFields is the explicit source projection, nil when the full document
// body should be fetched.
func (p Plan) SelectFields() []string {
	return p.selectFields
}

// WhereFilters is the AND-combined match clause, nil when no filter was given.
func (p Plan) WhereFilters() WhereFilters {
	return p.whereFilters
}

// Anchor is nil for modes that paginate without an anchor probe.
func (p Plan) Anchor() *Anchor {
	return p.anchor
}

// PollBetweenBatches is true iff the mode is Follow.
func (p Plan) PollBetweenBatches() bool {
	return p.pollBetweenBatches
}

// SortWithTiebreak reports whether pagination sorts carry the per-shard sequence
// tiebreaker. The tiebreaker field only exists inside a snapshot context, so this
// follows NeedsSnapshot.
func (p Plan) SortWithTiebreak() bool {
	return p.needsSnapshot
}

// TimeFrom is the raw range-start spec, empty when unset.
func (p Plan) TimeFrom() string {
	return p.timeFrom
}

// TimeTo is the raw range-end spec, empty when unset.
func (p Plan) TimeTo() string {
	return p.timeTo
}

/***** resolution *****/

// ResolvePlan validates the raw option values and resolves them into a Plan.
// It is a pure function: no I/O happens here, and date specs are carried through
// verbatim to be parsed where the range is built.
//
// Mode precedence, first match wins: Around, To/FromTo, From, Follow, None.
// It fails fast with ErrValidation on the first violated rule and never returns
// a partial plan.
func ResolvePlan(opts Options) (Plan, error) {
	var empty Plan

	selectFields, whereFilters, specErr := resolveSpecs(opts)
	if specErr != nil {
		return empty, specErr
	}

	plan := Plan{
		selectFields: selectFields,
		whereFilters: whereFilters,
		timeFrom:     opts.From,
		timeTo:       opts.To,
	}

	switch {
	case opts.Around != "":
		if opts.From != "" || opts.To != "" {
			return empty, fmt.Errorf(
				"%w: the parameters --to and --from cannot be used at the same time as --around", ErrValidation)
		}
		if opts.Follow {
			return empty, fmt.Errorf(
				"%w: the parameter --follow cannot be used at the same time as --around", ErrValidation)
		}
		if opts.Lines > MaxLineCount {
			return empty, fmt.Errorf(
				"%w: in combination with --around, the -n parameter has a maximum value of %d", ErrValidation, MaxLineCount)
		}

		plan.mode = ModeAround
		plan.needsSnapshot = true
		plan.budget = opts.Lines
		plan.anchor = &Anchor{reference: opts.Around, probeSize: opts.Lines / 2}

	case opts.To != "":
		if opts.Follow {
			return empty, fmt.Errorf(
				"%w: the parameter --follow cannot be used at the same time as --to", ErrValidation)
		}
		if opts.Lines > MaxLineCount {
			return empty, fmt.Errorf(
				"%w: in combination with --to, the -n parameter has a maximum value of %d", ErrValidation, MaxLineCount)
		}

		if opts.From != "" {
			if opts.Lines != DefaultLineCount {
				return empty, fmt.Errorf(
					"%w: you cannot use -n in combination with a full time range (--from and --to)", ErrValidation)
			}

			plan.mode = ModeFromTo
			plan.needsSnapshot = true
			plan.budget = UnboundedBudget

			break
		}

		plan.mode = ModeTo
		plan.needsSnapshot = true
		plan.budget = opts.Lines
		plan.anchor = &Anchor{reference: opts.To, probeSize: opts.Lines}

	case opts.From != "":
		if opts.Follow {
			return empty, fmt.Errorf(
				"%w: the parameter --follow cannot be used at the same time as --from", ErrValidation)
		}

		plan.mode = ModeFrom
		plan.budget = opts.Lines

	case opts.Follow:
		plan.mode = ModeFollow
		plan.needsSnapshot = true
		plan.budget = UnboundedBudget
		plan.pollBetweenBatches = true
		plan.anchor = &Anchor{probeSize: opts.Lines}

	default:
		plan.mode = ModeNone
		plan.budget = opts.Lines
		plan.anchor = &Anchor{probeSize: opts.Lines}
	}

	return plan, nil
}

func resolveSpecs(opts Options) ([]string, WhereFilters, error) {
	var selectFields []string
	var whereFilters WhereFilters

	if opts.Select != nil {
		fields, err := ParseSelectSpec(*opts.Select)
		if err != nil {
			return nil, nil, err
		}
		selectFields = fields
	}

	if opts.Where != nil {
		filters, err := ParseWhereSpec(*opts.Where)
		if err != nil {
			return nil, nil, err
		}
		whereFilters = filters
	}

	return selectFields, whereFilters, nil
}
