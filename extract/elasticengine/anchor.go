package elasticengine

import (
	"context"
	"encoding/json"

	"github.com/esqproject/esq/extract"
)

// seekStartCursor issues the one-time reverse probe that locates the pagination
// cursor immediately preceding the plan's anchor: the probe is sorted newest
// first, fetches no document bodies, and is bounded above by the anchor time
// (or the live edge when the anchor has no reference time). The last hit of the
// reversed window is the chronologically earliest one; its sort key becomes the
// forward-pagination starting cursor.
//
// Every failure path falls back to a cursor-less start, so the caller reads
// from the unbounded beginning instead of aborting the run.
func (e Extractor) seekStartCursor(ctx context.Context, plan extract.Plan, session *pitSession) json.RawMessage {
	anchor := plan.Anchor()
	if anchor == nil {
		return nil
	}

	builder := NewSearchQueryBuilder().
		WithSortOrder(reverseSortOrder(plan.SortWithTiebreak())).
		WithSize(anchor.ProbeSize() + 1).
		WithSourceFields([]string{}).
		WithMatch(plan.WhereFilters()).
		WithTimeRange("", anchor.Reference(), e.latency)

	if session.IsOpen() {
		builder = builder.WithSnapshot(session.ID(), e.keepAlive)
	}

	body, buildErr := builder.Build()
	if buildErr != nil {
		e.logWarn(ctx, logMsgProbeFailed, logAttrError, buildErr.Error())
		return nil
	}

	response, searchErr := e.executeSearch(ctx, session, body, logActionProbe)
	if searchErr != nil {
		e.logWarn(ctx, logMsgProbeFailed, logAttrError, searchErr.Error())
		return nil
	}

	hits := response.Hits.Hits
	if len(hits) == 0 {
		return nil
	}

	e.logOperation(ctx, logMsgProbeCompleted, logAttrHitCount, len(hits))

	return hits[len(hits)-1].Sort
}
