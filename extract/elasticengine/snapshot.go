package elasticengine

import (
	"context"
)

// pitSession owns the server-side point-in-time handle of one extraction run.
// State machine: closed -> open -> closed. The handle is exclusively owned by
// the run for its entire lifetime and never shared.
type pitSession struct {
	engine Extractor
	id     string
}

func (e Extractor) newPITSession() *pitSession {
	return &pitSession{engine: e}
}

// Open requests a new point-in-time handle with the configured keep-alive TTL.
func (s *pitSession) Open(ctx context.Context) error {
	id, openErr := s.engine.client.OpenPIT(ctx, s.engine.index, s.engine.keepAlive)
	if openErr != nil {
		return openErr
	}

	s.id = id
	s.engine.logDebug(ctx, logMsgSnapshotOpened, logAttrSnapshotID, id)

	return nil
}

// Refresh closes the current handle best-effort and opens a fresh one. Called
// once per follow-mode polling cycle so the keep-alive window never lapses
// during long-running tails; a failed close must not stop tailing.
func (s *pitSession) Refresh(ctx context.Context) error {
	if closeErr := s.Close(ctx); closeErr != nil {
		s.engine.logWarn(ctx, logMsgSnapshotCloseFailed, logAttrError, closeErr.Error())
	}

	return s.Open(ctx)
}

// Close releases the handle if one is open. Idempotent: local state is cleared
// first, so a failed close request is reported once and never repeated.
func (s *pitSession) Close(ctx context.Context) error {
	if s.id == "" {
		return nil
	}

	id := s.id
	s.id = ""

	if closeErr := s.engine.client.ClosePIT(ctx, id); closeErr != nil {
		return closeErr
	}

	s.engine.logDebug(ctx, logMsgSnapshotClosed, logAttrSnapshotID, id)

	return nil
}

// IsOpen reports whether a handle is currently open.
func (s *pitSession) IsOpen() bool {
	return s.id != ""
}

// ID returns the opaque handle token, empty while closed.
func (s *pitSession) ID() string {
	return s.id
}
