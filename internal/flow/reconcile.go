package flow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	realmmodels "authgate/internal/realm/models"
	"authgate/internal/session/cookie"
	sessionmodels "authgate/internal/session/models"
	sessionstore "authgate/internal/session/store"
)

// Reconciler retires the server-side session left behind when a browser
// re-authenticates without logging out. The presented cookie is only a hint:
// the session store stays authoritative, so every failure mode here is a
// non-error and the flow continues.
type Reconciler struct {
	sessions sessionstore.Gateway
	logger   *slog.Logger
}

func NewReconciler(sessions sessionstore.Gateway, logger *slog.Logger) *Reconciler {
	return &Reconciler{sessions: sessions, logger: logger}
}

// Reconcile compares the session id found in the presented cookie value with
// the session about to become current and removes the old server-side session
// when they diverge. Callers must invoke this before the response that sets
// the new cookie is returned, otherwise the old session can linger past the
// request boundary.
//
// Absent cookie, malformed cookie, unparseable session id, and lookup miss
// are all ignored. Returns true only when an old session was actually removed.
func (r *Reconciler) Reconcile(ctx context.Context, presentedCookie string, realm *realmmodels.Realm, newSession *sessionmodels.UserSession) bool {
	if presentedCookie == "" {
		return false
	}
	decoded, ok := cookie.Decode(presentedCookie)
	if !ok {
		return false
	}
	oldID, err := uuid.Parse(decoded.SessionID)
	if err != nil {
		return false
	}
	if oldID == newSession.ID {
		return false
	}

	old, err := r.sessions.GetUserSession(ctx, realm.Name, oldID)
	if err != nil {
		return false
	}

	r.logger.DebugContext(ctx, "removing superseded user session",
		"realm", realm.Name, "old_session_id", old.ID, "new_session_id", newSession.ID)
	if err := r.sessions.RemoveUserSession(ctx, realm.Name, old.ID); err != nil {
		// Best-effort: the old session will still age out via TTL.
		r.logger.WarnContext(ctx, "failed to remove superseded session",
			"realm", realm.Name, "old_session_id", old.ID, "error", err)
		return false
	}
	return true
}
