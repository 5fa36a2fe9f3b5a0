package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pioloLlanos/live/service/api/reqcontext"
)

const (
	bodyUp          = "Well done"
	bodyMaintenance = "Maintenance"
)

// liveness reports whether a database connection can be acquired. The answer is always 200: only the body tells
// the two outcomes apart, and the failure cause is never exposed.
func (rt *_router) liveness(w http.ResponseWriter, r *http.Request, ps httprouter.Params, ctx reqcontext.RequestContext) {
	if !rt.checkDatabaseConnection(r.Context()) {
		rt.probes.WithLabelValues(outcomeMaintenance).Inc()
		ctx.Logger.WithField("outcome", outcomeMaintenance).Debug("database unreachable")
		rt.writeText(w, http.StatusOK, bodyMaintenance)
		return
	}

	rt.probes.WithLabelValues(outcomeUp).Inc()
	rt.writeText(w, http.StatusOK, bodyUp)
}

// checkDatabaseConnection acquires one connection and releases it right away.
func (rt *_router) checkDatabaseConnection(ctx context.Context) bool {
	conn, err := rt.db.Acquire(ctx)
	if err != nil {
		return false
	}
	defer conn.Release()
	return true
}
