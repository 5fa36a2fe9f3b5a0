package api

import (
	"net/http"
)

// Handler returns an instance of httprouter.Router that handle APIs registered here
func (rt *_router) Handler() http.Handler {
	// Liveness probe
	rt.router.GET("/live", rt.wrap(rt.liveness))

	return rt.router
}
