// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/cliqproject/cliq-staking/api/events"
	"github.com/cliqproject/cliq-staking/api/stakes"
	"github.com/cliqproject/cliq-staking/eventdb"
	"github.com/cliqproject/cliq-staking/log"
	"github.com/cliqproject/cliq-staking/metrics"
	"github.com/cliqproject/cliq-staking/staking"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	EnableReqLogger bool
	EnableMetrics   bool
	MetricsEndpoint bool
}

// New return api router
func New(
	stk *staking.Staking,
	eventDB *eventdb.EventDB,
	tokens []staking.Token,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	stakes.New(stk, tokens...).
		Mount(router, "/staking")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	if opts.MetricsEndpoint {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
