// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/cliqproject/cliq-staking/api/utils"
	"github.com/cliqproject/cliq-staking/eventdb"
)

// Events exposes the emitted-record log for querying.
type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

// New creates the events API. limit caps the records one query may return.
func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{db: db, limit: limit}
}

// handleFilter accepts a filter body and responds with matching records.
func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter FilterRequest
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	query := filter.toQuery()
	if query.Options == nil {
		query.Options = &eventdb.Options{Offset: 0, Limit: e.limit}
	} else if query.Options.Limit > e.limit {
		return utils.Forbidden(errors.New("options.limit exceeds the maximum allowed value"))
	}
	records, err := e.db.Filter(req.Context(), query)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRecords(records))
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
