package loans

import (
	"net/http"

	"github.com/openshelf/library-api/internal/api/apperr"
	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/store/circulation"
)

// Records serves the joined borrow-record view for presentation.
func Records(store *circulation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.ListRecords(r.Context())
		if err != nil {
			apperr.HandleDBError(w, r, err, "Service Unavailable")
			return
		}
		httpx.OK(w, out)
	}
}
