package loans

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/openshelf/library-api/internal/api/apperr"
	"github.com/openshelf/library-api/internal/api/httpx"
	mw "github.com/openshelf/library-api/internal/api/middlewares"
	"github.com/openshelf/library-api/internal/store/circulation"
)

// Return closes an open borrow record and reports the fine. A borrow ID
// that never existed and one already returned both come back 404.
func Return(store *circulation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var body struct {
			BorrowID int64 `json:"borrow_id"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "invalid JSON")
			return
		}
		if body.BorrowID <= 0 {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "borrow_id is required")
			return
		}

		fine, err := store.Return(r.Context(), body.BorrowID)
		switch {
		case errors.Is(err, circulation.ErrRecordNotFound):
			apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "open borrow record not found")
		case err != nil:
			apperr.HandleDBError(w, r, err, "Service Unavailable")
		default:
			if staffID, _, ok := mw.StaffFrom(r.Context()); ok {
				log.Printf("[loans] staff %s closed borrow %d (fine %.2f)", staffID, body.BorrowID, fine)
			}
			httpx.OK(w, map[string]any{"fine": fine})
		}
	}
}
