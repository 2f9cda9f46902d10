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
	"github.com/openshelf/library-api/internal/validate"
)

// Borrow checks a book out to a reader. The failure kinds matter to the
// caller: 404 means fix the reference, 400 means fix the input, 409 means
// the last copy went out from under us.
func Borrow(store *circulation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var body struct {
			BookID   int64  `json:"book_id"`
			ReaderID int64  `json:"reader_id"`
			DueDate  string `json:"due_date"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "invalid JSON")
			return
		}
		if body.BookID <= 0 || body.ReaderID <= 0 {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "book_id and reader_id are required")
			return
		}
		due, err := validate.ParseDate("due_date", body.DueDate)
		if err != nil {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}

		rec, err := store.Borrow(r.Context(), body.BookID, body.ReaderID, due)
		switch {
		case errors.Is(err, circulation.ErrBookNotFound):
			apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "book not found")
		case errors.Is(err, circulation.ErrReaderNotFound):
			apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "reader not found")
		case errors.Is(err, circulation.ErrPastDueDate):
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "due_date must not be in the past")
		case errors.Is(err, circulation.ErrNoCopies):
			apperr.WriteStatus(w, r, http.StatusConflict, "Conflict", "no copies available")
		case err != nil:
			apperr.HandleDBError(w, r, err, "Service Unavailable")
		default:
			if staffID, _, ok := mw.StaffFrom(r.Context()); ok {
				log.Printf("[loans] staff %s checked out book %d to reader %d (borrow %d)",
					staffID, rec.BookID, rec.ReaderID, rec.BorrowID)
			}
			httpx.Created(w, rec)
		}
	}
}
