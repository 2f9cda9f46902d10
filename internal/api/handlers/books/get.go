package books

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/openshelf/library-api/internal/api/apperr"
	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/store/catalog"
)

func handleGet(store *catalog.Store, w http.ResponseWriter, r *http.Request, idPart string) {
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "book id must be numeric")
		return
	}

	b, err := store.Get(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "book not found")
	case err != nil:
		apperr.HandleDBError(w, r, err, "Service Unavailable")
	default:
		httpx.OK(w, b)
	}
}
