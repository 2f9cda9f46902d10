package books

import (
	"net/http"
	"strings"

	"github.com/openshelf/library-api/internal/api/apperr"
	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/store/catalog"
	"github.com/openshelf/library-api/internal/validate"
)

func handleList(store *catalog.Store, w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	limit, offset := validate.ClampLimitOffset(
		r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), 20, 100)

	books, total, err := store.List(r.Context(), catalog.ListFilter{
		Query:    q,
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		apperr.HandleDBError(w, r, err, "Service Unavailable")
		return
	}

	resp := struct {
		Status string        `json:"status"`
		Data   []models.Book `json:"data"`
		Total  int           `json:"total"`
		Limit  int           `json:"limit"`
		Offset int           `json:"offset"`
	}{
		Status: "success",
		Data:   books,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
