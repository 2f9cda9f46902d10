package books

import (
	"net/http"
	"strings"

	"github.com/openshelf/library-api/internal/store/catalog"
)

const allowBooks = "GET, POST, OPTIONS"

func Handler(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			idPart := strings.Trim(strings.TrimPrefix(r.URL.Path, "/books/"), "/")
			if idPart == "" {
				handleList(store, w, r)
				return
			}
			handleGet(store, w, r, idPart)

		case http.MethodPost:
			handleCreate(store, w, r)

		default:
			w.Header().Set("Allow", allowBooks)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
