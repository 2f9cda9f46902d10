package books

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/openshelf/library-api/internal/api/apperr"
	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/store/catalog"
	"github.com/openshelf/library-api/internal/validate"
)

func handleCreate(store *catalog.Store, w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var body struct {
		ISBN        string `json:"isbn"`
		Title       string `json:"title"`
		Author      string `json:"author"`
		Publisher   string `json:"publisher"`
		PublishYear int    `json:"publish_year"`
		Category    string `json:"category"`
		TotalCopies int    `json:"total_copies"`
		Location    string `json:"location"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "invalid JSON")
		return
	}

	title, err := validate.RequireBounded("title", body.Title, 1, 200)
	if err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	author, err := validate.RequireBounded("author", body.Author, 1, 120)
	if err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if body.TotalCopies < 1 {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "total_copies must be at least 1")
		return
	}
	if body.PublishYear != 0 && (body.PublishYear < 1400 || body.PublishYear > time.Now().Year()+1) {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "publish_year out of range")
		return
	}

	b, err := store.Create(r.Context(), models.Book{
		ISBN:        body.ISBN,
		Title:       title,
		Author:      author,
		Publisher:   body.Publisher,
		PublishYear: body.PublishYear,
		Category:    body.Category,
		TotalCopies: body.TotalCopies,
		Location:    body.Location,
	})
	if err != nil {
		apperr.HandleDBError(w, r, err, "Service Unavailable")
		return
	}

	httpx.Created(w, b)
}
