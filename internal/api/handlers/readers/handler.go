package readers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/openshelf/library-api/internal/api/apperr"
	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/store/membership"
	"github.com/openshelf/library-api/internal/validate"
)

const allowReaders = "GET, POST, OPTIONS"

func Handler(store *membership.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			idPart := strings.Trim(strings.TrimPrefix(r.URL.Path, "/readers/"), "/")
			if idPart == "" {
				handleList(store, w, r)
				return
			}
			handleGet(store, w, r, idPart)

		case http.MethodPost:
			handleCreate(store, w, r)

		default:
			w.Header().Set("Allow", allowReaders)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func handleList(store *membership.Store, w http.ResponseWriter, r *http.Request) {
	limit, offset := validate.ClampLimitOffset(
		r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), 20, 100)

	rs, total, err := store.List(r.Context(), limit, offset)
	if err != nil {
		apperr.HandleDBError(w, r, err, "Service Unavailable")
		return
	}

	resp := struct {
		Status string          `json:"status"`
		Data   []models.Reader `json:"data"`
		Total  int             `json:"total"`
		Limit  int             `json:"limit"`
		Offset int             `json:"offset"`
	}{
		Status: "success",
		Data:   rs,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func handleGet(store *membership.Store, w http.ResponseWriter, r *http.Request, idPart string) {
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "reader id must be numeric")
		return
	}

	rd, err := store.Get(r.Context(), id)
	switch {
	case errors.Is(err, membership.ErrNotFound):
		apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "reader not found")
	case err != nil:
		apperr.HandleDBError(w, r, err, "Service Unavailable")
	default:
		httpx.OK(w, rd)
	}
}

func handleCreate(store *membership.Store, w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var body struct {
		Name    string `json:"name"`
		Gender  string `json:"gender"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "invalid JSON")
		return
	}

	name, err := validate.RequireBounded("name", body.Name, 1, 120)
	if err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	rd, err := store.Create(r.Context(), models.Reader{
		Name:    name,
		Gender:  body.Gender,
		Phone:   body.Phone,
		Email:   body.Email,
		Address: body.Address,
	})
	if err != nil {
		apperr.HandleDBError(w, r, err, "Service Unavailable")
		return
	}

	httpx.Created(w, rd)
}
