package router

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/openshelf/library-api/internal/api/handlers/books"
	"github.com/openshelf/library-api/internal/api/handlers/loans"
	"github.com/openshelf/library-api/internal/api/handlers/readers"
	"github.com/openshelf/library-api/internal/api/httpx"
	mw "github.com/openshelf/library-api/internal/api/middlewares"
	"github.com/openshelf/library-api/internal/auth"
	catalogstore "github.com/openshelf/library-api/internal/store/catalog"
	"github.com/openshelf/library-api/internal/store/circulation"
	"github.com/openshelf/library-api/internal/store/membership"
)

func Router(db *sql.DB, rdb *redis.Client) http.Handler {
	catalog := catalogstore.New(db)
	members := membership.New(db)
	circ := circulation.New(db, rdb)
	login := auth.New(auth.NewSQLStore(db))

	mux := http.NewServeMux()

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		httpx.OK(w, map[string]string{"service": "library-api"})
	})

	mux.HandleFunc("POST /auth/login", login.Login)

	// Keep legacy /books -> /books/
	mux.HandleFunc("GET /books", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/books/", http.StatusMovedPermanently)
	})
	mux.Handle("GET /books/", books.Handler(catalog))
	mux.Handle("GET /books/{id}", books.Handler(catalog))
	mux.Handle("POST /books/", mw.RequireAuth(books.Handler(catalog)))
	mux.Handle("OPTIONS /books/", books.Handler(catalog))

	mux.HandleFunc("GET /readers", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/readers/", http.StatusMovedPermanently)
	})
	mux.Handle("GET /readers/", readers.Handler(members))
	mux.Handle("GET /readers/{id}", readers.Handler(members))
	mux.Handle("POST /readers/", mw.RequireAuth(readers.Handler(members)))
	mux.Handle("OPTIONS /readers/", readers.Handler(members))

	mux.Handle("POST /loans/borrow", mw.RequireAuth(loans.Borrow(circ)))
	mux.Handle("POST /loans/return", mw.RequireAuth(loans.Return(circ)))
	mux.Handle("GET /loans/records", loans.Records(circ))

	return mux
}
