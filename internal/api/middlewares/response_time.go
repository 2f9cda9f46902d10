package middlewares

import (
	"log"
	"net/http"
	"time"
)

// Anything slower than this gets a log line; borrow/return should be well
// under it even when the book row is contended.
const slowThreshold = 500 * time.Millisecond

type timingWriter struct {
	http.ResponseWriter
	begin   time.Time
	stamped bool
}

// stampOnce writes X-Response-Time just before the first header or body
// byte goes out; after that the header map is frozen.
func (tw *timingWriter) stampOnce() {
	if tw.stamped {
		return
	}
	tw.stamped = true
	tw.Header().Set("X-Response-Time", time.Since(tw.begin).String())
}

func (tw *timingWriter) WriteHeader(code int) {
	tw.stampOnce()
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timingWriter) Write(p []byte) (int, error) {
	tw.stampOnce()
	return tw.ResponseWriter.Write(p)
}

// ResponseTime reports per-request latency to the caller and flags slow
// requests in the log.
func ResponseTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &timingWriter{ResponseWriter: w, begin: time.Now()}
		next.ServeHTTP(tw, r)

		elapsed := time.Since(tw.begin)
		if !tw.stamped {
			// handler wrote nothing (204, HEAD)
			tw.Header().Set("X-Response-Time", elapsed.String())
		}
		if elapsed > slowThreshold {
			log.Printf("[slow] %s %s took %s", r.Method, r.URL.Path, elapsed)
		}
	})
}
