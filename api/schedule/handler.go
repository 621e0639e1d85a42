// Package schedule exposes a persisted schedule over HTTP.
package schedule

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/enginepool/core/logger"
	"github.com/kilianp07/enginepool/core/schedule"
)

// Path is the route served by NewHandler.
const Path = "/api/schedule"

// authorized compares the bearer credential in constant time.
func authorized(r *http.Request, token string) bool {
	got := []byte(r.Header.Get("Authorization"))
	want := []byte("Bearer " + token)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// NewHandler returns an HTTP handler answering GET /api/schedule with the
// rows of store matching the query string (from_week, to_week, aircraft,
// motor, leased). Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewHandler(store schedule.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rows, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []schedule.Row{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func parseQuery(r *http.Request) (schedule.Query, error) {
	v := r.URL.Query()
	q := schedule.Query{Aircraft: v.Get("aircraft"), Motor: v.Get("motor")}
	if s := v.Get("from_week"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, fmt.Errorf("from_week: %w", err)
		}
		q.FromWeek = n
	}
	if s := v.Get("to_week"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, fmt.Errorf("to_week: %w", err)
		}
		q.ToWeek, q.HasToWeek = n, true
	}
	if s := v.Get("leased"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, fmt.Errorf("leased: %w", err)
		}
		q.LeasedOnly = b
	}
	return q, nil
}

// Serve runs an HTTP server for the handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, log logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("schedule api shutdown: %v", err)
		}
		cancel()
	}()
	log.Infof("serving schedule on %s%s", addr, Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
