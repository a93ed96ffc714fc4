package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/ports/primary"
)

// msgExecuted is the message of every successful resource operation.
const msgExecuted = "The request was successfully executed."

type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

type validationBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Message: msgExecuted, Data: data})
}

// writeError maps an error onto its status and body. Validation failures carry
// their field map; everything else is {error}.
func writeError(w http.ResponseWriter, err error) {
	e, ok := apperr.As(err)
	if !ok {
		err = apperr.Internal()
		e, _ = apperr.As(err)
	}
	status := apperr.StatusCode(err)

	if len(e.Fields) > 0 {
		writeJSON(w, status, validationBody{Message: e.Message(), Errors: e.Fields})
		return
	}
	writeJSON(w, status, errorBody{Error: e.Message()})
}

// decodeJSON reads a JSON object into v. Absent fields stay nil.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.As(err, &maxErr):
			return apperr.InvalidArgument("The request body may not be larger than %d bytes.", maxErr.Limit)
		default:
			return apperr.InvalidArgument("The request body must be a valid JSON object.")
		}
	}
	return nil
}

// parseMatchQuery reads search, perPage, page and orderBy.
func parseMatchQuery(r *http.Request) (primary.MatchQuery, error) {
	q := r.URL.Query()
	errs := map[string]string{}

	mq := primary.MatchQuery{
		Search:  strings.TrimSpace(q.Get("search")),
		OrderBy: q.Get("orderBy"),
	}
	if len(mq.Search) > 255 {
		errs["search"] = "Try searching for a shorter name."
	}
	if v := q.Get("perPage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs["perPage"] = "Invalid pagination parameters."
		}
		mq.PerPage = n
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs["page"] = "Invalid pagination parameters."
		}
		mq.Page = n
	}

	if err := apperr.Validation(errs); err != nil {
		return primary.MatchQuery{}, err
	}
	return mq, nil
}

// pagination is the paginated listing body.
type pagination[T any] struct {
	Items        []T     `json:"items"`
	CurrentPage  int     `json:"current_page"`
	FirstPageURL string  `json:"first_page_url"`
	From         *int    `json:"from"`
	LastPage     int     `json:"last_page"`
	LastPageURL  string  `json:"last_page_url"`
	NextPageURL  *string `json:"next_page_url"`
	Path         string  `json:"path"`
	PerPage      int     `json:"per_page"`
	PrevPageURL  *string `json:"prev_page_url"`
	To           *int    `json:"to"`
	Total        int     `json:"total"`
}

func paginate[S, T any](r *http.Request, page *primary.Page[S], convert func(S) T) pagination[T] {
	m := page.Meta
	path := requestPath(r)
	pageURL := func(n int) string { return fmt.Sprintf("%s?page=%d", path, n) }

	p := pagination[T]{
		Items:        mapSlice(page.Items, convert),
		CurrentPage:  m.CurrentPage,
		FirstPageURL: pageURL(1),
		LastPage:     m.LastPage,
		LastPageURL:  pageURL(m.LastPage),
		Path:         path,
		PerPage:      m.PerPage,
		Total:        m.Total,
	}
	if m.From > 0 {
		p.From, p.To = &m.From, &m.To
	}
	if m.CurrentPage < m.LastPage {
		u := pageURL(m.CurrentPage + 1)
		p.NextPageURL = &u
	}
	if m.CurrentPage > 1 {
		u := pageURL(m.CurrentPage - 1)
		p.PrevPageURL = &u
	}
	return p
}

func requestPath(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path
}
