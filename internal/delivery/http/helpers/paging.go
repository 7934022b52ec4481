package helpers

import (
	"net/http"
	"net/url"
	"strconv"

	"socialhub/internal/domain"
)

// ParsePageRequest reads offset and limit from the query string. Missing values
// fall back to 0 and domain.DefaultPageLimit; malformed or out of range values
// yield a *domain.ValidationError.
func ParsePageRequest(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	offset, err := queryInt(q, "offset", 0)
	if err != nil {
		return domain.PageRequest{}, err
	}
	limit, err := queryInt(q, "limit", domain.DefaultPageLimit)
	if err != nil {
		return domain.PageRequest{}, err
	}
	return domain.NewPageRequest(offset, limit)
}

func queryInt(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.NewValidationError(key, "%s must be an integer", key)
	}
	return n, nil
}

// CurrentURL is the absolute URL of r resolved against baseURL, keeping the
// original path and query string.
func CurrentURL(baseURL string, r *http.Request) *url.URL {
	if u, err := url.Parse(baseURL + r.URL.RequestURI()); err == nil {
		return u
	}
	u := *r.URL
	return &u
}

// PathID parses the named path value as a positive integer id.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError(name, "%s must be a positive integer", name)
	}
	return id, nil
}
