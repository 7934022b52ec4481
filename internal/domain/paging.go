package domain

import (
	"math"
	"net/url"
	"strconv"
)

// Paging defaults and limits for offset/limit list endpoints.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
	MaxPageOffset    = math.MaxInt32
)

// StatusSuccess is the status value carried by every success envelope.
const StatusSuccess = "success"

// PageRequest is the validated offset/limit pair of a list request.
type PageRequest struct {
	Offset int
	Limit  int
}

// NewPageRequest returns a PageRequest after validating offset and limit.
func NewPageRequest(offset, limit int) (PageRequest, error) {
	p := PageRequest{Offset: offset, Limit: limit}
	if err := p.Validate(); err != nil {
		return PageRequest{}, err
	}
	return p, nil
}

// Validate returns a *ValidationError when the limit is outside [1, MaxPageLimit]
// or the offset is outside [0, MaxPageOffset].
func (p PageRequest) Validate() error {
	if p.Limit > MaxPageLimit {
		return NewValidationError("limit", "limit must not exceed %d", MaxPageLimit)
	}
	if p.Limit < 1 {
		return NewValidationError("limit", "limit must be a positive integer")
	}
	if p.Offset < 0 {
		return NewValidationError("offset", "offset must not be negative")
	}
	if p.Offset > MaxPageOffset {
		return NewValidationError("offset", "offset must not exceed %d", MaxPageOffset)
	}
	return nil
}

// PageResult is one page of rows plus the count of all matching rows.
type PageResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Len returns the number of rows on the page.
func (r PageResult[T]) Len() int { return len(r.Data) }

// Counted is implemented by page payloads made of several sub-collections.
type Counted interface {
	Len() int
}

// Pagination is the navigation block of a PagingEnvelope.
// swagger:model Pagination
type Pagination struct {
	Next         *string `json:"next"`
	Previous     *string `json:"previous"`
	Current      string  `json:"current"`
	ResultCount  int     `json:"result_count"`
	TotalRecords int     `json:"total_records"`
	Offset       int     `json:"offset"`
	Limit        int     `json:"limit"`
}

// PagingEnvelope is the JSON body of every list endpoint.
// swagger:model PagingEnvelope
type PagingEnvelope struct {
	Status     string     `json:"status"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// BuildPage wraps a page of rows in a PagingEnvelope. current is the absolute
// URL of the request, query string included.
func BuildPage[T any](req PageRequest, result PageResult[T], current *url.URL) (*PagingEnvelope, error) {
	data := result.Data
	if data == nil {
		data = []T{}
	}
	return buildEnvelope(req, data, len(data), result.Total, current)
}

// BuildCompositePage is BuildPage for payloads holding several sub-collections.
// result_count is the sum of the sub-collection lengths.
func BuildCompositePage(req PageRequest, data Counted, total int, current *url.URL) (*PagingEnvelope, error) {
	return buildEnvelope(req, data, data.Len(), total, current)
}

func buildEnvelope(req PageRequest, data any, resultCount, total int, current *url.URL) (*PagingEnvelope, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &PagingEnvelope{
		Status: StatusSuccess,
		Data:   data,
		Pagination: Pagination{
			Next:         nextURL(current, req, resultCount, total),
			Previous:     previousURL(current, req),
			Current:      current.String(),
			ResultCount:  resultCount,
			TotalRecords: total,
			Offset:       req.Offset,
			Limit:        req.Limit,
		},
	}, nil
}

// nextURL is nil when the page is the last one: everything fits in one page,
// the offset already reaches the last window, or a short page came back.
func nextURL(current *url.URL, req PageRequest, resultCount, total int) *string {
	if total <= req.Limit || req.Offset >= total-req.Limit || resultCount < req.Limit {
		return nil
	}
	return withPage(current, req.Offset+req.Limit, req.Limit)
}

func previousURL(current *url.URL, req PageRequest) *string {
	if req.Offset == 0 {
		return nil
	}
	offset := req.Offset - req.Limit
	if offset < 0 {
		offset = 0
	}
	return withPage(current, offset, req.Limit)
}

func withPage(current *url.URL, offset, limit int) *string {
	u := *current
	q := u.Query()
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
