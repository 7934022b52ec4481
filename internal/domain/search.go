package domain

import "context"

// SearchType selects which collections a search covers.
type SearchType string

const (
	SearchAllTypes SearchType = "all"
	SearchUsers    SearchType = "user"
	SearchPosts    SearchType = "post"
)

// SearchAll is the composite payload of an "all" search.
// swagger:model SearchAll
type SearchAll struct {
	Users PageResult[*UserSimplified] `json:"users"`
	Posts PageResult[*Post]           `json:"posts"`
}

// Len sums the rows of both sub-collections.
func (s SearchAll) Len() int {
	return s.Users.Len() + s.Posts.Len()
}

// Total sums the matching rows of both sub-collections.
func (s SearchAll) Total() int {
	return s.Users.Total + s.Posts.Total
}

// SearchService defines user and post search.
type SearchService interface {
	SearchUsers(ctx context.Context, query string, filter UserSearchFilter, viewerID int64, page PageRequest) (PageResult[*UserSimplified], error)
	SearchPosts(ctx context.Context, query string, viewerID int64, page PageRequest) (PageResult[*Post], error)
	SearchAll(ctx context.Context, query string, filter UserSearchFilter, viewerID int64, page PageRequest) (SearchAll, error)
}
