package postgres

import (
	"context"
	"database/sql"
	"errors"

	"socialhub/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

// NewCommentRepository returns a domain.CommentRepository implemented with Postgres.
func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{DB: db}
}

const commentColumns = `
	SELECT c.id, c.post_id, c.parent_id, c.comment, c.created_at, c.updated_at,
		u.id, u.username, u.first_name, u.last_name,
		(SELECT COUNT(*) FROM comments r WHERE r.parent_id = c.id)
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

func scanComment(row rowScanner) (*domain.Comment, error) {
	c := &domain.Comment{}
	var parentID sql.NullInt64
	err := row.Scan(
		&c.ID, &c.PostID, &parentID, &c.Comment, &c.CreatedAt, &c.UpdatedAt,
		&c.User.ID, &c.User.Username, &c.User.FirstName, &c.User.LastName,
		&c.TotalReplies,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (post_id, parent_id, user_id, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.PostID, c.ParentID, c.User.ID, c.Comment, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id, viewerID int64) (*domain.Comment, error) {
	query := commentColumns + ` WHERE c.id = $1 AND ` + notBlocked("c.user_id", "$2")
	c, err := scanComment(r.DB.QueryRowContext(ctx, query, id, viewerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) Update(ctx context.Context, id int64, comment string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE comments SET comment = $1, updated_at = NOW() WHERE id = $2`, comment, id)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *commentRepository) ListByPostID(ctx context.Context, postID, viewerID int64, order domain.SortOrder, page domain.PageRequest) ([]*domain.Comment, int, error) {
	where := ` WHERE c.post_id = $1 AND c.parent_id IS NULL AND ` + notBlocked("c.user_id", "$2")
	dir := "DESC"
	if order == domain.OrderOldest {
		dir = "ASC"
	}
	return r.list(ctx, where, " ORDER BY c.created_at "+dir+", c.id "+dir, postID, viewerID, page)
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID, viewerID int64, page domain.PageRequest) ([]*domain.Comment, int, error) {
	where := ` WHERE c.parent_id = $1 AND ` + notBlocked("c.user_id", "$2")
	return r.list(ctx, where, " ORDER BY c.created_at ASC, c.id ASC", parentID, viewerID, page)
}

func (r *commentRepository) list(ctx context.Context, where, orderBy string, id, viewerID int64, page domain.PageRequest) ([]*domain.Comment, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments c`+where, id, viewerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx, commentColumns+where+orderBy+` LIMIT $3 OFFSET $4`, id, viewerID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
