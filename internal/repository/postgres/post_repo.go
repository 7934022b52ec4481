package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"socialhub/internal/domain"
)

type postRepository struct {
	DB *sql.DB
}

// NewPostRepository returns a domain.PostRepository implemented with Postgres.
func NewPostRepository(db *sql.DB) domain.PostRepository {
	return &postRepository{DB: db}
}

// postColumns expects the viewer id bound at $1.
const postColumns = `
	SELECT p.id, p.title, p.content, p.created_at, p.updated_at,
		u.id, u.username, u.first_name, u.last_name,
		(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
		EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1)
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	p := &domain.Post{}
	var title sql.NullString
	err := row.Scan(
		&p.ID, &title, &p.Content, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username, &p.Author.FirstName, &p.Author.LastName,
		&p.TotalLikes, &p.TotalComments, &p.IsLiked,
	)
	if err != nil {
		return nil, err
	}
	if title.Valid {
		p.Title = &title.String
	}
	return p, nil
}

func (r *postRepository) Create(ctx context.Context, p *domain.Post) error {
	query := `
		INSERT INTO posts (author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.Author.ID, p.Title, p.Content, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *postRepository) GetByID(ctx context.Context, id, viewerID int64) (*domain.Post, error) {
	query := postColumns + ` WHERE p.id = $2 AND ` + notBlocked("p.author_id", "$1")
	p, err := scanPost(r.DB.QueryRowContext(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postRepository) Update(ctx context.Context, id int64, title, content *string) error {
	query := `
		UPDATE posts
		SET title = COALESCE($1, title), content = COALESCE($2, content), updated_at = NOW()
		WHERE id = $3
	`
	res, err := r.DB.ExecContext(ctx, query, title, content, id)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *postRepository) List(ctx context.Context, filter domain.PostFilter, viewerID int64, page domain.PageRequest) ([]*domain.Post, int, error) {
	ph := &placeholders{}
	viewer := ph.add(viewerID)
	conds := []string{notBlocked("p.author_id", viewer)}
	if filter.AuthorID != 0 {
		conds = append(conds, "p.author_id = "+ph.add(filter.AuthorID))
	}
	if filter.FollowedBy != 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = "+ph.add(filter.FollowedBy)+" AND f.followee_id = p.author_id)")
	}
	if filter.SavedBy != 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM saved_posts s WHERE s.post_id = p.id AND s.user_id = "+ph.add(filter.SavedBy)+")")
	}
	if filter.Query != "" {
		q := ph.add(filter.Query)
		conds = append(conds, "(p.title ILIKE '%' || "+q+" || '%' OR p.content ILIKE '%' || "+q+" || '%')")
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, ph.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := postColumns + where + ` ORDER BY p.created_at DESC, p.id DESC LIMIT ` + ph.add(page.Limit) + ` OFFSET ` + ph.add(page.Offset)
	rows, err := r.DB.QueryContext(ctx, query, ph.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
