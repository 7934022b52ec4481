package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"socialhub/internal/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// uniqueConstraint returns the violated constraint name when err is a unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// isForeignKeyViolation reports whether err references a missing parent row.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

// placeholders accumulates query arguments and returns their $n markers.
type placeholders struct {
	args []any
}

func (p *placeholders) add(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// notBlocked is a predicate hiding rows whose user column is blocked by, or
// has blocked, the viewer bound at placeholder viewerArg.
func notBlocked(userCol, viewerArg string) string {
	return fmt.Sprintf(`NOT EXISTS (
		SELECT 1 FROM blocks b
		WHERE (b.blocker_id = %[2]s AND b.blocked_id = %[1]s)
		   OR (b.blocker_id = %[1]s AND b.blocked_id = %[2]s)
	)`, userCol, viewerArg)
}

// requireAffected maps a zero row count to notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func scanUsers(rows *sql.Rows) ([]*domain.UserSimplified, error) {
	defer rows.Close()
	var users []*domain.UserSimplified
	for rows.Next() {
		var u domain.UserSimplified
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
