package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"socialhub/internal/domain"
)

// maxLookupConcurrency bounds the per-item user lookups of one batch.
const maxLookupConcurrency = 8

// ParticipantAuthorizer decides, for a batch of participant changes, which
// items the acting member is not allowed to apply.
type ParticipantAuthorizer struct {
	users domain.UserRepository
}

// NewParticipantAuthorizer returns a ParticipantAuthorizer checking target users against the given repository.
func NewParticipantAuthorizer(users domain.UserRepository) *ParticipantAuthorizer {
	return &ParticipantAuthorizer{users: users}
}

// Authorize evaluates every change against the members of room roomID, as
// read under the room lock. It returns a *domain.ParticipantErrors listing
// each rejected item in input order, nil when the whole batch may be
// applied, or a lookup failure.
func (a *ParticipantAuthorizer) Authorize(ctx context.Context, roomID int64, members []*domain.Participant, changes []domain.ParticipantChange, acting domain.ParticipantRole, isDeleting bool) error {
	byUser := make(map[int64]*domain.Participant, len(members))
	for _, m := range members {
		byUser[m.UserID] = m
	}
	return a.evaluate(ctx, roomID, byUser, changes, acting, isDeleting)
}

// AuthorizeNewRoom evaluates the initial participants of a room that does not exist yet, as its creator.
func (a *ParticipantAuthorizer) AuthorizeNewRoom(ctx context.Context, changes []domain.ParticipantChange) error {
	return a.evaluate(ctx, 0, nil, changes, domain.RoleCreator, false)
}

func (a *ParticipantAuthorizer) evaluate(ctx context.Context, roomID int64, members map[int64]*domain.Participant, changes []domain.ParticipantChange, acting domain.ParticipantRole, isDeleting bool) error {
	exists := make([]bool, len(changes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLookupConcurrency)
	for i, change := range changes {
		g.Go(func() error {
			ok, err := a.users.Exists(gctx, change.UserID)
			if err != nil {
				return fmt.Errorf("failed to check user %d: %w", change.UserID, err)
			}
			exists[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var rejected []domain.ParticipantError
	for i, change := range changes {
		if perr := domain.EvaluateParticipantChange(roomID, change, exists[i], members[change.UserID], acting, isDeleting); perr != nil {
			rejected = append(rejected, *perr)
		}
	}
	if len(rejected) > 0 {
		return &domain.ParticipantErrors{Deleting: isDeleting, Items: rejected}
	}
	return nil
}
