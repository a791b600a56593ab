package graph

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/leanderkyvelos-create/MoodCam/internal/db"
	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

var (
	ErrSelfRequest     = errors.New("cannot send friend request to self")
	ErrProfileNotFound = errors.New("profile not found")
	ErrRequestNotFound = errors.New("friend request not found")
)

// The request/friend lists live as jsonb string arrays on each profile
// row. Every mutation below is a single set-union or set-subtract
// expression evaluated inside the database, so concurrent writers to
// the same row cannot lose each other's entries, and both rows of an
// edge always change inside one transaction.
const (
	addOutgoingSQL = `
		UPDATE profiles
		SET outgoing_requests = (
			SELECT coalesce(jsonb_agg(DISTINCT elem), '[]'::jsonb)
			FROM jsonb_array_elements_text(coalesce(outgoing_requests, '[]'::jsonb) || to_jsonb($2::text)) elem
		)
		WHERE id = $1
	`

	addIncomingSQL = `
		UPDATE profiles
		SET incoming_requests = (
			SELECT coalesce(jsonb_agg(DISTINCT elem), '[]'::jsonb)
			FROM jsonb_array_elements_text(coalesce(incoming_requests, '[]'::jsonb) || to_jsonb($2::text)) elem
		)
		WHERE id = $1
	`

	removeOutgoingSQL = `
		UPDATE profiles
		SET outgoing_requests = (
			SELECT coalesce(jsonb_agg(elem), '[]'::jsonb)
			FROM jsonb_array_elements_text(coalesce(outgoing_requests, '[]'::jsonb)) elem
			WHERE elem != $2
		)
		WHERE id = $1
	`

	removeIncomingSQL = `
		UPDATE profiles
		SET incoming_requests = (
			SELECT coalesce(jsonb_agg(elem), '[]'::jsonb)
			FROM jsonb_array_elements_text(coalesce(incoming_requests, '[]'::jsonb)) elem
			WHERE elem != $2
		)
		WHERE id = $1
	`

	acceptAccepterSQL = `
		UPDATE profiles
		SET friends = (
			SELECT coalesce(jsonb_agg(DISTINCT elem), '[]'::jsonb)
			FROM jsonb_array_elements_text(coalesce(friends, '[]'::jsonb) || to_jsonb($2::text)) elem
		),
		incoming_requests = (
			SELECT coalesce(jsonb_agg(elem), '[]'::jsonb)
			FROM jsonb_array_elements_text(coalesce(incoming_requests, '[]'::jsonb)) elem
			WHERE elem != $2
		)
		WHERE id = $1
	`

	acceptRequesterSQL = `
		UPDATE profiles
		SET friends = (
			SELECT coalesce(jsonb_agg(DISTINCT elem), '[]'::jsonb)
			FROM jsonb_array_elements_text(coalesce(friends, '[]'::jsonb) || to_jsonb($2::text)) elem
		),
		outgoing_requests = (
			SELECT coalesce(jsonb_agg(elem), '[]'::jsonb)
			FROM jsonb_array_elements_text(coalesce(outgoing_requests, '[]'::jsonb)) elem
			WHERE elem != $2
		)
		WHERE id = $1
	`
)

type Service struct {
	db       db.Querier
	profiles *profile.Service
}

func NewService(database db.Querier, profiles *profile.Service) *Service {
	return &Service{db: database, profiles: profiles}
}

// SendRequest records a pending edge requester -> target on both
// profile rows atomically. Sending twice is a no-op thanks to the set
// semantics of the update expressions.
func (s *Service) SendRequest(ctx context.Context, requesterID, targetID string) (Status, error) {
	if requesterID == targetID {
		return "", ErrSelfRequest
	}

	me, err := s.profiles.Get(ctx, requesterID)
	if errors.Is(err, profile.ErrNotFound) {
		return "", ErrProfileNotFound
	}
	if err != nil {
		return "", err
	}
	if me.IsFriend(targetID) {
		return StatusAlreadyFriends, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, addOutgoingSQL, requesterID, targetID); err != nil {
		return "", err
	}
	tag, err := tx.Exec(ctx, addIncomingSQL, targetID, requesterID)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", ErrProfileNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	s.profiles.Invalidate(ctx, requesterID, targetID)
	return StatusSent, nil
}

// AcceptRequest turns the pending edge requester -> accepter into a
// symmetric friendship. All four sub-mutations (two friends additions,
// two request removals) commit or roll back together.
func (s *Service) AcceptRequest(ctx context.Context, accepterID, requesterID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var incoming []string
	err = tx.QueryRow(ctx, `
		SELECT incoming_requests FROM profiles WHERE id=$1 FOR UPDATE
	`, accepterID).Scan(&incoming)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProfileNotFound
	}
	if err != nil {
		return err
	}
	if !contains(incoming, requesterID) {
		return ErrRequestNotFound
	}

	if _, err := tx.Exec(ctx, acceptAccepterSQL, accepterID, requesterID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, acceptRequesterSQL, requesterID, accepterID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.profiles.Invalidate(ctx, accepterID, requesterID)
	return nil
}

// WithdrawRequest cancels a pending outgoing request. Removing an edge
// that does not exist is a no-op.
func (s *Service) WithdrawRequest(ctx context.Context, requesterID, targetID string) error {
	return s.removeEdge(ctx, requesterID, targetID)
}

// RejectRequest declines a pending incoming request.
func (s *Service) RejectRequest(ctx context.Context, targetID, requesterID string) error {
	return s.removeEdge(ctx, requesterID, targetID)
}

func (s *Service) removeEdge(ctx context.Context, requesterID, targetID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, removeOutgoingSQL, requesterID, targetID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, removeIncomingSQL, targetID, requesterID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.profiles.Invalidate(ctx, requesterID, targetID)
	return nil
}

// Requests resolves the viewer's pending request lists to full
// profiles.
func (s *Service) Requests(ctx context.Context, me profile.Profile) (incoming, outgoing []profile.Profile, err error) {
	incoming, err = s.profiles.GetMany(ctx, me.IncomingRequests)
	if err != nil {
		return nil, nil, err
	}
	outgoing, err = s.profiles.GetMany(ctx, me.OutgoingRequests)
	if err != nil {
		return nil, nil, err
	}
	return incoming, outgoing, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
