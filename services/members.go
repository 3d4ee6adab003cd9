package services

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/sports-academy-go/locks"
	models "github.com/phillip/sports-academy-go/models"
)

type MemberService struct {
	*Content[models.Member, *models.Member]

	fees   *FeeService
	locker locks.Locker
	log    *slog.Logger
}

func memberKey(id primitive.ObjectID) string { return "member:" + id.Hex() }

// Create inserts the member and seeds its fee ledger. A ledger failure is
// logged and leaves the member in place; Reconcile repairs it later.
func (s *MemberService) Create(ctx context.Context, m *models.Member) (*models.Member, error) {
	created, err := s.Content.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	if _, err := s.fees.CreateForMember(ctx, created); err != nil {
		s.log.WarnContext(ctx, "fee ledger not created for new member",
			"member_id", created.ID.Hex(), "error", err)
	}
	return created, nil
}

// Update applies patch and, when the name changed, rewrites the ledger's
// denormalized memberName while holding the member's lock.
func (s *MemberService) Update(ctx context.Context, id primitive.ObjectID, patch models.MemberPatch) (*models.Member, error) {
	release, err := s.locker.Lock(ctx, memberKey(id))
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()

	var previous string
	updated, err := s.Content.Update(ctx, id, func(m *models.Member) error {
		previous = m.Name
		return patch.Apply(m)
	})
	if err != nil {
		return nil, err
	}
	if updated.Name != previous {
		n, err := s.fees.renameLocked(ctx, id, updated.Name)
		if err != nil {
			s.log.WarnContext(ctx, "member rename not propagated to fee ledger",
				"member_id", id.Hex(), "error", err)
		} else {
			s.log.DebugContext(ctx, "member rename propagated", "member_id", id.Hex(), "ledgers", n)
		}
	}
	return updated, nil
}

// Delete removes the member, then its ledgers.
func (s *MemberService) Delete(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	release, err := s.locker.Lock(ctx, memberKey(id))
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()

	deleted, err := s.Content.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.fees.deleteForMemberLocked(ctx, id); err != nil {
		s.log.WarnContext(ctx, "fee ledger not removed for deleted member",
			"member_id", id.Hex(), "error", err)
	}
	return deleted, nil
}

func lockErr(err error) error {
	return &Error{Kind: KindStoreUnavailable, Message: "could not acquire lock", Err: err}
}
