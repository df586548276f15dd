package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stride/internal/session"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) record(expiresAt time.Time) *Record {
	return &Record{
		ID:                id.NewSessionID(),
		UserID:            id.NewUserID(),
		CompanyID:         id.NewCompanyID(),
		Role:              session.RoleEmployee,
		Email:             "taylor@acme.test",
		AccessToken:       "token",
		RefreshToken:      "refresh",
		DeviceDisplayName: "Chrome on Mac OS X",
		CreatedAt:         time.Now(),
		ExpiresAt:         expiresAt,
	}
}

func (s *MemoryStoreSuite) TestSaveAndFind() {
	record := s.record(time.Now().Add(time.Hour))
	s.Require().NoError(s.store.Save(s.ctx, record))

	found, err := s.store.Find(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record.UserID, found.UserID)
	s.Equal(record.Role, found.Role)
	s.Equal(record.DeviceDisplayName, found.DeviceDisplayName)
}

func (s *MemoryStoreSuite) TestFindUnknownReturnsNotFound() {
	_, err := s.store.Find(s.ctx, id.NewSessionID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MemoryStoreSuite) TestSaveRequiresID() {
	err := s.store.Save(s.ctx, &Record{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *MemoryStoreSuite) TestFindReturnsCopy() {
	record := s.record(time.Now().Add(time.Hour))
	s.Require().NoError(s.store.Save(s.ctx, record))

	found, err := s.store.Find(s.ctx, record.ID)
	s.Require().NoError(err)
	found.Email = "mutated@acme.test"

	again, err := s.store.Find(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal("taylor@acme.test", again.Email)
}

func (s *MemoryStoreSuite) TestTouchUpdatesLastSeen() {
	record := s.record(time.Now().Add(time.Hour))
	s.Require().NoError(s.store.Save(s.ctx, record))

	seen := time.Now().Add(10 * time.Minute)
	s.Require().NoError(s.store.Touch(s.ctx, record.ID, seen))

	found, err := s.store.Find(s.ctx, record.ID)
	s.Require().NoError(err)
	s.True(found.LastSeenAt.Equal(seen))
}

func (s *MemoryStoreSuite) TestDeleteIsIdempotent() {
	record := s.record(time.Now().Add(time.Hour))
	s.Require().NoError(s.store.Save(s.ctx, record))

	s.Require().NoError(s.store.Delete(s.ctx, record.ID))
	s.Require().NoError(s.store.Delete(s.ctx, record.ID))

	_, err := s.store.Find(s.ctx, record.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MemoryStoreSuite) TestDeleteExpiredSweepsOnlyLapsedRecords() {
	now := time.Now()
	live := s.record(now.Add(time.Hour))
	lapsed := s.record(now.Add(-time.Minute))
	s.Require().NoError(s.store.Save(s.ctx, live))
	s.Require().NoError(s.store.Save(s.ctx, lapsed))

	removed, err := s.store.DeleteExpired(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, err = s.store.Find(s.ctx, live.ID)
	s.NoError(err)
	_, err = s.store.Find(s.ctx, lapsed.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
