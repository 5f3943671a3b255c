package memory

import (
	"context"
	"testing"

	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

var chestLoc = model.Location{World: "world", X: 10, Y: 64, Z: 10}

func signAt(x int, signType model.SignType, profiles ...model.Profile) model.SignEntry {
	return model.NewSignEntry(model.Location{World: "world", X: x, Y: 64, Z: 11}, signType, profiles)
}

// Protection tests

func (s *StorageSuite) TestSaveAndGetProtection() {
	protection := model.NewProtection(chestLoc,
		signAt(10, model.SignTypePrivate, model.NewNameOnlyProfile("Alice")),
		signAt(11, model.SignTypeMoreUsers, model.EveryoneProfile{}),
	)

	err := s.storage.SaveProtection(s.ctx, protection)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProtection(s.ctx, protection.ID)
	s.Require().NoError(err)
	s.Equal(protection, retrieved)
}

func (s *StorageSuite) TestGetProtectionNotFound() {
	_, err := s.storage.GetProtection(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProtectionNotFound)
}

func (s *StorageSuite) TestGetProtectionReturnsCopy() {
	protection := model.NewProtection(chestLoc, signAt(10, model.SignTypePrivate, model.NewNameOnlyProfile("Alice")))
	_ = s.storage.SaveProtection(s.ctx, protection)

	retrieved, _ := s.storage.GetProtection(s.ctx, protection.ID)
	retrieved.Signs[0] = signAt(99, model.SignTypeMoreUsers)

	again, _ := s.storage.GetProtection(s.ctx, protection.ID)
	s.Equal(protection.Signs, again.Signs)
}

func (s *StorageSuite) TestDeleteProtection() {
	protection := model.NewProtection(chestLoc, signAt(10, model.SignTypePrivate, model.NewNameOnlyProfile("Alice")))
	_ = s.storage.SaveProtection(s.ctx, protection)

	err := s.storage.DeleteProtection(s.ctx, protection.ID)
	s.Require().NoError(err)

	_, err = s.storage.GetProtection(s.ctx, protection.ID)
	s.ErrorIs(err, model.ErrProtectionNotFound)
}

// Sign tests

func (s *StorageSuite) TestSaveSignReplacesInPlace() {
	protection := model.NewProtection(chestLoc,
		signAt(10, model.SignTypePrivate, model.NewNameOnlyProfile("Alice")),
		signAt(11, model.SignTypeMoreUsers, model.NewNameOnlyProfile("Bob")),
	)
	_ = s.storage.SaveProtection(s.ctx, protection)

	resolved := protection.Signs[1].WithProfiles([]model.Profile{
		model.NewPlayerProfile(model.NameAndID{Name: "Bob", ID: uuid.New()}),
	})
	s.Require().NoError(s.storage.SaveSign(s.ctx, protection.ID, resolved))

	retrieved, err := s.storage.GetProtection(s.ctx, protection.ID)
	s.Require().NoError(err)
	s.Equal([]model.SignEntry{protection.Signs[0], resolved}, retrieved.Signs)
	s.Equal(1, s.storage.SaveSignCount())
}

func (s *StorageSuite) TestGetSignNotFound() {
	_, err := s.storage.GetSign(s.ctx, "chest", chestLoc)
	s.ErrorIs(err, model.ErrSignNotFound)
}
