package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/synqtra/synqtra-api/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndGet() {
	record := &models.WalletRecord{
		Address:     "0xabc123",
		TotalPoints: 42,
		GamesPlayed: 3,
		LastUpdated: s.testNow,
	}

	err := s.repo.Save(context.Background(), &SaveInput{Record: record})
	s.Require().NoError(err)

	got, err := s.repo.Get(context.Background(), &GetInput{Address: "0xabc123"})
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal("0xabc123", got.Address)
	s.Equal(int64(42), got.TotalPoints)
	s.Equal(int64(3), got.GamesPlayed)
	s.Equal(s.testNow.Unix(), got.LastUpdated.Unix())
}

func (s *RedisRepositoryTestSuite) TestSaveOverwrites() {
	ctx := context.Background()

	err := s.repo.Save(ctx, &SaveInput{Record: &models.WalletRecord{
		Address:     "0xabc123",
		TotalPoints: 10,
		LastUpdated: s.testNow,
	}})
	s.Require().NoError(err)

	err = s.repo.Save(ctx, &SaveInput{Record: &models.WalletRecord{
		Address:     "0xabc123",
		TotalPoints: 25,
		GamesPlayed: 1,
		LastUpdated: s.testNow.Add(time.Minute),
	}})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, &GetInput{Address: "0xabc123"})
	s.Require().NoError(err)
	s.Equal(int64(25), got.TotalPoints)
	s.Equal(int64(1), got.GamesPlayed)

	// Overwriting must not duplicate the address in the wallet set
	records, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
}

func (s *RedisRepositoryTestSuite) TestList() {
	ctx := context.Background()

	for _, record := range []*models.WalletRecord{
		{Address: "0xaaa", TotalPoints: 120, GamesPlayed: 8, LastUpdated: s.testNow},
		{Address: "0xbbb", TotalPoints: 80, GamesPlayed: 5, LastUpdated: s.testNow},
		{Address: "0xccc", TotalPoints: 40, GamesPlayed: 2, LastUpdated: s.testNow},
	} {
		s.Require().NoError(s.repo.Save(ctx, &SaveInput{Record: record}))
	}

	records, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 3)

	byAddress := make(map[string]*models.WalletRecord)
	for _, record := range records {
		byAddress[record.Address] = record
	}

	s.Contains(byAddress, "0xaaa")
	s.Contains(byAddress, "0xbbb")
	s.Contains(byAddress, "0xccc")
	s.Equal(int64(120), byAddress["0xaaa"].TotalPoints)
}

func (s *RedisRepositoryTestSuite) TestListEmpty() {
	records, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.Require().Empty(records)
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(context.Background(), &GetInput{Address: "0xnobody"})
	s.Require().Error(err)
	s.Equal(ErrWalletNotFound, err)
}

func (s *RedisRepositoryTestSuite) TestSessionRoundTrip() {
	ctx := context.Background()

	_, err := s.repo.GetSession(ctx)
	s.Require().Equal(ErrNoSession, err)

	err = s.repo.SaveSession(ctx, &models.SessionRecord{
		Address:    "0xabc123",
		HasProfile: true,
		LastSignIn: s.testNow,
	})
	s.Require().NoError(err)

	got, err := s.repo.GetSession(ctx)
	s.Require().NoError(err)
	s.Equal("0xabc123", got.Address)
	s.True(got.HasProfile)

	// Clearing with nil removes the key
	s.Require().NoError(s.repo.SaveSession(ctx, nil))
	_, err = s.repo.GetSession(ctx)
	s.Require().Equal(ErrNoSession, err)
}
