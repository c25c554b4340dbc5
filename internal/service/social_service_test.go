package service_test

import (
	"context"
	"testing"

	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/internal/repository"
	"github.com/friendfinder/userstore/internal/service"
	"github.com/friendfinder/userstore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SocialServiceTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	audit  *service.AuditService
	auth   *service.AuthService
	social *service.SocialService
	ctx    context.Context
	john   uint
	jane   uint
}

func (s *SocialServiceTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.audit = service.NewAuditService(s.testDB.DB)
	s.auth = service.NewAuthService(s.testDB.DB, s.audit, nil)
	s.social = service.NewSocialService(s.testDB.DB)
	s.ctx = context.Background()
}

func (s *SocialServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *SocialServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	john, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "John", "Doe")
	s.Require().NoError(err)
	jane, err := s.auth.CreateUser(s.ctx, "janedoe", "jane@example.com", "securepass456", "Jane", "Doe")
	s.Require().NoError(err)
	s.john, s.jane = john, jane
}

func (s *SocialServiceTestSuite) TestFriendRequestFlow() {
	s.Require().NoError(s.social.RequestFriend(s.ctx, s.john, s.jane))

	// Duplicate request, either direction, is rejected
	assert.ErrorIs(s.T(), s.social.RequestFriend(s.ctx, s.john, s.jane), service.ErrFriendshipExists)
	assert.ErrorIs(s.T(), s.social.RequestFriend(s.ctx, s.jane, s.john), service.ErrFriendshipExists)

	// Not friends until accepted
	friends, err := s.social.Friends(s.ctx, s.john)
	s.Require().NoError(err)
	assert.Empty(s.T(), friends)

	s.Require().NoError(s.social.RespondFriend(s.ctx, s.jane, s.john, models.FriendStatusAccepted))

	friends, err = s.social.Friends(s.ctx, s.john)
	s.Require().NoError(err)
	assert.Len(s.T(), friends, 1)
}

func (s *SocialServiceTestSuite) TestRespondUnknownFriendship() {
	err := s.social.RespondFriend(s.ctx, s.john, s.jane, models.FriendStatusAccepted)
	assert.ErrorIs(s.T(), err, service.ErrFriendshipNotFound)
}

func (s *SocialServiceTestSuite) TestRecordResultAsCurrent() {
	result := &models.Result{
		UserID:               s.john,
		Extraversion:         3.2,
		Agreeableness:        4.1,
		Conscientiousness:    3.8,
		EmotionalStability:   2.9,
		IntellectImagination: 4.5,
		TestVersion:          "ipip-50",
	}

	resultID, err := s.social.RecordResult(s.ctx, result, true)
	s.Require().NoError(err)
	s.Require().NotZero(resultID)

	var user models.User
	s.Require().NoError(s.testDB.DB.First(&user, s.john).Error)
	s.Require().NotNil(user.CurrentResultID)
	assert.Equal(s.T(), resultID, *user.CurrentResultID)

	// A newer current result demotes the previous one
	second := &models.Result{UserID: s.john, TestVersion: "ipip-50"}
	secondID, err := s.social.RecordResult(s.ctx, second, true)
	s.Require().NoError(err)

	var old models.Result
	s.Require().NoError(s.testDB.DB.First(&old, resultID).Error)
	assert.False(s.T(), old.IsCurrent)

	s.Require().NoError(s.testDB.DB.First(&user, s.john).Error)
	s.Require().NotNil(user.CurrentResultID)
	assert.Equal(s.T(), secondID, *user.CurrentResultID)
}

func (s *SocialServiceTestSuite) TestSetCurrentResultOwnership() {
	janes := &models.Result{UserID: s.jane, TestVersion: "ipip-50"}
	resultID, err := s.social.RecordResult(s.ctx, janes, false)
	s.Require().NoError(err)

	// John cannot point at Jane's result
	err = s.social.SetCurrentResult(s.ctx, s.john, resultID)
	assert.ErrorIs(s.T(), err, service.ErrResultNotOwned)

	// Nonexistent result
	err = s.social.SetCurrentResult(s.ctx, s.john, 99999)
	assert.ErrorIs(s.T(), err, service.ErrResultNotFound)

	// Jane can
	s.Require().NoError(s.social.SetCurrentResult(s.ctx, s.jane, resultID))
}

func (s *SocialServiceTestSuite) TestCurrentResultTriggerRejectsDanglingReference() {
	// Bypass the service: the SQLite trigger itself must refuse a pointer to
	// a nonexistent results row
	err := s.testDB.DB.Model(&models.User{}).
		Where("id = ?", s.john).
		Update("current_result_id", 424242).Error
	assert.Error(s.T(), err, "trigger should reject dangling current_result_id")
}

func (s *SocialServiceTestSuite) TestPosts() {
	postID, err := s.social.CreatePost(s.ctx, &models.Post{
		Title:  "Hello",
		Body:   "First post",
		UserID: s.john,
	})
	s.Require().NoError(err)

	// Drafts are not in the public feed
	feed, err := s.social.PublicFeed(s.ctx, 10)
	s.Require().NoError(err)
	assert.Empty(s.T(), feed)

	s.Require().NoError(s.social.PublishPost(s.ctx, postID))

	feed, err = s.social.PublicFeed(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(feed, 1)
	assert.Equal(s.T(), "Hello", feed[0].Title)

	posts, err := s.social.PostsByUser(s.ctx, s.john)
	s.Require().NoError(err)
	assert.Len(s.T(), posts, 1)
}

func (s *SocialServiceTestSuite) TestStatsCounts() {
	stats := repository.NewStatsRepository(s.testDB.DB)

	counts, err := stats.Counts(s.ctx)
	s.Require().NoError(err)

	assert.EqualValues(s.T(), 2, counts["users"])
	assert.EqualValues(s.T(), 4, counts["roles"])
	assert.EqualValues(s.T(), 8, counts["permissions"])
	assert.EqualValues(s.T(), 0, counts["user_sessions"])

	// user_created entries for both fixtures
	assert.EqualValues(s.T(), 2, counts["user_security_logs"])
}

func TestSocialServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SocialServiceTestSuite))
}
