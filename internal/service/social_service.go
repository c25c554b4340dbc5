package service

import (
	"context"
	"errors"

	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/internal/repository"
	"github.com/friendfinder/userstore/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrFriendshipExists   = errors.New("friendship already exists")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrResultNotFound     = errors.New("result not found")
	// ErrResultNotOwned guards the current-result pointer: it may only name a
	// result row belonging to the same user.
	ErrResultNotOwned = errors.New("result belongs to a different user")
)

// SocialService is the thin CRUD layer over friends, posts and personality
// test results. No deep design here; the only real rule is current-result
// ownership.
type SocialService struct {
	db     *gorm.DB
	social *repository.SocialRepository
	users  *repository.UserRepository
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{
		db:     db,
		social: repository.NewSocialRepository(db),
		users:  repository.NewUserRepository(db),
	}
}

// RequestFriend records a pending friendship from requester to target. The
// pair is stored once, ordered (lower id first) so A→B and B→A collide.
func (s *SocialService) RequestFriend(ctx context.Context, requesterID, targetID uint) error {
	userID, friendID := requesterID, targetID
	if friendID < userID {
		userID, friendID = friendID, userID
	}

	existing, err := s.social.GetFriendship(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrFriendshipExists
	}

	f := &models.Friend{
		UserID:       userID,
		FriendUserID: friendID,
		Status:       models.FriendStatusPending,
		RequestedBy:  requesterID,
	}
	if err := s.social.CreateFriendRequest(ctx, f); err != nil {
		return err
	}

	logger.Log.Info("Friend request created",
		zap.Uint("requested_by", requesterID),
		zap.Uint("target", targetID),
	)
	return nil
}

// RespondFriend resolves a pending request to accepted, declined or blocked.
func (s *SocialService) RespondFriend(ctx context.Context, userID, friendID uint, status string) error {
	a, b := userID, friendID
	if b < a {
		a, b = b, a
	}

	existing, err := s.social.GetFriendship(ctx, a, b)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrFriendshipNotFound
	}

	return s.social.UpdateFriendStatus(ctx, a, b, status)
}

func (s *SocialService) Friends(ctx context.Context, userID uint) ([]models.Friend, error) {
	return s.social.ListFriends(ctx, userID, models.FriendStatusAccepted)
}

// RecordResult stores a test result and, when markCurrent is set, promotes it
// to the user's current result.
func (s *SocialService) RecordResult(ctx context.Context, result *models.Result, markCurrent bool) (uint, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.social.WithTx(tx).CreateResult(ctx, result); err != nil {
			return err
		}
		if !markCurrent {
			return nil
		}
		if err := s.social.WithTx(tx).MarkResultCurrent(ctx, result.UserID, result.ID); err != nil {
			return err
		}
		return s.users.WithTx(tx).SetCurrentResult(ctx, result.UserID, &result.ID)
	})
	if err != nil {
		logger.Log.Error("Failed to record result",
			zap.Uint("user_id", result.UserID),
			zap.Error(err),
		)
		return 0, err
	}
	return result.ID, nil
}

// SetCurrentResult points the user's current-result reference at an existing
// result row owned by that user.
func (s *SocialService) SetCurrentResult(ctx context.Context, userID, resultID uint) error {
	result, err := s.social.GetResult(ctx, resultID)
	if err != nil {
		return err
	}
	if result == nil {
		return ErrResultNotFound
	}
	if result.UserID != userID {
		return ErrResultNotOwned
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.social.WithTx(tx).MarkResultCurrent(ctx, userID, resultID); err != nil {
			return err
		}
		return s.users.WithTx(tx).SetCurrentResult(ctx, userID, &resultID)
	})
}

func (s *SocialService) CreatePost(ctx context.Context, post *models.Post) (uint, error) {
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.Visibility == "" {
		post.Visibility = models.PostVisibilityPublic
	}
	if err := s.social.CreatePost(ctx, post); err != nil {
		return 0, err
	}
	return post.ID, nil
}

func (s *SocialService) PublishPost(ctx context.Context, postID uint) error {
	return s.social.UpdatePostStatus(ctx, postID, models.PostStatusPublished)
}

func (s *SocialService) PostsByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.social.ListPostsByUser(ctx, userID)
}

func (s *SocialService) PublicFeed(ctx context.Context, limit int) ([]models.Post, error) {
	return s.social.ListPublicPosts(ctx, limit)
}
