package repository

import (
	"context"
	"errors"

	"github.com/friendfinder/userstore/internal/models"
	"gorm.io/gorm"
)

// SocialRepository covers the plain CRUD tables: friends, results and posts.
type SocialRepository struct {
	db *gorm.DB
}

func NewSocialRepository(db *gorm.DB) *SocialRepository {
	return &SocialRepository{db: db}
}

func (r *SocialRepository) WithTx(tx *gorm.DB) *SocialRepository {
	return &SocialRepository{db: tx}
}

func (r *SocialRepository) CreateFriendRequest(ctx context.Context, f *models.Friend) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *SocialRepository) GetFriendship(ctx context.Context, userID, friendID uint) (*models.Friend, error) {
	var f models.Friend
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_user_id = ?", userID, friendID).
		First(&f).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &f, nil
}

func (r *SocialRepository) UpdateFriendStatus(ctx context.Context, userID, friendID uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Friend{}).
		Where("user_id = ? AND friend_user_id = ?", userID, friendID).
		Update("status", status).Error
}

func (r *SocialRepository) ListFriends(ctx context.Context, userID uint, status string) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Where("(user_id = ? OR friend_user_id = ?) AND status = ?", userID, userID, status).
		Find(&friends).Error
	if err != nil {
		return nil, err
	}
	return friends, nil
}

func (r *SocialRepository) CreateResult(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *SocialRepository) GetResult(ctx context.Context, id uint) (*models.Result, error) {
	var result models.Result
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&result).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &result, nil
}

// MarkResultCurrent flips is_current to the given result and clears it on the
// user's other results.
func (r *SocialRepository) MarkResultCurrent(ctx context.Context, userID, resultID uint) error {
	err := r.db.WithContext(ctx).Model(&models.Result{}).
		Where("user_id = ? AND id <> ?", userID, resultID).
		Update("is_current", false).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Result{}).
		Where("id = ?", resultID).
		Update("is_current", true).Error
}

func (r *SocialRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *SocialRepository) UpdatePostStatus(ctx context.Context, postID uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Update("status", status).Error
}

func (r *SocialRepository) ListPostsByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPublicPosts returns published, public posts, newest first.
func (r *SocialRepository) ListPublicPosts(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("status = ? AND visibility = ?", models.PostStatusPublished, models.PostVisibilityPublic).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
