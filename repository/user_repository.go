package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Tuder/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) error
	AddRole(ctx context.Context, id string, role model.Role) (bool, error)
	SearchArtists(ctx context.Context, term string, limit int) ([]*model.User, error)

	// 关注
	Follow(ctx context.Context, userID, artistID string) (bool, error)
	Unfollow(ctx context.Context, userID, artistID string) (bool, error)
	ListFollowing(ctx context.Context, userID string) ([]*model.User, error)
	IsFollowing(ctx context.Context, userID, artistID string) (bool, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a GORM-backed UserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create inserts user, assigning an id and lower-casing username and email.
func (r *gormUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	if user.Roles == nil {
		user.Roles = model.RoleSet{model.RoleUser}
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("create user %s: %w", user.Username, ErrDuplicate)
		}
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return nil
}

func (r *gormUserRepository) first(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by id. A missing user yields (nil, nil).
func (r *gormUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "LOWER(username) = ?", strings.ToLower(username))
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

// Update writes the non-nil fields of patch and nothing else.
func (r *gormUserRepository) Update(ctx context.Context, id string, patch model.UserPatch) error {
	updates := make(map[string]interface{}, 3)
	if patch.Username != nil {
		updates["username"] = strings.ToLower(*patch.Username)
	}
	if patch.Email != nil {
		updates["email"] = strings.ToLower(*patch.Email)
	}
	if patch.ProfileImage != nil {
		updates["profile_image"] = *patch.ProfileImage
	}
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(updates).Error
	if isDuplicateKey(err) {
		return fmt.Errorf("update user %s: %w", id, ErrDuplicate)
	}
	return err
}

// AddRole adds role to the user's role set and reports false when it was
// already there. The read and the write share one transaction holding the
// row lock (SQLite has no row locks; its single writer serializes instead).
func (r *gormUserRepository) AddRole(ctx context.Context, id string, role model.Role) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "roles").
			Where("id = ?", id).
			First(&user).Error
		if err != nil {
			return err
		}
		if user.Roles.Has(role) {
			return nil
		}
		err = tx.Model(&model.User{}).
			Where("id = ?", id).
			Update("roles", user.Roles.With(role)).Error
		if err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("add role %s to user %s: %w", role, id, err)
	}
	return added, nil
}

// SearchArtists returns users holding the artist role whose username
// contains term.
func (r *gormUserRepository) SearchArtists(ctx context.Context, term string, limit int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? ESCAPE '!'", likePattern(term)).
		Where("roles LIKE ?", `%"`+string(model.RoleArtist)+`"%`).
		Order("registered_at ASC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// Follow records that userID follows artistID. It reports false when the
// pair already existed.
func (r *gormUserRepository) Follow(ctx context.Context, userID, artistID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserFollow{UserID: userID, ArtistID: artistID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Unfollow reports false when userID was not following artistID.
func (r *gormUserRepository) Unfollow(ctx context.Context, userID, artistID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND artist_id = ?", userID, artistID).
		Delete(&model.UserFollow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListFollowing 获取用户关注的艺术家，按关注顺序
func (r *gormUserRepository) ListFollowing(ctx context.Context, userID string) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_follows ON user_follows.artist_id = users.id").
		Where("user_follows.user_id = ?", userID).
		Order("user_follows.id ASC").
		Find(&users).Error
	return users, err
}

func (r *gormUserRepository) IsFollowing(ctx context.Context, userID, artistID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("user_id = ? AND artist_id = ?", userID, artistID).
		Count(&count).Error
	return count > 0, err
}
