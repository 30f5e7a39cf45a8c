// Package account manages users: registration, login, profile edits, role
// upgrades and followed artists.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Tuder/core/apperr"
	"Tuder/core/auth"
	"Tuder/logger"
	"Tuder/metrics"
	"Tuder/model"
	"Tuder/repository"
	"Tuder/storage"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(user *model.User) (string, error)
}

// Service 用户账户服务
type Service struct {
	users        repository.UserRepository
	blobs        storage.BlobStore
	tokens       TokenIssuer
	defaultImage string
	hash         func(string) (string, error)
}

// NewService creates an account service.
func NewService(users repository.UserRepository, blobs storage.BlobStore, tokens TokenIssuer, defaultImage string) *Service {
	return &Service{
		users:        users,
		blobs:        blobs,
		tokens:       tokens,
		defaultImage: defaultImage,
		hash:         auth.HashPassword,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=72"`
}

// ProfilePatch 可修改的用户资料，nil 表示不修改
type ProfilePatch struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// LoginResult is returned by Authenticate.
type LoginResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func record(op string, err error) {
	metrics.RecordLibraryOperation(op, err)
	if err != nil && apperr.KindOf(err) == nil {
		logger.Error("account operation failed", logger.String("op", op), logger.ErrorField(err))
	}
}

func (s *Service) user(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if u == nil {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return u, nil
}

// checkUnique rejects a username or email already used by someone other
// than selfID. Both comparisons ignore case.
func (s *Service) checkUnique(ctx context.Context, selfID, username, email string) error {
	if username != "" {
		u, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("lookup username: %w", err)
		}
		if u != nil && u.ID != selfID {
			return apperr.InvalidInput("username %s already exists", strings.ToLower(username))
		}
	}
	if email != "" {
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("lookup email: %w", err)
		}
		if u != nil && u.ID != selfID {
			return apperr.InvalidInput("email %s already exists", strings.ToLower(email))
		}
	}
	return nil
}

// Register creates a user holding only the user role.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user *model.User, err error) {
	defer func() { record("register", err) }()

	if err := model.Validate(in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, "", in.Username, in.Email); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user = &model.User{
		Username:     strings.ToLower(in.Username),
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		Roles:        model.RoleSet{model.RoleUser},
		ProfileImage: s.defaultImage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.InvalidInput("username or email already exists")
		}
		return nil, err
	}
	logger.Info("user registered", logger.String("userID", user.ID), logger.String("username", user.Username))
	return user, nil
}

// Authenticate checks a password for login, which is an email address when
// it contains "@" and a username otherwise.
func (s *Service) Authenticate(ctx context.Context, login, password string) (res *LoginResult, err error) {
	defer func() { record("login", err) }()

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, apperr.InvalidInput("username and password are required")
	}

	var u *model.User
	if strings.Contains(login, "@") {
		u, err = s.users.GetByEmail(ctx, login)
	} else {
		u, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", login, err)
	}
	if u == nil || !auth.CheckPasswordHash(password, u.PasswordHash) {
		logger.Warn("login rejected", logger.String("login", login))
		return nil, apperr.Unauthenticated("invalid username or password")
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: token}, nil
}

// Profile 获取用户资料
func (s *Service) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.user(ctx, userID)
}

// UpdateProfile changes username and/or email, keeping both unique. Only the
// patched columns are written.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (user *model.User, err error) {
	defer func() { record("update_profile", err) }()

	if patch.Username == nil && patch.Email == nil {
		return nil, apperr.InvalidInput("nothing to update")
	}
	if err := model.Validate(patch); err != nil {
		return nil, err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}

	var username, email string
	if patch.Username != nil {
		username = *patch.Username
	}
	if patch.Email != nil {
		email = *patch.Email
	}
	if err := s.checkUnique(ctx, userID, username, email); err != nil {
		return nil, err
	}
	err = s.users.Update(ctx, userID, model.UserPatch{Username: patch.Username, Email: patch.Email})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.InvalidInput("username or email already exists")
		}
		return nil, err
	}
	return s.user(ctx, userID)
}

// UpdateProfileImage stores image and makes it the user's profile image.
func (s *Service) UpdateProfileImage(ctx context.Context, userID string, image *model.Resource) (user *model.User, err error) {
	defer func() { record("update_profile_image", err) }()

	if !image.Present() {
		return nil, apperr.InvalidInput("profileImage is required")
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	ref, err := s.blobs.Put(ctx, storage.PrefixProfileImage, image)
	if err != nil {
		return nil, apperr.DependencyFailure(err, "failed to store profile image")
	}
	if err := s.users.Update(ctx, userID, model.UserPatch{ProfileImage: &ref}); err != nil {
		return nil, err
	}
	return s.user(ctx, userID)
}

// UpgradeRole adds role to the user's role set. Roles are never removed, and
// the store adds the role atomically so concurrent upgrades all survive.
func (s *Service) UpgradeRole(ctx context.Context, userID string, role model.Role) (user *model.User, err error) {
	defer func() { record("upgrade_role", err) }()

	if role != model.RoleArtist && role != model.RolePremium {
		return nil, apperr.InvalidInput("cannot upgrade to role %q", role)
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	added, err := s.users.AddRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, apperr.InvalidInput("user already has the %s role", role)
	}
	logger.Info("role upgraded", logger.String("userID", userID), logger.String("role", string(role)))
	return s.user(ctx, userID)
}

// artist loads a follow target, which must hold the artist role.
func (s *Service) artist(ctx context.Context, userID, artistID string) (*model.User, error) {
	if userID == artistID {
		return nil, apperr.InvalidInput("you cannot follow yourself")
	}
	a, err := s.users.GetByID(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", artistID, err)
	}
	if a == nil || !a.Roles.Has(model.RoleArtist) {
		return nil, apperr.InvalidInput("%s is not an artist", artistID)
	}
	return a, nil
}

// Follow adds artistID to the artists userID follows.
func (s *Service) Follow(ctx context.Context, userID, artistID string) (err error) {
	defer func() { record("follow", err) }()

	if _, err := s.user(ctx, userID); err != nil {
		return err
	}
	if _, err := s.artist(ctx, userID, artistID); err != nil {
		return err
	}
	added, err := s.users.Follow(ctx, userID, artistID)
	if err != nil {
		return fmt.Errorf("follow %s: %w", artistID, err)
	}
	if !added {
		return apperr.InvalidInput("already following %s", artistID)
	}
	return nil
}

// Unfollow removes artistID from the artists userID follows.
func (s *Service) Unfollow(ctx context.Context, userID, artistID string) (err error) {
	defer func() { record("unfollow", err) }()

	if _, err := s.user(ctx, userID); err != nil {
		return err
	}
	removed, err := s.users.Unfollow(ctx, userID, artistID)
	if err != nil {
		return fmt.Errorf("unfollow %s: %w", artistID, err)
	}
	if !removed {
		return apperr.InvalidInput("not following %s", artistID)
	}
	return nil
}

// Following lists the artists userID follows, in follow order.
func (s *Service) Following(ctx context.Context, userID string) ([]*model.Artist, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.users.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following of %s: %w", userID, err)
	}
	artists := make([]*model.Artist, len(users))
	for i, u := range users {
		artists[i] = &model.Artist{ID: u.ID, Username: u.Username, ProfileImage: u.ProfileImage}
	}
	return artists, nil
}
