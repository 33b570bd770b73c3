package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"segmentReco/domain"
	"segmentReco/pkg/logger"
	"segmentReco/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateRole(ctx context.Context, id uint, role string) error
}

// SegmentReader exposes the last cluster assigned to a user. A nil segment
// with a nil error means the user was never scored.
type SegmentReader interface {
	FindByUserID(ctx context.Context, userID uint) (*domain.UserSegment, error)
}

// PredictionHistory lists the audit records written for a user.
type PredictionHistory interface {
	RecentByUser(ctx context.Context, userID uint, limit int) ([]domain.PredictionLog, error)
}

// SessionStore keeps issued tokens so logout can revoke them. Optional.
type SessionStore interface {
	StoreToken(ctx context.Context, token string, s domain.Session, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, token string) error
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// RecentPredictionLimit is how many audit records Me returns.
const RecentPredictionLimit = 5

type userService struct {
	userRepo    UserRepository
	segmentRepo SegmentReader
	history     PredictionHistory
	sessions    SessionStore
	validate    *validator.Validate
}

func NewUserService(
	userRepo UserRepository,
	segmentRepo SegmentReader,
	history PredictionHistory,
	sessions SessionStore,
	validate *validator.Validate,
) *userService {
	return &userService{
		userRepo:    userRepo,
		segmentRepo: segmentRepo,
		history:     history,
		sessions:    sessions,
		validate:    validate,
	}
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	return s.create(ctx, user, RoleCustomer)
}

// EnsureAdmin makes sure an admin account exists for email. A missing account
// is created with password; an existing one is promoted and keeps its password.
func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != RoleAdmin {
			if err := s.userRepo.UpdateRole(ctx, existing.ID, RoleAdmin); err != nil {
				logger.Error("failed to promote admin", "user_id", existing.ID, "error", err)
				return domain.User{}, err
			}
			existing.Role = RoleAdmin
			logger.Info("existing user promoted to admin", "user_id", existing.ID)
		}
		existing.Password = ""
		return existing, nil
	case errors.Is(err, domain.ErrUserNotFound):
		admin, err := s.create(ctx, &domain.User{Name: name, Email: email, Password: password}, RoleAdmin)
		if err != nil {
			return domain.User{}, err
		}
		logger.Info("admin account created", "user_id", admin.ID)
		return admin, nil
	default:
		logger.Error("failed to look up admin account", "error", err)
		return domain.User{}, err
	}
}

func (s *userService) create(ctx context.Context, user *domain.User, role string) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(user.Email))

	if err := s.validate.Var(email, "required,email"); err != nil {
		logger.Debug("invalid email format", "error", err)
		return domain.User{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Debug("invalid user password", "error", err)
		return domain.User{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing.ID > 0 {
		return domain.User{}, domain.ErrEmailExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		logger.Error("failed to check existing email", "error", err)
		return domain.User{}, err
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		Name:              user.Name,
		Email:             email,
		Password:          string(passwordHash),
		Role:              role,
		PreferredCategory: user.PreferredCategory,
		PreferredStyle:    user.PreferredStyle,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("failed to create new user", "error", err)
		return domain.User{}, err
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		logger.Error("failed to find user for login", "error", err)
		return "", domain.User{}, err
	}

	if !utils.CheckPassword(password, user.Password) {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userID, user.Role)
	if err != nil {
		logger.Error("failed to generate token", "error", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	if s.sessions != nil {
		now := time.Now().UTC()
		session := domain.Session{
			UserID:    userID,
			Role:      user.Role,
			IssuedAt:  now,
			ExpiresAt: now.Add(utils.TokenTTL()),
			IPAddress: ipAddress,
			UserAgent: userAgent,
		}
		if err := s.sessions.StoreToken(ctx, token, session, utils.TokenTTL()); err != nil {
			logger.Error("failed to store session", "user_id", user.ID, "error", err)
			return "", domain.User{}, errors.New("failed to create session")
		}
	}

	user.Password = ""
	return token, user, nil
}

// ValidateTokenFromRedis reports the user a stored token belongs to.
func (s *userService) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	if s.sessions == nil {
		return "", errors.New("session store is not configured")
	}
	return s.sessions.ValidateToken(ctx, token)
}

func (s *userService) Logout(ctx context.Context, userID uint, token string) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.DeleteToken(ctx, token); err != nil {
		logger.Error("failed to revoke session", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// Me returns the caller with the last segment the recommender stored.
func (s *userService) Me(ctx context.Context, userID uint) (domain.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}
	user.Password = ""

	// the profile is still useful without the segment or the history
	profile := domain.UserProfile{User: user}
	if s.segmentRepo != nil {
		seg, err := s.segmentRepo.FindByUserID(ctx, userID)
		if err != nil {
			logger.Warn("failed to load user segment", "user_id", userID, "error", err)
		} else if seg != nil {
			cluster, updated := seg.Cluster, seg.UpdatedAt
			profile.Cluster = &cluster
			profile.ClusterUpdatedAt = &updated
		}
	}

	if s.history != nil {
		logs, err := s.history.RecentByUser(ctx, userID, RecentPredictionLimit)
		if err != nil {
			logger.Warn("failed to load prediction history", "user_id", userID, "error", err)
		} else {
			profile.RecentPredictions = logs
		}
	}

	return profile, nil
}
