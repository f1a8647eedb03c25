package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/pkg/errs"
	"github.com/d60-Lab/social-graph/pkg/token"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult 登录/注册成功后返回
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      *model.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	// Authenticate 校验令牌与会话，返回当前用户
	Authenticate(ctx context.Context, raw string) (*model.User, error)
	Logout(ctx context.Context, raw string) error
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      *token.Manager
	now         Clock
	bcryptCost  int
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, sessionRepo repository.SessionRepository, tokens *token.Manager, clock Clock) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		now:         orNow(clock),
		bcryptCost:  bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, errs.InvalidArgument("username, email and password are required")
	}
	if len([]rune(username)) < 3 {
		return nil, errs.InvalidArgument("username must be at least 3 characters")
	}
	if len(req.Password) < 4 {
		return nil, errs.InvalidArgument("password must be at least 4 characters")
	}

	exists, err := s.userRepo.ExistsUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "hash password", err)
	}
	user := &model.User{
		Username:        username,
		Email:           email,
		PasswordHash:    string(hash),
		DisplayName:     username,
		Links:           "{}",
		PrivacySettings: "{}",
		Theme:           "light",
		MessagesEnabled: true,
	}

	var res *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			if errs.IsKind(err, errs.KindConflict) {
				return ErrUserExists
			}
			return err
		}
		var err error
		res, err = s.issue(ctx, repository.NewSessionRepository(tx), user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, errs.InvalidArgument("email and password are required")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}
	return s.issue(ctx, s.sessionRepo, user)
}

func (s *authService) issue(ctx context.Context, sessions repository.SessionRepository, user *model.User) (*AuthResult, error) {
	now := s.now()
	sid := uuid.New().String()
	raw, exp, err := s.tokens.Issue(user.ID, sid, now)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "issue token", err)
	}
	if err := sessions.Create(ctx, &model.Session{ID: sid, UserID: user.ID, ExpiresAt: exp, CreatedAt: now}); err != nil {
		return nil, err
	}
	return &AuthResult{Token: raw, ExpiresAt: exp.Unix(), User: user}, nil
}

func (s *authService) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	claims, err := s.tokens.ParseAt(raw, s.now())
	if err != nil {
		return nil, ErrUnauthenticated
	}
	sess, err := s.sessionRepo.GetValid(ctx, claims.ID, s.now())
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.ParseAt(raw, s.now())
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return ErrUnauthenticated
		}
		return err
	}
	return s.sessionRepo.Delete(ctx, claims.ID)
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return u, nil
}
