package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"motogo-backend/internal/models"
	emailSvc "motogo-backend/pkg/email"
	"motogo-backend/pkg/utils"
)

// ServiceInterface defines methods for user business logic.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, sessionToken string) (*models.AuthResponse, error)
	Logout(ctx context.Context, sessionToken string) error
	HandleGoogleLogin() (string, string, error)
	HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error)

	GetUserProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Service implements authentication and profile logic. The authentication
// strategy (local credentials or Google OIDC) is fixed at startup by
// configuration; the two are never mixed per-request.
type Service struct {
	userRepo          RepositoryInterface
	sessions          SessionStore
	emailer           emailSvc.ServiceInterface
	templateManager   *emailSvc.TemplateManager
	logger            *slog.Logger
	jwtSecret         string
	accessTokenTTL    time.Duration
	googleOAuthConfig *oauth2.Config
}

func NewService(
	userRepo RepositoryInterface,
	sessions SessionStore,
	emailer emailSvc.ServiceInterface,
	tm *emailSvc.TemplateManager,
	logger *slog.Logger,
	jwtSecret string,
	accessTokenTTL time.Duration,
	googleOAuthConfig *oauth2.Config,
) ServiceInterface {
	return &Service{
		userRepo:          userRepo,
		sessions:          sessions,
		emailer:           emailer,
		templateManager:   tm,
		logger:            logger,
		jwtSecret:         jwtSecret,
		accessTokenTTL:    accessTokenTTL,
		googleOAuthConfig: googleOAuthConfig,
	}
}

// googleUserInfo unmarshals the Google user info response.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Signup.FindByEmail: %w", err)
	}
	if err == nil {
		// User was found, email is taken.
		return nil, models.ErrConflict
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.HashPassword: %w", err)
	}

	newUser := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
	}
	created, err := s.userRepo.CreateLocalUser(ctx, newUser, string(hashedPassword))
	if err != nil {
		return nil, fmt.Errorf("service.Signup.CreateUser: %w", err)
	}

	s.sendWelcomeEmail(created)
	return s.generateAuthResponse(ctx, created)
}

// sendWelcomeEmail runs detached so it never blocks the signup response.
func (s *Service) sendWelcomeEmail(user *models.User) {
	if s.emailer == nil || s.templateManager == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		html, err := s.templateManager.GenerateWelcomeEmailHTML(emailSvc.WelcomeData{Name: user.FirstName})
		if err != nil {
			s.logger.Warn("welcome email: template failed", "user_id", user.ID, "error", err)
			return
		}
		plain := fmt.Sprintf("Welcome to MotoGo, %s! Your account is ready.", user.FirstName)
		if err := s.emailer.SendEmail(ctx, user.Email, "Welcome to MotoGo", plain, html); err != nil {
			s.logger.Warn("welcome email: send failed", "user_id", user.ID, "error", err)
		}
	}()
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByEmail: %w", err)
	}
	if user.PasswordHash == "" {
		// OAuth-provisioned account, no local password.
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.generateAuthResponse(ctx, user)
}

// Refresh exchanges a live session token for a fresh access token.
func (s *Service) Refresh(ctx context.Context, sessionToken string) (*models.AuthResponse, error) {
	userID, err := s.sessions.Lookup(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &models.AuthResponse{
		AccessToken:  accessToken,
		SessionToken: sessionToken,
		User:         user,
	}, nil
}

func (s *Service) Logout(ctx context.Context, sessionToken string) error {
	return s.sessions.Destroy(ctx, sessionToken)
}

// HandleGoogleLogin returns the Google consent URL plus the state nonce the
// handler stores in a cookie for CSRF protection.
func (s *Service) HandleGoogleLogin() (string, string, error) {
	if s.googleOAuthConfig == nil {
		return "", "", models.ErrForbidden
	}
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", "", fmt.Errorf("service.HandleGoogleLogin: %w", err)
	}
	return s.googleOAuthConfig.AuthCodeURL(state), state, nil
}

func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	if s.googleOAuthConfig == nil {
		return nil, models.ErrForbidden
	}

	token, err := s.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.Exchange: %w", err)
	}

	info, err := fetchGoogleUserInfo(ctx, s.googleOAuthConfig, token)
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.UserInfo: %w", err)
	}

	user, err := s.userRepo.UpsertOAuthUser(ctx, &models.User{
		Email:           info.Email,
		FirstName:       info.GivenName,
		LastName:        info.FamilyName,
		Role:            models.RoleCustomer,
		AuthProvider:    "google",
		AuthProviderID:  info.ID,
		ProfileImageURL: info.Picture,
	})
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.Upsert: %w", err)
	}

	return s.generateAuthResponse(ctx, user)
}

func fetchGoogleUserInfo(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	client := cfg.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo status %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Service) signAccessToken(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("service.signAccessToken: %w", err)
	}
	return signed, nil
}

func (s *Service) generateAuthResponse(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}
	sessionToken, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &models.AuthResponse{
		AccessToken:  accessToken,
		SessionToken: sessionToken,
		User:         user,
	}, nil
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateUserProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error) {
	user, err := s.userRepo.Update(ctx, userID, data)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range list {
		u.PasswordHash = ""
	}
	return list, nil
}
