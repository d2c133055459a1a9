package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
	"issue-tracking/internal/repository"
	"issue-tracking/internal/utils"
)

var ErrInvalidCredentials = apperr.NotAuthorized("invalid credentials")

const sessionTTL = 24 * time.Hour

type AuthService struct {
	users         repository.UserRepository
	companies     repository.CompanyRepository
	sessionSecret string
}

func NewAuthService(users repository.UserRepository, companies repository.CompanyRepository, sessionSecret string) *AuthService {
	return &AuthService{users: users, companies: companies, sessionSecret: sessionSecret}
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Company   string `json:"company"`
}

// Register creates a CLIENT account without a company. Company membership and
// staff accounts are assigned with the CLI.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Company = ""
	return a.CreateUser(ctx, in, models.RoleClient)
}

// CreateUser creates an account with the given role.
func (a *AuthService) CreateUser(ctx context.Context, in RegisterInput, role models.Role) (*models.User, error) {
	u := &models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Role:      role,
	}
	if u.FirstName == "" || u.LastName == "" {
		return nil, apperr.Validation("name", "first and last name are required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return nil, apperr.Validation("email", "is not a valid address")
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, apperr.Validation("password", err.Error())
	}
	if !role.Valid() {
		return nil, apperr.Validation("role", "unknown role "+string(role))
	}
	if raw := strings.TrimSpace(in.Company); raw != "" {
		id, err := a.companyID(ctx, raw)
		if err != nil {
			return nil, err
		}
		u.Company = id
	}

	existing, _, err := a.users.GetByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("email", "is already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	if err := a.users.Create(ctx, u, hash); err != nil {
		return nil, err
	}
	return u, nil
}

// companyID returns the canonical id of an existing company.
func (a *AuthService) companyID(ctx context.Context, raw string) (string, error) {
	id, err := query.CanonicalID(raw)
	if err != nil {
		return "", apperr.Validation("company", "must be an identifier")
	}
	c, err := a.companies.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", apperr.Validation("company", "unknown company")
	}
	return id, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	u, hash, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(hash, password) {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := utils.SignJWT(a.sessionSecret, u.Principal(), sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (a *AuthService) SessionTTL() time.Duration { return sessionTTL }

// -----------------------------------------------------------------------------
// Directory
// -----------------------------------------------------------------------------

func (a *AuthService) User(ctx context.Context, id string) (*models.User, error) {
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user")
	}
	return u, nil
}

func (a *AuthService) Users(ctx context.Context, role, company string) ([]models.User, error) {
	r := models.Role(strings.TrimSpace(role))
	if r != "" && !r.Valid() {
		return nil, apperr.Validation("role", "unknown role "+role)
	}
	return a.users.List(ctx, r, strings.TrimSpace(company))
}
