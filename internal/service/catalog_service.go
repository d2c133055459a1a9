package service

import (
	"context"
	"net/url"
	"strings"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
	"issue-tracking/internal/repository"
)

// CatalogService manages companies and services, the reference data tickets
// and projects point at.
type CatalogService struct {
	companies repository.CompanyRepository
	services  repository.ServiceRepository
}

func NewCatalogService(companies repository.CompanyRepository, services repository.ServiceRepository) *CatalogService {
	return &CatalogService{companies: companies, services: services}
}

func (s *CatalogService) ListCompanies(ctx context.Context, values url.Values) ([]models.Company, error) {
	f, err := query.Compile(values, query.KindCompany)
	if err != nil {
		return nil, err
	}
	list, err := s.companies.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Company{}
	}
	return list, nil
}

// GetCompany lets a CLIENT read only their own company.
func (s *CatalogService) GetCompany(ctx context.Context, p models.Principal, raw string) (*models.Company, error) {
	id, err := query.CanonicalID(raw)
	if err != nil {
		return nil, apperr.NotFound("company")
	}
	switch p.Role {
	case models.RoleClient:
		if p.CompanyID != id {
			return nil, apperr.NotAuthorized("not allowed to read this company")
		}
	case models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		return nil, apperr.NotAuthorized("authentication required")
	}
	c, err := s.companies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("company")
	}
	return c, nil
}

type CompanyInput struct {
	Name               string `json:"name"`
	URL                string `json:"url"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	Industry           string `json:"industry"`
}

func (s *CatalogService) CreateCompany(ctx context.Context, in CompanyInput) (*models.Company, error) {
	c := &models.Company{
		Name:     strings.TrimSpace(in.Name),
		URL:      strings.TrimSpace(in.URL),
		Industry: strings.TrimSpace(in.Industry),
	}
	if c.Name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	if in.SubscriptionStatus != "" {
		if !member(models.SubscriptionStatuses, in.SubscriptionStatus) {
			return nil, apperr.Validation("subscriptionStatus", "unknown value "+in.SubscriptionStatus)
		}
		c.SubscriptionStatus = models.SubscriptionStatus(in.SubscriptionStatus)
	}
	if err := s.companies.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.services.List(ctx)
}

func (s *CatalogService) CreateService(ctx context.Context, in models.Service) (*models.Service, error) {
	svc := &models.Service{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		URL:         strings.TrimSpace(in.URL),
		Version:     strings.TrimSpace(in.Version),
		Tier:        strings.TrimSpace(in.Tier),
	}
	if svc.Name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}
