package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/models"
	"issue-tracking/internal/policy"
	"issue-tracking/internal/query"
	"issue-tracking/internal/repository"
)

type ProjectService struct {
	projects  repository.ProjectRepository
	companies repository.CompanyRepository
	log       zerolog.Logger
	opts      Options
}

func NewProjectService(projects repository.ProjectRepository, companies repository.CompanyRepository, log zerolog.Logger, opts Options) *ProjectService {
	return &ProjectService{projects: projects, companies: companies, log: log, opts: opts}
}

// List compiles the query and pins CLIENT callers to their own company.
func (s *ProjectService) List(ctx context.Context, p models.Principal, values url.Values) ([]models.Project, error) {
	f, err := query.Compile(values, query.KindProject)
	if err != nil {
		return nil, err
	}
	f = policy.NarrowListQuery(p, f, query.KindProject)

	list, err := s.projects.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if s.opts.isEmptyTreatedAsNotFound(len(list)) {
		return nil, apperr.NotFound("projects")
	}
	if list == nil {
		list = []models.Project{}
	}
	return list, nil
}

func (s *ProjectService) Get(ctx context.Context, p models.Principal, id string) (*models.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("project")
	}
	if !policy.AuthorizeProjectRead(p, project) {
		return nil, apperr.NotAuthorized("not allowed to read this project")
	}
	return project, nil
}

// ProjectInput is the body of create and update requests. Nil fields are left
// unchanged on update.
type ProjectInput struct {
	Name        *string   `json:"name"`
	Company     *string   `json:"company"`
	URL         *string   `json:"url"`
	Description *string   `json:"description"`
	Services    *[]string `json:"services"`
	Tickets     *[]string `json:"tickets"`
	Team        *[]string `json:"team"`
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	p := &models.Project{}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	if p.Company == "" {
		return nil, apperr.Validation("company", "is required")
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("project", p.ID).Str("company", p.Company).Msg("project created")
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, in ProjectInput) (*models.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("project")
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	n, err := s.projects.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("project")
	}
	return nil
}

func (s *ProjectService) apply(ctx context.Context, p *models.Project, in ProjectInput) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.URL != nil {
		p.URL = strings.TrimSpace(*in.URL)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Company != nil {
		id, err := query.CanonicalID(*in.Company)
		if err != nil {
			return apperr.Validation("company", "must be an identifier")
		}
		c, err := s.companies.Get(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.Validation("company", "unknown company")
		}
		p.Company = id
	}
	var err error
	if in.Services != nil {
		if p.Services, err = canonicalList("services", *in.Services); err != nil {
			return err
		}
	}
	if in.Tickets != nil {
		if p.Tickets, err = canonicalList("tickets", *in.Tickets); err != nil {
			return err
		}
	}
	if in.Team != nil {
		if p.Team, err = canonicalList("team", *in.Team); err != nil {
			return err
		}
	}
	return nil
}

func canonicalList(field string, raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := query.CanonicalID(r)
		if err != nil {
			return nil, apperr.Validation(field, "must contain identifiers")
		}
		out = append(out, id)
	}
	return out, nil
}
