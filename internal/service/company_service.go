package service

import (
	"context"

	"github.com/projecthub/project-hub-backend/internal/repository"
)

// CompanyService exposes the caller's own company. Other tenants are
// invisible.
type CompanyService interface {
	List(ctx context.Context, tenantID string) ([]*repository.Company, error)
	Get(ctx context.Context, tenantID, id string) (*repository.Company, error)
}

type companyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) CompanyService {
	return &companyService{companyRepo: companyRepo}
}

func (s *companyService) List(ctx context.Context, tenantID string) ([]*repository.Company, error) {
	company, err := s.Get(ctx, tenantID, tenantID)
	if err != nil {
		return nil, err
	}
	return []*repository.Company{company}, nil
}

func (s *companyService) Get(ctx context.Context, tenantID, id string) (*repository.Company, error) {
	if id != tenantID {
		return nil, ErrNotFound
	}
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrNotFound
	}
	return company, nil
}
