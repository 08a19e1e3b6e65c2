package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/projecthub/project-hub-backend/internal/estimation"
)

// Estimation is a persisted, immutable estimate: the request characteristics
// plus the computed result.
type Estimation struct {
	ID        string
	TenantID  string
	CreatedBy *string

	Name        string
	Description *string

	ProjectType     estimation.ProjectType
	TechnologyStack estimation.TechnologyStack
	ComplexityLevel estimation.ComplexityLevel

	HasAuthentication         bool
	HasPaymentSystem          bool
	HasAdminPanel             bool
	HasRealTimeFeatures       bool
	HasThirdPartyIntegrations bool

	Result    estimation.Result
	CreatedAt time.Time
}

// Record projects the estimate onto the fields the aggregate statistics use.
func (e *Estimation) Record() estimation.Record {
	return estimation.Record{
		ProjectType:     e.ProjectType,
		TechnologyStack: e.TechnologyStack,
		EstimatedHours:  e.Result.EstimatedHours,
		EstimatedCost:   e.Result.Cost.Estimated,
		EstimatedWeeks:  e.Result.Schedule.EstimatedWeeks,
		CreatedAt:       e.CreatedAt,
	}
}

// EstimationFilter scopes FindAll. TenantID is required.
type EstimationFilter struct {
	TenantID        string
	ProjectType     *estimation.ProjectType
	TechnologyStack *estimation.TechnologyStack
	Since           *time.Time
	Limit           int
}

// EstimationRepository stores estimates per tenant. FindAll returns newest
// first.
type EstimationRepository interface {
	Insert(ctx context.Context, e *Estimation) error
	FindAll(ctx context.Context, filter EstimationFilter) ([]*Estimation, error)
	FindByID(ctx context.Context, tenantID, id string) (*Estimation, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type estimationRepository struct {
	db *sqlx.DB
}

func NewEstimationRepository(db *sqlx.DB) EstimationRepository {
	return &estimationRepository{db: db}
}

// estimationRow is the flat column layout of the estimations table.
type estimationRow struct {
	ID              string                     `db:"id"`
	TenantID        string                     `db:"tenant_id"`
	CreatedBy       *string                    `db:"created_by"`
	Name            string                     `db:"name"`
	Description     *string                    `db:"description"`
	ProjectType     estimation.ProjectType     `db:"project_type"`
	TechnologyStack estimation.TechnologyStack `db:"technology_stack"`
	ComplexityLevel estimation.ComplexityLevel `db:"complexity_level"`

	HasAuthentication         bool `db:"has_authentication"`
	HasPaymentSystem          bool `db:"has_payment_system"`
	HasAdminPanel             bool `db:"has_admin_panel"`
	HasRealTimeFeatures       bool `db:"has_real_time_features"`
	HasThirdPartyIntegrations bool `db:"has_third_party_integrations"`

	NumberOfPages int `db:"number_of_pages"`
	NumberOfForms int `db:"number_of_forms"`
	NumberOfAPIs  int `db:"number_of_apis"`

	FrontendRate  decimal.Decimal `db:"frontend_rate"`
	BackendRate   decimal.Decimal `db:"backend_rate"`
	FullstackRate decimal.Decimal `db:"fullstack_rate"`
	DesignRate    decimal.Decimal `db:"design_rate"`
	TestingRate   decimal.Decimal `db:"testing_rate"`

	EstimatedHours         int `db:"estimated_hours"`
	HoursFrontend          int `db:"hours_frontend"`
	HoursBackend           int `db:"hours_backend"`
	HoursDatabase          int `db:"hours_database"`
	HoursTesting           int `db:"hours_testing"`
	HoursDeployment        int `db:"hours_deployment"`
	HoursProjectManagement int `db:"hours_project_management"`
	HoursDesign            int `db:"hours_design"`

	FrontendDevelopers  int `db:"frontend_developers"`
	BackendDevelopers   int `db:"backend_developers"`
	FullstackDevelopers int `db:"fullstack_developers"`
	Designers           int `db:"designers"`
	Testers             int `db:"testers"`
	ProjectManagers     int `db:"project_managers"`
	EstimatedDevelopers int `db:"estimated_developers"`

	MinimumWeeks   float64 `db:"minimum_weeks"`
	EstimatedWeeks float64 `db:"estimated_weeks"`
	MaximumWeeks   float64 `db:"maximum_weeks"`

	MinimumCost   decimal.Decimal `db:"minimum_cost"`
	EstimatedCost decimal.Decimal `db:"estimated_cost"`
	MaximumCost   decimal.Decimal `db:"maximum_cost"`

	RiskMultiplier                  float64 `db:"risk_multiplier"`
	BufferPercentage                float64 `db:"buffer_percentage"`
	TeamEfficiencyMultiplier        float64 `db:"team_efficiency_multiplier"`
	TechnologyFamiliarityMultiplier float64 `db:"technology_familiarity_multiplier"`

	AlgorithmVersion string         `db:"algorithm_version"`
	Confidence       float64        `db:"confidence"`
	Factors          pq.StringArray `db:"factors"`
	Recommendations  pq.StringArray `db:"recommendations"`
	CreatedAt        time.Time      `db:"created_at"`
}

func newEstimationRow(e *Estimation) *estimationRow {
	res := &e.Result
	return &estimationRow{
		ID:              e.ID,
		TenantID:        e.TenantID,
		CreatedBy:       e.CreatedBy,
		Name:            e.Name,
		Description:     e.Description,
		ProjectType:     e.ProjectType,
		TechnologyStack: e.TechnologyStack,
		ComplexityLevel: e.ComplexityLevel,

		HasAuthentication:         e.HasAuthentication,
		HasPaymentSystem:          e.HasPaymentSystem,
		HasAdminPanel:             e.HasAdminPanel,
		HasRealTimeFeatures:       e.HasRealTimeFeatures,
		HasThirdPartyIntegrations: e.HasThirdPartyIntegrations,

		NumberOfPages: res.Pages,
		NumberOfForms: res.Forms,
		NumberOfAPIs:  res.APIs,

		FrontendRate:  res.Rates.Frontend,
		BackendRate:   res.Rates.Backend,
		FullstackRate: res.Rates.Fullstack,
		DesignRate:    res.Rates.Design,
		TestingRate:   res.Rates.Testing,

		EstimatedHours:         res.EstimatedHours,
		HoursFrontend:          res.HoursByCategory.Frontend,
		HoursBackend:           res.HoursByCategory.Backend,
		HoursDatabase:          res.HoursByCategory.Database,
		HoursTesting:           res.HoursByCategory.Testing,
		HoursDeployment:        res.HoursByCategory.Deployment,
		HoursProjectManagement: res.HoursByCategory.ProjectManagement,
		HoursDesign:            res.Distribution.Design,

		FrontendDevelopers:  res.Staffing.Frontend,
		BackendDevelopers:   res.Staffing.Backend,
		FullstackDevelopers: res.Staffing.Fullstack,
		Designers:           res.Staffing.Designers,
		Testers:             res.Staffing.Testers,
		ProjectManagers:     res.Staffing.ProjectManagers,
		EstimatedDevelopers: res.EstimatedDevelopers,

		MinimumWeeks:   res.Schedule.MinimumWeeks,
		EstimatedWeeks: res.Schedule.EstimatedWeeks,
		MaximumWeeks:   res.Schedule.MaximumWeeks,

		MinimumCost:   res.Cost.Minimum,
		EstimatedCost: res.Cost.Estimated,
		MaximumCost:   res.Cost.Maximum,

		RiskMultiplier:                  res.RiskMultiplier,
		BufferPercentage:                res.BufferPercentage,
		TeamEfficiencyMultiplier:        res.TeamEfficiencyMultiplier,
		TechnologyFamiliarityMultiplier: res.TechnologyFamiliarityMultiplier,

		AlgorithmVersion: res.Metadata.AlgorithmVersion,
		Confidence:       res.Metadata.Confidence,
		Factors:          pq.StringArray(nonNil(res.Metadata.Factors)),
		Recommendations:  pq.StringArray(nonNil(res.Metadata.Recommendations)),
		CreatedAt:        e.CreatedAt,
	}
}

func (row *estimationRow) toEstimation() *Estimation {
	return &Estimation{
		ID:              row.ID,
		TenantID:        row.TenantID,
		CreatedBy:       row.CreatedBy,
		Name:            row.Name,
		Description:     row.Description,
		ProjectType:     row.ProjectType,
		TechnologyStack: row.TechnologyStack,
		ComplexityLevel: row.ComplexityLevel,

		HasAuthentication:         row.HasAuthentication,
		HasPaymentSystem:          row.HasPaymentSystem,
		HasAdminPanel:             row.HasAdminPanel,
		HasRealTimeFeatures:       row.HasRealTimeFeatures,
		HasThirdPartyIntegrations: row.HasThirdPartyIntegrations,

		Result: estimation.Result{
			Pages: row.NumberOfPages,
			Forms: row.NumberOfForms,
			APIs:  row.NumberOfAPIs,
			Rates: estimation.RateCard{
				Frontend:  row.FrontendRate,
				Backend:   row.BackendRate,
				Fullstack: row.FullstackRate,
				Design:    row.DesignRate,
				Testing:   row.TestingRate,
			},
			EstimatedHours: row.EstimatedHours,
			Distribution: estimation.Distribution{
				Frontend: row.HoursFrontend,
				Backend:  row.HoursBackend,
				Testing:  row.HoursTesting,
				Design:   row.HoursDesign,
			},
			HoursByCategory: estimation.HoursByCategory{
				Frontend:          row.HoursFrontend,
				Backend:           row.HoursBackend,
				Database:          row.HoursDatabase,
				Testing:           row.HoursTesting,
				Deployment:        row.HoursDeployment,
				ProjectManagement: row.HoursProjectManagement,
			},
			Staffing: estimation.Staffing{
				Frontend:        row.FrontendDevelopers,
				Backend:         row.BackendDevelopers,
				Fullstack:       row.FullstackDevelopers,
				Designers:       row.Designers,
				Testers:         row.Testers,
				ProjectManagers: row.ProjectManagers,
			},
			EstimatedDevelopers: row.EstimatedDevelopers,
			Schedule: estimation.Schedule{
				MinimumWeeks:   row.MinimumWeeks,
				EstimatedWeeks: row.EstimatedWeeks,
				MaximumWeeks:   row.MaximumWeeks,
			},
			Cost: estimation.Cost{
				Minimum:   row.MinimumCost,
				Estimated: row.EstimatedCost,
				Maximum:   row.MaximumCost,
			},
			RiskMultiplier:                  row.RiskMultiplier,
			BufferPercentage:                row.BufferPercentage,
			TeamEfficiencyMultiplier:        row.TeamEfficiencyMultiplier,
			TechnologyFamiliarityMultiplier: row.TechnologyFamiliarityMultiplier,
			Metadata: estimation.Metadata{
				AlgorithmVersion: row.AlgorithmVersion,
				Confidence:       row.Confidence,
				Factors:          []string(row.Factors),
				Recommendations:  []string(row.Recommendations),
			},
		},
		CreatedAt: row.CreatedAt,
	}
}

const estimationColumns = `
	id, tenant_id, created_by, name, description, project_type, technology_stack, complexity_level,
	has_authentication, has_payment_system, has_admin_panel, has_real_time_features, has_third_party_integrations,
	number_of_pages, number_of_forms, number_of_apis,
	frontend_rate, backend_rate, fullstack_rate, design_rate, testing_rate,
	estimated_hours, hours_frontend, hours_backend, hours_database, hours_testing,
	hours_deployment, hours_project_management, hours_design,
	frontend_developers, backend_developers, fullstack_developers, designers, testers, project_managers,
	estimated_developers, minimum_weeks, estimated_weeks, maximum_weeks,
	minimum_cost, estimated_cost, maximum_cost,
	risk_multiplier, buffer_percentage, team_efficiency_multiplier, technology_familiarity_multiplier,
	algorithm_version, confidence, factors, recommendations, created_at`

const insertEstimation = `
	INSERT INTO estimations (
		tenant_id, created_by, name, description, project_type, technology_stack, complexity_level,
		has_authentication, has_payment_system, has_admin_panel, has_real_time_features, has_third_party_integrations,
		number_of_pages, number_of_forms, number_of_apis,
		frontend_rate, backend_rate, fullstack_rate, design_rate, testing_rate,
		estimated_hours, hours_frontend, hours_backend, hours_database, hours_testing,
		hours_deployment, hours_project_management, hours_design,
		frontend_developers, backend_developers, fullstack_developers, designers, testers, project_managers,
		estimated_developers, minimum_weeks, estimated_weeks, maximum_weeks,
		minimum_cost, estimated_cost, maximum_cost,
		risk_multiplier, buffer_percentage, team_efficiency_multiplier, technology_familiarity_multiplier,
		algorithm_version, confidence, factors, recommendations
	) VALUES (
		:tenant_id, :created_by, :name, :description, :project_type, :technology_stack, :complexity_level,
		:has_authentication, :has_payment_system, :has_admin_panel, :has_real_time_features, :has_third_party_integrations,
		:number_of_pages, :number_of_forms, :number_of_apis,
		:frontend_rate, :backend_rate, :fullstack_rate, :design_rate, :testing_rate,
		:estimated_hours, :hours_frontend, :hours_backend, :hours_database, :hours_testing,
		:hours_deployment, :hours_project_management, :hours_design,
		:frontend_developers, :backend_developers, :fullstack_developers, :designers, :testers, :project_managers,
		:estimated_developers, :minimum_weeks, :estimated_weeks, :maximum_weeks,
		:minimum_cost, :estimated_cost, :maximum_cost,
		:risk_multiplier, :buffer_percentage, :team_efficiency_multiplier, :technology_familiarity_multiplier,
		:algorithm_version, :confidence, :factors, :recommendations
	) RETURNING id, created_at`

func (r *estimationRepository) Insert(ctx context.Context, e *Estimation) error {
	query, args, err := r.db.BindNamed(insertEstimation, newEstimationRow(e))
	if err != nil {
		return err
	}
	return r.db.QueryRowxContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt)
}

func (r *estimationRepository) FindAll(ctx context.Context, filter EstimationFilter) ([]*Estimation, error) {
	query := `SELECT ` + estimationColumns + ` FROM estimations WHERE tenant_id = $1`
	args := []interface{}{filter.TenantID}

	if filter.ProjectType != nil {
		args = append(args, *filter.ProjectType)
		query += ` AND project_type = $` + itoa(len(args))
	}
	if filter.TechnologyStack != nil {
		args = append(args, *filter.TechnologyStack)
		query += ` AND technology_stack = $` + itoa(len(args))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		query += ` AND created_at >= $` + itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}

	var rows []estimationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]*Estimation, len(rows))
	for i := range rows {
		out[i] = rows[i].toEstimation()
	}
	return out, nil
}

func (r *estimationRepository) FindByID(ctx context.Context, tenantID, id string) (*Estimation, error) {
	var row estimationRow
	query := `SELECT ` + estimationColumns + ` FROM estimations WHERE tenant_id = $1 AND id = $2`
	err := r.db.GetContext(ctx, &row, query, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toEstimation(), nil
}

func (r *estimationRepository) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM estimations WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
