package models

import "time"

// ============================================
// Estimation DTOs
// ============================================

type CreateEstimationRequest struct {
	Name            string  `json:"name" binding:"required,max=255"`
	Description     *string `json:"description"`
	ProjectType     string  `json:"projectType" binding:"required"`
	TechnologyStack string  `json:"technologyStack" binding:"required"`
	ComplexityLevel string  `json:"complexityLevel" binding:"required"`

	HasAuthentication         bool `json:"hasAuthentication"`
	HasPaymentSystem          bool `json:"hasPaymentSystem"`
	HasAdminPanel             bool `json:"hasAdminPanel"`
	HasRealTimeFeatures       bool `json:"hasRealTimeFeatures"`
	HasThirdPartyIntegrations bool `json:"hasThirdPartyIntegrations"`

	NumberOfPages *int `json:"numberOfPages" binding:"omitempty,gt=0"`
	NumberOfForms *int `json:"numberOfForms" binding:"omitempty,gt=0"`
	NumberOfAPIs  *int `json:"numberOfApis" binding:"omitempty,gt=0"`

	HourlyRateFrontend  *float64 `json:"hourlyRateFrontend" binding:"omitempty,gt=0"`
	HourlyRateBackend   *float64 `json:"hourlyRateBackend" binding:"omitempty,gt=0"`
	HourlyRateFullstack *float64 `json:"hourlyRateFullstack" binding:"omitempty,gt=0"`
	HourlyRateDesign    *float64 `json:"hourlyRateDesign" binding:"omitempty,gt=0"`
	HourlyRateTesting   *float64 `json:"hourlyRateTesting" binding:"omitempty,gt=0"`
}

// EstimationListQuery filters GET /estimations and the export.
type EstimationListQuery struct {
	ProjectType     string     `form:"projectType"`
	TechnologyStack string     `form:"technologyStack"`
	Since           *time.Time `form:"since" time_format:"2006-01-02"`
	Limit           int        `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type HourlyRatesResponse struct {
	Frontend  float64 `json:"frontend"`
	Backend   float64 `json:"backend"`
	Fullstack float64 `json:"fullstack"`
	Design    float64 `json:"design"`
	Testing   float64 `json:"testing"`
}

type EstimationMetadataResponse struct {
	AlgorithmVersion string   `json:"algorithmVersion"`
	Confidence       float64  `json:"confidence"`
	Factors          []string `json:"factors"`
	Recommendations  []string `json:"recommendations"`
}

type EstimationResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	ProjectType     string  `json:"projectType"`
	TechnologyStack string  `json:"technologyStack"`
	ComplexityLevel string  `json:"complexityLevel"`

	HasAuthentication         bool `json:"hasAuthentication"`
	HasPaymentSystem          bool `json:"hasPaymentSystem"`
	HasAdminPanel             bool `json:"hasAdminPanel"`
	HasRealTimeFeatures       bool `json:"hasRealTimeFeatures"`
	HasThirdPartyIntegrations bool `json:"hasThirdPartyIntegrations"`

	NumberOfPages int                 `json:"numberOfPages"`
	NumberOfForms int                 `json:"numberOfForms"`
	NumberOfAPIs  int                 `json:"numberOfApis"`
	HourlyRates   HourlyRatesResponse `json:"hourlyRates"`

	EstimatedHours         int `json:"estimatedHours"`
	FrontendHours          int `json:"frontendHours"`
	BackendHours           int `json:"backendHours"`
	TestingHours           int `json:"testingHours"`
	DesignHours            int `json:"designHours"`
	DatabaseHours          int `json:"databaseHours"`
	DeploymentHours        int `json:"deploymentHours"`
	ProjectManagementHours int `json:"projectManagementHours"`

	FrontendDevelopers  int `json:"frontendDevelopers"`
	BackendDevelopers   int `json:"backendDevelopers"`
	FullstackDevelopers int `json:"fullstackDevelopers"`
	UIUXDesigners       int `json:"uiUxDesigners"`
	QATesters           int `json:"qaTesters"`
	ProjectManagers     int `json:"projectManagers"`
	EstimatedDevelopers int `json:"estimatedDevelopers"`

	MinimumWeeks   float64 `json:"minimumWeeks"`
	EstimatedWeeks float64 `json:"estimatedWeeks"`
	MaximumWeeks   float64 `json:"maximumWeeks"`

	MinimumCost   float64 `json:"minimumCost"`
	EstimatedCost float64 `json:"estimatedCost"`
	MaximumCost   float64 `json:"maximumCost"`

	RiskFactor                      float64 `json:"riskFactor"`
	BufferPercentage                float64 `json:"bufferPercentage"`
	TeamEfficiencyMultiplier        float64 `json:"teamEfficiencyMultiplier"`
	TechnologyFamiliarityMultiplier float64 `json:"technologyFamiliarityMultiplier"`

	Metadata  EstimationMetadataResponse `json:"metadata"`
	CreatedBy *string                    `json:"createdBy,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
}

type MonthBucketResponse struct {
	Count      int     `json:"count"`
	TotalHours int     `json:"totalHours"`
	TotalCost  float64 `json:"totalCost"`
}

// EstimationStatsResponse is the tenant aggregate with costs as JSON numbers.
type EstimationStatsResponse struct {
	TotalProjects         int                            `json:"totalProjects"`
	AverageHours          int                            `json:"averageHours"`
	AverageCost           float64                        `json:"averageCost"`
	AverageWeeks          float64                        `json:"averageWeeks"`
	MostCommonTechnology  *string                        `json:"mostCommonTechnology"`
	MostCommonProjectType *string                        `json:"mostCommonProjectType"`
	EstimationsByMonth    map[string]MonthBucketResponse `json:"estimationsByMonth"`
}
