// Package estimation converts project characteristics into effort, staffing,
// schedule and cost figures.
//
// The calculation runs in four ordered stages: base hours, distribution across
// disciplines, staffing and schedule, and cost. A risk multiplier and a buffer
// percentage are computed alongside and stored with the result, but neither is
// applied back into the hour or cost totals.
package estimation

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	baseHours    = 40.0
	hoursPerWeek = 40
	targetWeeks  = 8

	AlgorithmVersion = "1.0"
	confidence       = 0.85
)

var (
	ErrInvalidRequest     = errors.New("invalid estimation request")
	ErrInvalidProjectType = fmt.Errorf("%w: unknown project type", ErrInvalidRequest)
	ErrInvalidTechnology  = fmt.Errorf("%w: unknown technology stack", ErrInvalidRequest)
	ErrInvalidComplexity  = fmt.Errorf("%w: unknown complexity level", ErrInvalidRequest)
)

var (
	minimumCostFactor = decimal.NewFromFloat(0.85)
	maximumCostFactor = decimal.NewFromFloat(1.25)
)

// RateCard holds hourly rates per role.
type RateCard struct {
	Frontend  decimal.Decimal
	Backend   decimal.Decimal
	Fullstack decimal.Decimal
	Design    decimal.Decimal
	Testing   decimal.Decimal
}

// DefaultRates returns the rates applied when neither the request nor the
// engine configuration overrides them.
func DefaultRates() RateCard {
	return RateCard{
		Frontend:  decimal.NewFromInt(25),
		Backend:   decimal.NewFromInt(30),
		Fullstack: decimal.NewFromInt(35),
		Design:    decimal.NewFromInt(20),
		Testing:   decimal.NewFromInt(18),
	}
}

// RateOverrides carries optional per-request rates. Nil fields fall back to
// the engine's rate card.
type RateOverrides struct {
	Frontend  *decimal.Decimal
	Backend   *decimal.Decimal
	Fullstack *decimal.Decimal
	Design    *decimal.Decimal
	Testing   *decimal.Decimal
}

// Request describes the project being estimated.
type Request struct {
	ProjectType     ProjectType
	TechnologyStack TechnologyStack
	ComplexityLevel ComplexityLevel

	HasAuthentication         bool
	HasPaymentSystem          bool
	HasAdminPanel             bool
	HasRealTimeFeatures       bool
	HasThirdPartyIntegrations bool

	NumberOfPages *int
	NumberOfForms *int
	NumberOfAPIs  *int

	Rates RateOverrides
}

// Distribution is the split of total hours across disciplines.
type Distribution struct {
	Frontend int
	Backend  int
	Testing  int
	Design   int
}

// Total sums the four buckets.
func (d Distribution) Total() int {
	return d.Frontend + d.Backend + d.Testing + d.Design
}

// HoursByCategory is the persisted category breakdown. Database, deployment
// and project management are overlays on the total, not part of the
// distribution.
type HoursByCategory struct {
	Frontend          int
	Backend           int
	Database          int
	Testing           int
	Deployment        int
	ProjectManagement int
}

// Staffing is the headcount per role.
type Staffing struct {
	Frontend        int
	Backend         int
	Fullstack       int
	Designers       int
	Testers         int
	ProjectManagers int
}

// Schedule holds durations in weeks, rounded to one decimal.
type Schedule struct {
	MinimumWeeks   float64
	EstimatedWeeks float64
	MaximumWeeks   float64
}

// Cost holds whole-unit cost figures.
type Cost struct {
	Minimum   decimal.Decimal
	Estimated decimal.Decimal
	Maximum   decimal.Decimal
}

// Metadata describes how an estimate was produced.
type Metadata struct {
	AlgorithmVersion string
	Confidence       float64
	Factors          []string
	Recommendations  []string
}

// Result is the output of Calculate.
type Result struct {
	// Volume counters and rates after defaults were applied.
	Pages int
	Forms int
	APIs  int
	Rates RateCard

	EstimatedHours      int
	Distribution        Distribution
	HoursByCategory     HoursByCategory
	Staffing            Staffing
	EstimatedDevelopers int
	Schedule            Schedule
	Cost                Cost

	RiskMultiplier                  float64
	BufferPercentage                float64
	TeamEfficiencyMultiplier        float64
	TechnologyFamiliarityMultiplier float64

	Metadata Metadata
}

// Engine computes estimates against a fixed rate card.
type Engine struct {
	rates RateCard
}

// NewEngine returns an engine whose defaults come from rates.
func NewEngine(rates RateCard) *Engine {
	return &Engine{rates: rates}
}

// Calculate runs the formula with the built-in default rates.
func Calculate(req Request) (*Result, error) {
	return NewEngine(DefaultRates()).Calculate(req)
}

// Calculate maps a request to a result. It has no side effects and returns
// identical output for identical input.
func (e *Engine) Calculate(req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	pages := intOrDefault(req.NumberOfPages, DefaultPages)
	forms := intOrDefault(req.NumberOfForms, DefaultForms)
	apis := intOrDefault(req.NumberOfAPIs, DefaultAPIs)
	rates := e.resolveRates(req.Rates)

	total := totalHours(req, pages, forms, apis)
	dist := distribute(total, WeightsFor(req.ProjectType))
	staff := staffing(dist)

	return &Result{
		Pages: pages,
		Forms: forms,
		APIs:  apis,
		Rates: rates,

		EstimatedHours: total,
		Distribution:   dist,
		HoursByCategory: HoursByCategory{
			Frontend:          dist.Frontend,
			Backend:           dist.Backend,
			Database:          roundHalfUp(float64(total) * 0.1),
			Testing:           dist.Testing,
			Deployment:        roundHalfUp(float64(total) * 0.05),
			ProjectManagement: roundHalfUp(float64(total) * 0.1),
		},
		Staffing:            staff,
		EstimatedDevelopers: staff.Frontend + staff.Backend + staff.Fullstack,
		Schedule:            schedule(dist, staff),
		Cost:                cost(dist, rates),

		RiskMultiplier:                  RiskFactor(req),
		BufferPercentage:                BufferPercentage(req.ComplexityLevel),
		TeamEfficiencyMultiplier:        1.0,
		TechnologyFamiliarityMultiplier: 1.0,

		Metadata: Metadata{
			AlgorithmVersion: AlgorithmVersion,
			Confidence:       confidence,
			Factors:          []string{"complexity", "technology", "features"},
			Recommendations:  []string{"Consider using agile methodology", "Plan for testing phase"},
		},
	}, nil
}

func validate(req Request) error {
	if !req.ProjectType.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidProjectType, req.ProjectType)
	}
	if !req.TechnologyStack.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidTechnology, req.TechnologyStack)
	}
	if !req.ComplexityLevel.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidComplexity, req.ComplexityLevel)
	}

	counts := []struct {
		name  string
		value *int
	}{
		{"number of pages", req.NumberOfPages},
		{"number of forms", req.NumberOfForms},
		{"number of apis", req.NumberOfAPIs},
	}
	for _, c := range counts {
		if c.value != nil && *c.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidRequest, c.name)
		}
	}

	rates := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"frontend rate", req.Rates.Frontend},
		{"backend rate", req.Rates.Backend},
		{"fullstack rate", req.Rates.Fullstack},
		{"design rate", req.Rates.Design},
		{"testing rate", req.Rates.Testing},
	}
	for _, r := range rates {
		if r.value != nil && !r.value.IsPositive() {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidRequest, r.name)
		}
	}
	return nil
}

func totalHours(req Request, pages, forms, apis int) int {
	hours := baseHours
	hours *= projectTypeFactors[req.ProjectType]
	hours *= complexityFactors[req.ComplexityLevel]
	hours *= technologyFactors[req.TechnologyStack]

	if req.HasAuthentication {
		hours += authenticationHours
	}
	if req.HasPaymentSystem {
		hours += paymentHours
	}
	if req.HasAdminPanel {
		hours += adminPanelHours
	}
	if req.HasRealTimeFeatures {
		hours += realTimeHours
	}
	if req.HasThirdPartyIntegrations {
		hours += integrationHours
	}

	hours += float64(pages * hoursPerPage)
	hours += float64(forms * hoursPerForm)
	hours += float64(apis * hoursPerEndpoint)

	return roundHalfUp(hours)
}

func distribute(total int, w Weights) Distribution {
	t := float64(total)
	return Distribution{
		Frontend: roundHalfUp(t * w.Frontend),
		Backend:  roundHalfUp(t * w.Backend),
		Testing:  roundHalfUp(t * w.Testing),
		Design:   roundHalfUp(t * w.Design),
	}
}

func headcount(hours int) int {
	n := int(math.Ceil(float64(hours) / float64(hoursPerWeek*targetWeeks)))
	if n < 1 {
		return 1
	}
	return n
}

func staffing(d Distribution) Staffing {
	return Staffing{
		Frontend:        headcount(d.Frontend),
		Backend:         headcount(d.Backend),
		Fullstack:       0,
		Designers:       headcount(d.Design),
		Testers:         headcount(d.Testing),
		ProjectManagers: 1,
	}
}

// schedule runs the disciplines in parallel, so the slowest track bounds the
// overall duration.
func schedule(d Distribution, s Staffing) Schedule {
	weeks := math.Max(
		math.Max(bucketWeeks(d.Frontend, s.Frontend), bucketWeeks(d.Backend, s.Backend)),
		math.Max(bucketWeeks(d.Design, s.Designers), bucketWeeks(d.Testing, s.Testers)),
	)
	return Schedule{
		MinimumWeeks:   roundTo(weeks*0.8, 1),
		EstimatedWeeks: roundTo(weeks, 1),
		MaximumWeeks:   roundTo(weeks*1.3, 1),
	}
}

func bucketWeeks(hours, people int) float64 {
	return float64(hours) / float64(people*hoursPerWeek)
}

func cost(d Distribution, r RateCard) Cost {
	sum := decimal.NewFromInt(int64(d.Frontend)).Mul(r.Frontend).
		Add(decimal.NewFromInt(int64(d.Backend)).Mul(r.Backend)).
		Add(decimal.NewFromInt(int64(d.Design)).Mul(r.Design)).
		Add(decimal.NewFromInt(int64(d.Testing)).Mul(r.Testing))

	return Cost{
		Minimum:   sum.Mul(minimumCostFactor).Round(0),
		Estimated: sum.Round(0),
		Maximum:   sum.Mul(maximumCostFactor).Round(0),
	}
}

// RiskFactor scores project risk. The value is informational and is not
// folded into hours or cost.
func RiskFactor(req Request) float64 {
	risk := 1.0
	switch req.ComplexityLevel {
	case ComplexityHigh:
		risk += 0.1
	case ComplexityVeryHigh:
		risk += 0.2
	}
	if req.HasPaymentSystem {
		risk += 0.1
	}
	if req.HasThirdPartyIntegrations {
		risk += 0.05
	}
	if req.ProjectType == ProjectERP || req.ProjectType == ProjectCRM {
		risk += 0.1
	}
	return roundTo(risk, 2)
}

// BufferPercentage is the contingency share suggested for a complexity level.
func BufferPercentage(level ComplexityLevel) float64 {
	buffer := 0.15
	switch level {
	case ComplexityHigh:
		buffer += 0.05
	case ComplexityVeryHigh:
		buffer += 0.10
	}
	return roundTo(buffer, 2)
}

func (e *Engine) resolveRates(o RateOverrides) RateCard {
	return RateCard{
		Frontend:  decimalOrDefault(o.Frontend, e.rates.Frontend),
		Backend:   decimalOrDefault(o.Backend, e.rates.Backend),
		Fullstack: decimalOrDefault(o.Fullstack, e.rates.Fullstack),
		Design:    decimalOrDefault(o.Design, e.rates.Design),
		Testing:   decimalOrDefault(o.Testing, e.rates.Testing),
	}
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func decimalOrDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}

// roundHalfUp rounds non-negative values to the nearest integer, ties up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(x*p+0.5) / p
}
