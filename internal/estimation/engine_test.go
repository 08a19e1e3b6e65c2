package estimation

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCalculateLandingPage(t *testing.T) {
	res, err := Calculate(Request{
		ProjectType:     ProjectLandingPage,
		TechnologyStack: TechVue,
		ComplexityLevel: ComplexityLow,
		NumberOfPages:   intPtr(5),
		NumberOfForms:   intPtr(2),
		NumberOfAPIs:    intPtr(10),
	})
	require.NoError(t, err)

	// 40 x 1.0 x 0.8 x 0.95 = 30.4, plus 5x3 + 2x5 + 10x2 = 45
	assert.Equal(t, 75, res.EstimatedHours)
	assert.Equal(t, Distribution{Frontend: 38, Backend: 11, Testing: 8, Design: 19}, res.Distribution)
	assert.Equal(t, Staffing{Frontend: 1, Backend: 1, Designers: 1, Testers: 1, ProjectManagers: 1}, res.Staffing)
	assert.Equal(t, 2, res.EstimatedDevelopers)

	assert.True(t, decimal.NewFromInt(1804).Equal(res.Cost.Estimated), "estimated cost %s", res.Cost.Estimated)
	assert.True(t, decimal.NewFromInt(1533).Equal(res.Cost.Minimum), "minimum cost %s", res.Cost.Minimum)
	assert.True(t, decimal.NewFromInt(2255).Equal(res.Cost.Maximum), "maximum cost %s", res.Cost.Maximum)

	assert.Equal(t, 1.0, res.RiskMultiplier)
	assert.Equal(t, 0.15, res.BufferPercentage)
}

func TestCalculateDefaultsAndSchedule(t *testing.T) {
	res, err := Calculate(Request{
		ProjectType:     ProjectWebApp,
		TechnologyStack: TechReact,
		ComplexityLevel: ComplexityMedium,
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultPages, res.Pages)
	assert.Equal(t, DefaultForms, res.Forms)
	assert.Equal(t, DefaultAPIs, res.APIs)
	assert.True(t, DefaultRates().Backend.Equal(res.Rates.Backend))

	assert.Equal(t, 125, res.EstimatedHours)
	assert.Equal(t, Distribution{Frontend: 44, Backend: 38, Testing: 25, Design: 19}, res.Distribution)
	assert.Equal(t, HoursByCategory{
		Frontend:          44,
		Backend:           38,
		Database:          13,
		Testing:           25,
		Deployment:        6,
		ProjectManagement: 13,
	}, res.HoursByCategory)

	assert.Equal(t, Schedule{MinimumWeeks: 0.9, EstimatedWeeks: 1.1, MaximumWeeks: 1.4}, res.Schedule)

	assert.True(t, decimal.NewFromInt(3070).Equal(res.Cost.Estimated))
	assert.True(t, decimal.NewFromInt(2610).Equal(res.Cost.Minimum))
	assert.True(t, decimal.NewFromInt(3838).Equal(res.Cost.Maximum))

	assert.Equal(t, AlgorithmVersion, res.Metadata.AlgorithmVersion)
	assert.Equal(t, 0.85, res.Metadata.Confidence)
	assert.Len(t, res.Metadata.Recommendations, 2)
}

func TestCalculateAPIWeights(t *testing.T) {
	res, err := Calculate(Request{
		ProjectType:     ProjectAPI,
		TechnologyStack: TechNodeJS,
		ComplexityLevel: ComplexityMedium,
		NumberOfPages:   intPtr(1),
		NumberOfForms:   intPtr(1),
		NumberOfAPIs:    intPtr(20),
	})
	require.NoError(t, err)

	// 40 x 1.5 = 60, plus 3 + 5 + 40
	assert.Equal(t, 108, res.EstimatedHours)
	assert.Greater(t, res.Distribution.Backend, res.Distribution.Frontend)
	assert.Equal(t, 76, res.Distribution.Backend)
}

func TestCalculateLargeProjectNeedsMoreStaff(t *testing.T) {
	res, err := Calculate(Request{
		ProjectType:               ProjectERP,
		TechnologyStack:           TechJava,
		ComplexityLevel:           ComplexityVeryHigh,
		HasAuthentication:         true,
		HasPaymentSystem:          true,
		HasAdminPanel:             true,
		HasRealTimeFeatures:       true,
		HasThirdPartyIntegrations: true,
		NumberOfPages:             intPtr(100),
		NumberOfForms:             intPtr(50),
		NumberOfAPIs:              intPtr(200),
	})
	require.NoError(t, err)

	assert.Equal(t, 1471, res.EstimatedHours)
	assert.Equal(t, 2, res.Staffing.Frontend)
	assert.Equal(t, 2, res.Staffing.Backend)
	assert.Equal(t, 1, res.Staffing.Designers)
	assert.Equal(t, 1, res.Staffing.Testers)
	assert.Equal(t, 4, res.EstimatedDevelopers)
	assert.InDelta(t, 1.45, res.RiskMultiplier, 1e-9)
	assert.Equal(t, 0.25, res.BufferPercentage)
}

func TestCalculateRateOverrides(t *testing.T) {
	req := Request{
		ProjectType:     ProjectWebApp,
		TechnologyStack: TechReact,
		ComplexityLevel: ComplexityMedium,
		Rates: RateOverrides{
			Frontend: decPtr(50),
			Backend:  decPtr(50),
			Design:   decPtr(50),
			Testing:  decPtr(50),
		},
	}
	res, err := Calculate(req)
	require.NoError(t, err)

	// 126 distributed hours at a flat 50
	assert.True(t, decimal.NewFromInt(6300).Equal(res.Cost.Estimated), "got %s", res.Cost.Estimated)
	assert.True(t, DefaultRates().Fullstack.Equal(res.Rates.Fullstack))
}

func TestEngineUsesConfiguredRates(t *testing.T) {
	rates := DefaultRates()
	rates.Frontend = decimal.NewFromInt(100)
	engine := NewEngine(rates)

	res, err := engine.Calculate(Request{
		ProjectType:     ProjectWebApp,
		TechnologyStack: TechReact,
		ComplexityLevel: ComplexityMedium,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(res.Rates.Frontend))
	// 3070 + 44 x (100 - 25)
	assert.True(t, decimal.NewFromInt(6370).Equal(res.Cost.Estimated), "got %s", res.Cost.Estimated)
}

func TestCalculateValidation(t *testing.T) {
	valid := Request{ProjectType: ProjectBlog, TechnologyStack: TechPHP, ComplexityLevel: ComplexityLow}

	tests := []struct {
		name   string
		mutate func(r *Request)
		target error
	}{
		{"unknown project type", func(r *Request) { r.ProjectType = "spaceship" }, ErrInvalidProjectType},
		{"empty technology", func(r *Request) { r.TechnologyStack = "" }, ErrInvalidTechnology},
		{"unknown complexity", func(r *Request) { r.ComplexityLevel = "extreme" }, ErrInvalidComplexity},
		{"zero pages", func(r *Request) { r.NumberOfPages = intPtr(0) }, ErrInvalidRequest},
		{"negative apis", func(r *Request) { r.NumberOfAPIs = intPtr(-3) }, ErrInvalidRequest},
		{"zero rate", func(r *Request) { r.Rates.Testing = decPtr(0) }, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			res, err := Calculate(req)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
		})
	}
}

func TestRiskFactor(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want float64
	}{
		{"baseline", Request{ProjectType: ProjectWebApp, ComplexityLevel: ComplexityMedium}, 1.0},
		{"payment on very high", Request{ProjectType: ProjectWebApp, ComplexityLevel: ComplexityVeryHigh, HasPaymentSystem: true}, 1.3},
		{"high with integrations", Request{ProjectType: ProjectBlog, ComplexityLevel: ComplexityHigh, HasThirdPartyIntegrations: true}, 1.15},
		{"crm", Request{ProjectType: ProjectCRM, ComplexityLevel: ComplexityLow}, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RiskFactor(tt.req), 1e-9)
		})
	}
}

func TestRiskIsNotAppliedToTotals(t *testing.T) {
	plain := Request{ProjectType: ProjectWebApp, TechnologyStack: TechReact, ComplexityLevel: ComplexityMedium}
	risky := plain
	risky.ProjectType = ProjectCRM

	a, err := Calculate(plain)
	require.NoError(t, err)
	b, err := Calculate(risky)
	require.NoError(t, err)

	assert.Greater(t, b.RiskMultiplier, a.RiskMultiplier)
	// Hours differ only through the project type multiplier: 40 x 3.5 + 45.
	assert.Equal(t, 185, b.EstimatedHours)
}

func genRequest() gopter.Gen {
	types := ProjectTypes()
	techs := TechnologyStacks()
	levels := ComplexityLevels()

	return gopter.CombineGens(
		gen.IntRange(0, len(types)-1),
		gen.IntRange(0, len(techs)-1),
		gen.IntRange(0, len(levels)-1),
		gen.SliceOfN(5, gen.Bool()),
		gen.IntRange(1, 500),
		gen.IntRange(1, 200),
		gen.IntRange(1, 400),
		gen.IntRange(1, 200),
	).Map(func(v []interface{}) Request {
		flags := v[3].([]bool)
		rate := decimal.NewFromInt(int64(v[7].(int)))
		return Request{
			ProjectType:               types[v[0].(int)],
			TechnologyStack:           techs[v[1].(int)],
			ComplexityLevel:           levels[v[2].(int)],
			HasAuthentication:         flags[0],
			HasPaymentSystem:          flags[1],
			HasAdminPanel:             flags[2],
			HasRealTimeFeatures:       flags[3],
			HasThirdPartyIntegrations: flags[4],
			NumberOfPages:             intPtr(v[4].(int)),
			NumberOfForms:             intPtr(v[5].(int)),
			NumberOfAPIs:              intPtr(v[6].(int)),
			Rates:                     RateOverrides{Backend: &rate},
		}
	})
}

func TestCalculateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("distribution sums to total within rounding", prop.ForAll(
		func(req Request) bool {
			res, err := Calculate(req)
			if err != nil {
				return false
			}
			diff := res.Distribution.Total() - res.EstimatedHours
			return diff >= -4 && diff <= 4
		},
		genRequest(),
	))

	properties.Property("cost and schedule ranges are ordered", prop.ForAll(
		func(req Request) bool {
			res, err := Calculate(req)
			if err != nil {
				return false
			}
			c, s := res.Cost, res.Schedule
			return c.Minimum.LessThanOrEqual(c.Estimated) &&
				c.Estimated.LessThanOrEqual(c.Maximum) &&
				s.MinimumWeeks <= s.EstimatedWeeks &&
				s.EstimatedWeeks <= s.MaximumWeeks
		},
		genRequest(),
	))

	properties.Property("every staffed bucket has at least one person", prop.ForAll(
		func(req Request) bool {
			res, err := Calculate(req)
			if err != nil {
				return false
			}
			st := res.Staffing
			return st.Frontend >= 1 && st.Backend >= 1 && st.Designers >= 1 &&
				st.Testers >= 1 && st.ProjectManagers == 1
		},
		genRequest(),
	))

	properties.Property("calculation is deterministic", prop.ForAll(
		func(req Request) bool {
			a, errA := Calculate(req)
			b, errB := Calculate(req)
			if errA != nil || errB != nil {
				return false
			}
			return a.EstimatedHours == b.EstimatedHours &&
				a.Distribution == b.Distribution &&
				a.Schedule == b.Schedule &&
				a.Cost.Estimated.Equal(b.Cost.Estimated) &&
				a.RiskMultiplier == b.RiskMultiplier
		},
		genRequest(),
	))

	properties.Property("risk multiplier stays within its bounds", prop.ForAll(
		func(req Request) bool {
			r := RiskFactor(req)
			return r >= 1.0 && r <= 1.45+1e-9
		},
		genRequest(),
	))

	properties.TestingRun(t)
}
