package estimation

// ProjectType classifies the kind of deliverable being estimated.
type ProjectType string

const (
	ProjectWebApp      ProjectType = "web_app"
	ProjectMobileApp   ProjectType = "mobile_app"
	ProjectAPI         ProjectType = "api"
	ProjectEcommerce   ProjectType = "ecommerce"
	ProjectCRM         ProjectType = "crm"
	ProjectERP         ProjectType = "erp"
	ProjectLandingPage ProjectType = "landing_page"
	ProjectBlog        ProjectType = "blog"
	ProjectPortfolio   ProjectType = "portfolio"
	ProjectCustom      ProjectType = "custom"
)

// TechnologyStack is the primary stack the project will be built on.
type TechnologyStack string

const (
	TechReact        TechnologyStack = "react"
	TechAngular      TechnologyStack = "angular"
	TechVue          TechnologyStack = "vue"
	TechNodeJS       TechnologyStack = "nodejs"
	TechPython       TechnologyStack = "python"
	TechJava         TechnologyStack = "java"
	TechDotNet       TechnologyStack = "dotnet"
	TechPHP          TechnologyStack = "php"
	TechMobileNative TechnologyStack = "mobile_native"
	TechReactNative  TechnologyStack = "react_native"
	TechFlutter      TechnologyStack = "flutter"
)

// ComplexityLevel is the ordinal difficulty tag of a project.
type ComplexityLevel string

const (
	ComplexityVeryLow  ComplexityLevel = "very_low"
	ComplexityLow      ComplexityLevel = "low"
	ComplexityMedium   ComplexityLevel = "medium"
	ComplexityHigh     ComplexityLevel = "high"
	ComplexityVeryHigh ComplexityLevel = "very_high"
)

var projectTypeFactors = map[ProjectType]float64{
	ProjectLandingPage: 1.0,
	ProjectBlog:        1.2,
	ProjectPortfolio:   1.3,
	ProjectWebApp:      2.0,
	ProjectMobileApp:   2.5,
	ProjectAPI:         1.5,
	ProjectEcommerce:   3.0,
	ProjectCRM:         3.5,
	ProjectERP:         4.0,
	ProjectCustom:      2.8,
}

var complexityFactors = map[ComplexityLevel]float64{
	ComplexityVeryLow:  0.7,
	ComplexityLow:      0.8,
	ComplexityMedium:   1.0,
	ComplexityHigh:     1.4,
	ComplexityVeryHigh: 1.8,
}

var technologyFactors = map[TechnologyStack]float64{
	TechReact:        1.0,
	TechAngular:      1.1,
	TechVue:          0.95,
	TechNodeJS:       1.0,
	TechPython:       0.9,
	TechJava:         1.2,
	TechDotNet:       1.1,
	TechPHP:          0.8,
	TechMobileNative: 1.5,
	TechReactNative:  1.3,
	TechFlutter:      1.2,
}

// Feature increments, in hours.
const (
	authenticationHours = 20
	paymentHours        = 40
	adminPanelHours     = 60
	realTimeHours       = 30
	integrationHours    = 25

	hoursPerPage     = 3
	hoursPerForm     = 5
	hoursPerEndpoint = 2
)

// Volume defaults used when the request leaves a counter unset.
const (
	DefaultPages = 5
	DefaultForms = 2
	DefaultAPIs  = 10
)

// Weights splits total hours across the four disciplines.
type Weights struct {
	Frontend float64
	Backend  float64
	Testing  float64
	Design   float64
}

var defaultWeights = Weights{Frontend: 0.35, Backend: 0.30, Testing: 0.20, Design: 0.15}

var weightsByProjectType = map[ProjectType]Weights{
	ProjectAPI:         {Frontend: 0.10, Backend: 0.70, Testing: 0.15, Design: 0.05},
	ProjectLandingPage: {Frontend: 0.50, Backend: 0.15, Testing: 0.10, Design: 0.25},
}

// WeightsFor returns the distribution weights applied to a project type.
func WeightsFor(pt ProjectType) Weights {
	if w, ok := weightsByProjectType[pt]; ok {
		return w
	}
	return defaultWeights
}

// Valid reports whether the project type has a multiplier.
func (p ProjectType) Valid() bool {
	_, ok := projectTypeFactors[p]
	return ok
}

// Valid reports whether the stack has a multiplier.
func (t TechnologyStack) Valid() bool {
	_, ok := technologyFactors[t]
	return ok
}

// Valid reports whether the complexity level has a multiplier.
func (c ComplexityLevel) Valid() bool {
	_, ok := complexityFactors[c]
	return ok
}

// ProjectTypes lists every supported project type in a stable order.
func ProjectTypes() []ProjectType {
	return []ProjectType{
		ProjectWebApp, ProjectMobileApp, ProjectAPI, ProjectEcommerce, ProjectCRM,
		ProjectERP, ProjectLandingPage, ProjectBlog, ProjectPortfolio, ProjectCustom,
	}
}

// TechnologyStacks lists every supported stack in a stable order.
func TechnologyStacks() []TechnologyStack {
	return []TechnologyStack{
		TechReact, TechAngular, TechVue, TechNodeJS, TechPython, TechJava,
		TechDotNet, TechPHP, TechMobileNative, TechReactNative, TechFlutter,
	}
}

// ComplexityLevels lists the complexity levels from lowest to highest.
func ComplexityLevels() []ComplexityLevel {
	return []ComplexityLevel{
		ComplexityVeryLow, ComplexityLow, ComplexityMedium, ComplexityHigh, ComplexityVeryHigh,
	}
}
