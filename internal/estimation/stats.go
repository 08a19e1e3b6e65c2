package estimation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the subset of a stored estimate that the statistics need.
type Record struct {
	ProjectType     ProjectType
	TechnologyStack TechnologyStack
	EstimatedHours  int
	EstimatedCost   decimal.Decimal
	EstimatedWeeks  float64
	CreatedAt       time.Time
}

// MonthBucket accumulates estimates created in one calendar month.
type MonthBucket struct {
	Count      int             `json:"count"`
	TotalHours int             `json:"totalHours"`
	TotalCost  decimal.Decimal `json:"totalCost"`
}

// Stats summarises a tenant's estimates.
type Stats struct {
	TotalProjects         int                    `json:"totalProjects"`
	AverageHours          int                    `json:"averageHours"`
	AverageCost           decimal.Decimal        `json:"averageCost"`
	AverageWeeks          float64                `json:"averageWeeks"`
	MostCommonTechnology  *TechnologyStack       `json:"mostCommonTechnology"`
	MostCommonProjectType *ProjectType           `json:"mostCommonProjectType"`
	EstimationsByMonth    map[string]MonthBucket `json:"estimationsByMonth"`
}

// Aggregate reduces records to Stats. An empty slice yields zero values and
// nil modes.
func Aggregate(records []Record) Stats {
	stats := Stats{
		AverageCost:        decimal.Zero,
		EstimationsByMonth: map[string]MonthBucket{},
	}
	if len(records) == 0 {
		return stats
	}

	var (
		totalHours int
		totalWeeks float64
		totalCost  = decimal.Zero
		techs      = newCounter[TechnologyStack]()
		types      = newCounter[ProjectType]()
	)

	for _, r := range records {
		totalHours += r.EstimatedHours
		totalCost = totalCost.Add(r.EstimatedCost)
		totalWeeks += r.EstimatedWeeks
		techs.add(r.TechnologyStack)
		types.add(r.ProjectType)

		month := r.CreatedAt.UTC().Format("2006-01")
		b := stats.EstimationsByMonth[month]
		b.Count++
		b.TotalHours += r.EstimatedHours
		b.TotalCost = b.TotalCost.Add(r.EstimatedCost)
		stats.EstimationsByMonth[month] = b
	}

	n := len(records)
	tech := techs.mode()
	pt := types.mode()

	stats.TotalProjects = n
	stats.AverageHours = roundHalfUp(float64(totalHours) / float64(n))
	stats.AverageCost = totalCost.Div(decimal.NewFromInt(int64(n))).Round(0)
	stats.AverageWeeks = roundTo(totalWeeks/float64(n), 1)
	stats.MostCommonTechnology = &tech
	stats.MostCommonProjectType = &pt
	return stats
}

// counter tallies values while remembering first-seen order.
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: map[K]int{}}
}

func (c *counter[K]) add(k K) {
	if _, seen := c.counts[k]; !seen {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// mode walks values in first-seen order; a later value replaces the current
// best unless the best is strictly more frequent.
func (c *counter[K]) mode() K {
	best := c.order[0]
	for _, k := range c.order[1:] {
		if c.counts[k] >= c.counts[best] {
			best = k
		}
	}
	return best
}
