package repository

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/project-hub-backend/internal/estimation"
)

// A handle without a connection is enough to exercise the mapper and the
// named-parameter binder.
func offlineDB() *sqlx.DB {
	return sqlx.NewDb(nil, "pgx")
}

func columnList(columns string) []string {
	var out []string
	for _, c := range strings.Split(columns, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func TestSelectedColumnsMapToStructFields(t *testing.T) {
	db := offlineDB()
	cases := []struct {
		name    string
		columns string
		dest    interface{}
	}{
		{"estimations", estimationColumns, estimationRow{}},
		{"tasks", taskColumns, Task{}},
		{"documentation", documentationColumns, documentationRow{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := db.Mapper.TypeMap(reflect.TypeOf(tc.dest))
			for _, col := range columnList(tc.columns) {
				assert.NotNil(t, fields.GetByPath(col), "column %s has no field", col)
			}
		})
	}
}

func TestInsertEstimationBindsEveryColumn(t *testing.T) {
	result, err := estimation.Calculate(estimation.Request{
		ProjectType:     estimation.ProjectWebApp,
		TechnologyStack: estimation.TechReact,
		ComplexityLevel: estimation.ComplexityMedium,
	})
	require.NoError(t, err)
	e := &Estimation{TenantID: "t1", Name: "Portal", ProjectType: estimation.ProjectWebApp, Result: *result}

	query, args, err := offlineDB().BindNamed(insertEstimation, newEstimationRow(e))
	require.NoError(t, err)
	assert.Len(t, args, 49)
	assert.Contains(t, query, "$49")
	assert.NotContains(t, query, ":tenant_id")
	assert.Equal(t, "t1", args[0])
	assert.Equal(t, pq.StringArray(result.Metadata.Factors), args[47])
}

func TestEstimationRowRoundTrip(t *testing.T) {
	result, err := estimation.Calculate(estimation.Request{
		ProjectType:      estimation.ProjectEcommerce,
		TechnologyStack:  estimation.TechNodeJS,
		ComplexityLevel:  estimation.ComplexityHigh,
		HasPaymentSystem: true,
	})
	require.NoError(t, err)
	in := &Estimation{ID: "e1", TenantID: "t1", Name: "Shop", HasPaymentSystem: true, Result: *result}

	out := newEstimationRow(in).toEstimation()
	assert.Equal(t, in.Result.Distribution, out.Result.Distribution)
	assert.Equal(t, in.Result.HoursByCategory, out.Result.HoursByCategory)
	assert.Equal(t, in.Result.Staffing, out.Result.Staffing)
	assert.True(t, in.Result.Cost.Estimated.Equal(out.Result.Cost.Estimated))
	assert.Equal(t, in.Result.Metadata.Factors, out.Result.Metadata.Factors)
	assert.True(t, out.HasPaymentSystem)
}

func TestDocumentationRowKeepsTags(t *testing.T) {
	doc := &Documentation{ID: "d1", Title: "API guide", Tags: []string{"api", "v1"}}
	row := newDocumentationRow(doc)
	assert.Equal(t, pq.StringArray{"api", "v1"}, row.Tags)

	row.Tags = nil
	assert.Equal(t, []string{}, row.toDocumentation().Tags)
}
