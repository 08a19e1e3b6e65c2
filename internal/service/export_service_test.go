package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/repository"
)

func TestExportEstimationsWorkbook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", webAppInput())
	require.NoError(t, err)
	in := webAppInput()
	in.Request.ProjectType = estimation.ProjectAPI
	_, err = f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", in)
	require.NoError(t, err)

	buf, err := f.services.Export.ExportEstimations(ctx, repository.EstimationFilter{TenantID: "tenant-a"})
	require.NoError(t, err)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{estimationsSheet, summarySheet}, book.GetSheetList())

	rows, err := book.GetRows(estimationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, estimationHeaders, rows[0])

	var ids []string
	for _, r := range rows[1:] {
		ids = append(ids, r[0])
	}
	assert.Contains(t, ids, first.ID)

	total, err := book.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestExportSummaryFollowsFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, pt := range []estimation.ProjectType{estimation.ProjectWebApp, estimation.ProjectAPI, estimation.ProjectAPI} {
		in := webAppInput()
		in.Request.ProjectType = pt
		_, err := f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", in)
		require.NoError(t, err)
	}

	pt := estimation.ProjectWebApp
	buf, err := f.services.Export.ExportEstimations(ctx, repository.EstimationFilter{TenantID: "tenant-a", ProjectType: &pt})
	require.NoError(t, err)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(estimationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	total, err := book.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", total)
	mostCommon, err := book.GetCellValue(summarySheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, string(estimation.ProjectWebApp), mostCommon)
}
