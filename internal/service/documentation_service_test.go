package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/project-hub-backend/internal/types"
)

func TestBumpPatch(t *testing.T) {
	cases := map[string]string{
		"1.0.0":  "1.0.1",
		"2.3.9":  "2.3.10",
		"1.0":    "1.0.1",
		"a.b.c":  "1.0.1",
		"1.-1.0": "1.0.1",
	}
	for in, want := range cases {
		assert.Equal(t, want, bumpPatch(in), in)
	}
}

func TestDocumentationLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	project := f.project(t, "tenant-a", "Portal")
	docs := f.services.Documentation

	desc := "Login flows"
	doc, err := docs.Create(ctx, "tenant-a", "author-1", CreateDocumentationInput{
		ProjectID:   project.ID,
		Title:       "Auth Design",
		Description: &desc,
		Content:     "Initial draft",
	})
	require.NoError(t, err)
	assert.Equal(t, types.DocTechnicalSpec, doc.Type)
	assert.Equal(t, types.DocDraft, doc.Status)
	assert.Equal(t, "1.0.0", doc.Version)

	t.Run("only the author may edit", func(t *testing.T) {
		content := "Hijacked"
		_, err := docs.Update(ctx, "tenant-a", "someone-else", doc.ID, UpdateDocumentationInput{Content: &content})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("content change bumps the patch version", func(t *testing.T) {
		content := "Second draft"
		updated, err := docs.Update(ctx, "tenant-a", "author-1", doc.ID, UpdateDocumentationInput{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, "1.0.1", updated.Version)

		title := "Auth Design v2"
		updated, err = docs.Update(ctx, "tenant-a", "author-1", doc.ID, UpdateDocumentationInput{Title: &title, Content: &content})
		require.NoError(t, err)
		assert.Equal(t, "1.0.1", updated.Version, "unchanged content keeps the version")
		assert.Equal(t, "Auth Design v2", updated.Title)
	})

	t.Run("publish approves and broadcasts", func(t *testing.T) {
		published, err := docs.Publish(ctx, "tenant-a", "reviewer", doc.ID)
		require.NoError(t, err)
		assert.Equal(t, types.DocApproved, published.Status)
		assert.Contains(t, f.broadcaster.names(), "documentation_published")
	})

	t.Run("search is case insensitive and tenant scoped", func(t *testing.T) {
		found, err := docs.Search(ctx, "tenant-a", "LOGIN")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, doc.ID, found[0].ID)

		found, err = docs.Search(ctx, "tenant-b", "login")
		require.NoError(t, err)
		assert.Empty(t, found)

		_, err = docs.Search(ctx, "tenant-a", "   ")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("list by type validates the type", func(t *testing.T) {
		_, err := docs.ListByType(ctx, "tenant-a", "novel")
		require.ErrorIs(t, err, ErrInvalidInput)

		found, err := docs.ListByType(ctx, "tenant-a", types.DocTechnicalSpec)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("version history holds the current version", func(t *testing.T) {
		history, err := docs.VersionHistory(ctx, "tenant-a", doc.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "1.0.1", history[0].Version)
	})

	t.Run("delete is author only", func(t *testing.T) {
		require.ErrorIs(t, docs.Delete(ctx, "tenant-a", "reviewer", doc.ID), ErrForbidden)
		require.NoError(t, docs.Delete(ctx, "tenant-a", "author-1", doc.ID))
		_, err := docs.Get(ctx, "tenant-a", doc.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentationCreateRequiresTenantProject(t *testing.T) {
	f := newFixture(t)
	project := f.project(t, "tenant-a", "Portal")

	_, err := f.services.Documentation.Create(context.Background(), "tenant-b", "author-1", CreateDocumentationInput{
		ProjectID: project.ID,
		Title:     "Spec",
		Content:   "Body",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
