package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/resume-screener/internal/extraction"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/matching"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadJob(t *testing.T) {
	dir := t.TempDir()

	yamlJob := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(yamlJob, []byte(`
title: Backend Engineer
required_skills: [Python, Django, Kubernetes]
description: Build and operate backend services.
experience-years: 4
education_level: bachelor
`), 0o644))

	job, err := loadJob(yamlJob)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, []string{"Python", "Django", "Kubernetes"}, job.RequiredSkills)
	assert.Equal(t, 4.0, job.ExperienceYears)
	assert.Equal(t, "bachelor", job.EducationLevel)

	jsonJob := filepath.Join(dir, "job.json")
	require.NoError(t, os.WriteFile(jsonJob, []byte(`{"required_skills": ["Go"], "experience_years": -1}`), 0o644))
	_, err = loadJob(jsonJob)
	assert.ErrorContains(t, err, "invalid job profile")

	_, err = loadJob("")
	assert.Error(t, err)
}

func filterCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "screen"}
	cmd.Flags().StringSlice("skills", nil, "")
	cmd.Flags().Float64("min-experience", 0, "")
	cmd.Flags().Float64("max-experience", 0, "")
	cmd.Flags().StringSlice("locations", nil, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestScreeningFilters(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("filters", map[string]any{
		"skills":         []any{"Python", "Go"},
		"min-experience": 2,
		"locations":      []any{"Pune"},
	})

	filters, err := screeningFilters(filterCommand(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go"}, filters.Skills)
	assert.Equal(t, 2.0, filters.MinExperience)
	assert.Nil(t, filters.MaxExperience)
	assert.Equal(t, []string{"Pune"}, filters.Locations)

	filters, err = screeningFilters(filterCommand(t, "--skills", "java", "--max-experience", "6"))
	require.NoError(t, err)
	assert.Equal(t, []string{"java"}, filters.Skills)
	require.NotNil(t, filters.MaxExperience)
	assert.Equal(t, 6.0, *filters.MaxExperience)
	assert.Equal(t, []string{"Pune"}, filters.Locations)

	_, err = screeningFilters(filterCommand(t, "--min-experience", "5", "--max-experience", "3"))
	assert.ErrorContains(t, err, "max-experience")
}

func TestListStored(t *testing.T) {
	ctx := context.Background()

	s, err := store.Open(filepath.Join(t.TempDir(), "screener.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	out, err := listStored(ctx, s, "")
	require.NoError(t, err)
	assert.Equal(t, []store.Batch{}, out)

	summary := &screening.Summary{
		BatchID:    "batch-7",
		Folder:     "./resumes",
		Total:      2,
		Successful: 2,
		Candidates: &filtering.Candidates{Items: []*filtering.Candidate{{
			File:       "a.pdf",
			UniqueHash: filtering.UniqueHash("Rahul Sharma", "rahul@example.com"),
			Score:      88,
			Profile:    &extraction.Profile{Name: "Rahul Sharma", Email: "rahul@example.com", Skills: []string{"Go"}},
		}}},
	}
	_, err = s.SaveBatch(ctx, summary, matching.MatchFilters{Skills: []string{"Go"}})
	require.NoError(t, err)

	out, err = listStored(ctx, s, "")
	require.NoError(t, err)
	batches, ok := out.([]store.Batch)
	require.True(t, ok)
	require.Len(t, batches, 1)
	assert.Equal(t, "batch-7", batches[0].ID)

	out, err = listStored(ctx, s, "batch-7")
	require.NoError(t, err)
	potentials, ok := out.([]store.Potential)
	require.True(t, ok)
	require.Len(t, potentials, 1)
	assert.Equal(t, "Rahul Sharma", potentials[0].Name)

	out, err = listStored(ctx, s, "missing")
	require.NoError(t, err)
	assert.Equal(t, []store.Potential{}, out)
}
