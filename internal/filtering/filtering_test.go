package filtering

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/resume-screener/internal/extraction"
	"github.com/spigell/resume-screener/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func candidate(file, name, email string, skills []string, years float64, location string) *Candidate {
	return &Candidate{
		File:       file,
		UniqueHash: UniqueHash(name, email),
		Profile: &extraction.Profile{
			Name:            name,
			Email:           email,
			Skills:          skills,
			ExperienceYears: years,
			Location:        location,
		},
	}
}

func files(c *Candidates) []string {
	out := make([]string, 0, c.Len())
	for _, item := range c.Items {
		out = append(out, item.File)
	}
	return out
}

func batch() *Candidates {
	return &Candidates{Items: []*Candidate{
		candidate("a.pdf", "Rahul Sharma", "rahul@example.com", []string{"Python", "Django"}, 4, "Pune"),
		candidate("b.pdf", "Priya Patel", "priya@example.com", []string{"Java"}, 6, "Mumbai"),
		candidate("c.pdf", " rahul sharma ", "RAHUL@example.com", []string{"Python"}, 4, "Pune"),
		candidate("d.pdf", "Arjun Mehta", "arjun@example.com", []string{"Python"}, 1, "Delhi"),
	}}
}

func TestUniqueHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, UniqueHash("Rahul Sharma", "rahul@example.com"), UniqueHash("  rahul sharma", "RAHUL@EXAMPLE.COM "))
	assert.NotEqual(t, UniqueHash("Rahul Sharma", "rahul@example.com"), UniqueHash("Rahul Sharma", ""))
	assert.Len(t, UniqueHash("", ""), 32)

	raw := md5.Sum([]byte("rahul sharmarahul@example.com"))
	assert.Equal(t, hex.EncodeToString(raw[:]), UniqueHash("rahul sharma", "rahul@example.com"))
	mixed := md5.Sum([]byte("Rahul Sharmarahul@example.com"))
	assert.NotEqual(t, hex.EncodeToString(mixed[:]), UniqueHash("Rahul Sharma", "rahul@example.com"))
}

func TestRunDefaultSteps(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Criteria: matching.MatchFilters{
			Skills:        []string{"python"},
			MinExperience: 2,
			Locations:     []string{"Pune", "Mumbai"},
		},
		MinimumScore: 10,
	}

	out, applied, err := Run(context.Background(), cfg, Deps{Logger: zap.NewNop()}, Default(), batch())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf"}, files(out))
	assert.Equal(t, 96.4, out.Items[0].Score)
	assert.Equal(t, []Applied{
		{Name: "criteria", Step: Step{Initial: 4, Dropped: 2, Left: 2}},
		{Name: "duplicates", Step: Step{Initial: 2, Dropped: 1, Left: 1}},
		{Name: "exclude_file", Step: Step{Initial: 1, Dropped: 0, Left: 1}},
		{Name: "minimum_score", Step: Step{Initial: 1, Dropped: 0, Left: 1}},
	}, applied)
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	t.Parallel()

	ceiling := 1.0
	cfg := &Config{Criteria: matching.MatchFilters{MinExperience: 3, MaxExperience: &ceiling}}
	c := batch()

	_, _, err := Run(context.Background(), cfg, Deps{}, Default(), c)
	assert.ErrorContains(t, err, "criteria")
	assert.Equal(t, 4, c.Len(), "nothing is applied when validation fails")

	_, _, err = Run(context.Background(), &Config{MinimumScore: 120}, Deps{}, Default(), batch())
	assert.ErrorContains(t, err, "minimum_score")
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	steps := Default()
	DisableByName(steps, "duplicates", "requested")

	out, applied, err := Run(context.Background(), &Config{}, Deps{Logger: zap.New(core)}, steps, batch())
	require.NoError(t, err)

	assert.Equal(t, 4, out.Len())
	assert.Len(t, applied, 3)
	assert.Equal(t, 1, logs.FilterMessage("filter disabled").Len())
	assert.Equal(t, 3, logs.FilterMessage("filter step").Len())

	statuses := Describe(steps)
	require.Len(t, statuses, 4)
	assert.False(t, statuses[1].Enabled)
	assert.Equal(t, "requested", statuses[1].Reason)
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, &Config{}, Deps{}, Default(), batch())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMinimumScoreDrops(t *testing.T) {
	t.Parallel()

	f := NewMinimumScore()
	require.NoError(t, f.Validate(&Config{
		Criteria:     matching.MatchFilters{Skills: []string{"Python"}},
		MinimumScore: 60,
	}))

	out, step, err := f.Apply(context.Background(), Deps{}, batch())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf", "c.pdf", "d.pdf"}, files(out))
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, step)
	assert.Equal(t, 91.0, out.Items[0].Score)
}

func TestExcludeFileFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "exclude.json")

	excluded := &ExcludedCandidates{Items: []*ExcludedCandidate{
		{Hash: UniqueHash("Priya Patel", "priya@example.com"), Reason: "hired"},
		{Email: " Arjun@Example.com", Reason: "rejected"},
	}}
	require.NoError(t, excluded.ToFile(path))

	f := NewExcludeFile()
	require.NoError(t, f.Validate(&Config{ExcludeFile: path}))

	out, step, err := f.Apply(context.Background(), Deps{}, batch())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "c.pdf"}, files(out))
	assert.Equal(t, Step{Initial: 4, Dropped: 2, Left: 2}, step)
	assert.Equal(t, map[string]string{"path": path}, f.(statusProvider).Status().Details)

	require.NoError(t, f.Validate(&Config{ExcludeFile: filepath.Join(dir, "missing.json")}))
	out, step, err = f.Apply(context.Background(), Deps{}, batch())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	assert.Zero(t, step.Dropped)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o644))
	require.NoError(t, f.Validate(&Config{ExcludeFile: broken}))
	_, _, err = f.Apply(context.Background(), Deps{}, batch())
	assert.Error(t, err)
}

func TestExcludeFileFilterMatchesPhone(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.json")
	excluded := &ExcludedCandidates{Items: []*ExcludedCandidate{
		{Name: "Someone Else", Phone: "+91 98765 43210", Reason: "rejected"},
		{Name: "No Phone", Reason: "rejected"},
	}}
	require.NoError(t, excluded.ToFile(path))
	assert.Equal(t, []string{"+919876543210"}, excluded.Phones())

	c := batch()
	c.Items[1].Profile.Phone = "+919876543210"

	f := NewExcludeFile()
	require.NoError(t, f.Validate(&Config{ExcludeFile: path}))

	out, step, err := f.Apply(context.Background(), Deps{}, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "c.pdf", "d.pdf"}, files(out))
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, step)
}

func TestExcludedCandidatesRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	existing, err := ExcludedFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, existing.Items)

	existing.Append(batch().ToExcluded("contacted"))
	require.NoError(t, existing.ToFile(path))

	short := &ExcludedCandidates{Items: existing.Items[:1]}
	require.NoError(t, short.ToFile(path))

	loaded, err := ExcludedFromFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1, "rewriting a shorter list truncates the file")
	assert.Equal(t, "Rahul Sharma", loaded.Items[0].Name)
	assert.Equal(t, "rahul@example.com", loaded.Items[0].Email)
	assert.Equal(t, "contacted", loaded.Items[0].Reason)
	assert.Equal(t, []string{"rahul@example.com"}, loaded.Emails())
}

func TestCandidatesHelpers(t *testing.T) {
	t.Parallel()

	c := batch()
	c.Items[1].Profile.Education = []extraction.Education{{Degree: "MBA"}, {Degree: "B.Tech"}}
	c.Items[0].Score, c.Items[1].Score, c.Items[2].Score, c.Items[3].Score = 50, 90, 50, 10

	c.SortByScore()
	assert.Equal(t, []string{"b.pdf", "a.pdf", "c.pdf", "d.pdf"}, files(c))

	report := c.ReportByLocation()
	assert.Len(t, report["Pune"], 2)
	assert.Equal(t, "90.00", report["Mumbai"][0]["score"])
	assert.Equal(t, "MBA, B.Tech", report["Mumbai"][0]["degrees"])
	assert.Equal(t, "", report["Delhi"][0]["degrees"])
	assert.Equal(t, "1 years", report["Delhi"][0]["experience"])

	path, err := c.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })
	assert.FileExists(t, path)
}
