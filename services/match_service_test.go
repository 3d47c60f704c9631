package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type fakeCandidateSource struct {
	cands []MatchCandidate
	err   error
}

func (f *fakeCandidateSource) CandidatesWithFitbitLink(_ context.Context, _ uint) ([]MatchCandidate, error) {
	return f.cands, f.err
}

func fitbitID(id int64) *int64 { return &id }

func candidate(id uint, keywords []string) MatchCandidate {
	return MatchCandidate{
		CustomFoodID: id,
		FoodName:     "food",
		Keywords:     keywords,
		Calories:     400,
		ProteinG:     30,
		CarbsG:       40,
		FatG:         12,
		FitbitFoodID: fitbitID(int64(id) * 100),
		Amount:       1,
		UnitID:       304,
		LastLoggedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func analysisFor(keywords ...string) NutritionAnalysis {
	return NutritionAnalysis{
		FoodName: "new food",
		Keywords: keywords,
		Calories: 400,
		ProteinG: 30,
		CarbsG:   40,
		FatG:     12,
	}
}

// -------- keyword ratio --------

func TestFindMatches_EmptyAnalysisKeywords(t *testing.T) {
	src := &fakeCandidateSource{cands: []MatchCandidate{
		candidate(1, []string{"chicken", "rice"}),
	}}
	svc := NewMatchService(src)

	matches, err := svc.FindMatches(context.Background(), 1, analysisFor())
	require.NoError(t, err)
	assert.Empty(t, matches, "no keywords means ratio 0 for everyone")
}

func TestFindMatches_RatioThreshold(t *testing.T) {
	half := candidate(1, []string{"chicken", "rice"})        // 2 of 4 → 0.50
	quarter := candidate(2, []string{"chicken"})             // 1 of 4 → 0.25
	src := &fakeCandidateSource{cands: []MatchCandidate{half, quarter}}
	svc := NewMatchService(src)

	matches, err := svc.FindMatches(context.Background(), 1,
		analysisFor("chicken", "rice", "grilled", "bowl"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint(1), matches[0].CustomFoodID)
	assert.InDelta(t, 0.5, matches[0].MatchRatio, 1e-9, "0.5 is inclusive")
}

func TestFindMatches_AsymmetricRatio(t *testing.T) {
	// candidate keyword noise doesn't penalize: only coverage of the
	// analysis keywords counts
	noisy := candidate(1, []string{"chicken", "rice", "leftover", "tuesday", "homemade", "big", "plate"})
	src := &fakeCandidateSource{cands: []MatchCandidate{noisy}}
	svc := NewMatchService(src)

	matches, err := svc.FindMatches(context.Background(), 1, analysisFor("chicken", "rice"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].MatchRatio)
}

func TestFindMatches_DuplicateAnalysisKeywords(t *testing.T) {
	c := candidate(1, []string{"chicken"})
	src := &fakeCandidateSource{cands: []MatchCandidate{c}}
	svc := NewMatchService(src)

	// duplicates collapse; "chicken" alone is full coverage
	matches, err := svc.FindMatches(context.Background(), 1,
		analysisFor("chicken", "chicken", "chicken"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].MatchRatio)
}

// -------- eligibility --------

func TestFindMatches_ExcludesUnlinkedFood(t *testing.T) {
	unlinked := candidate(1, []string{"chicken", "rice"})
	unlinked.FitbitFoodID = nil // identical food, but can't be re-logged
	src := &fakeCandidateSource{cands: []MatchCandidate{unlinked}}
	svc := NewMatchService(src)

	matches, err := svc.FindMatches(context.Background(), 1, analysisFor("chicken", "rice"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindMatches_ExcludesKeywordlessFood(t *testing.T) {
	bare := candidate(1, nil)
	src := &fakeCandidateSource{cands: []MatchCandidate{bare}}
	svc := NewMatchService(src)

	matches, err := svc.FindMatches(context.Background(), 1, analysisFor("chicken"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// -------- nutrient tolerance --------

func TestFindMatches_ToleranceFloorInclusive(t *testing.T) {
	// existing 2g protein, new 5g: |5-2|=3 ≤ max(2*0.25, 3)=3 → passes
	c := candidate(1, []string{"egg"})
	c.ProteinG = 2
	src := &fakeCandidateSource{cands: []MatchCandidate{c}}
	svc := NewMatchService(src)

	a := analysisFor("egg")
	a.ProteinG = 5
	matches, err := svc.FindMatches(context.Background(), 1, a)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFindMatches_CalorieTolerance(t *testing.T) {
	c := candidate(1, []string{"egg"})
	c.Calories = 100
	src := &fakeCandidateSource{cands: []MatchCandidate{c}}
	svc := NewMatchService(src)

	// |126-100|=26 > max(100*0.20, 25)=25 → out
	a := analysisFor("egg")
	a.Calories = 126
	matches, err := svc.FindMatches(context.Background(), 1, a)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// |125-100|=25 ≤ 25 → in
	a.Calories = 125
	matches, err = svc.FindMatches(context.Background(), 1, a)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFindMatches_AllFourNutrientsMustPass(t *testing.T) {
	c := candidate(1, []string{"bowl"})
	src := &fakeCandidateSource{cands: []MatchCandidate{c}}
	svc := NewMatchService(src)

	a := analysisFor("bowl")
	a.CarbsG = c.CarbsG + c.CarbsG*0.25 + 1 // carbs alone out of tolerance
	matches, err := svc.FindMatches(context.Background(), 1, a)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// -------- ranking & truncation --------

func TestFindMatches_RanksByRatioThenRecency(t *testing.T) {
	older := candidate(1, []string{"chicken", "rice"}) // ratio 1.0
	older.LastLoggedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := candidate(2, []string{"chicken"}) // ratio 0.5 but recent
	newer.LastLoggedAt = time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	src := &fakeCandidateSource{cands: []MatchCandidate{newer, older}}
	svc := NewMatchService(src)

	matches, err := svc.FindMatches(context.Background(), 1, analysisFor("chicken", "rice"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, uint(1), matches[0].CustomFoodID, "ratio beats recency")
	assert.Equal(t, uint(2), matches[1].CustomFoodID)
}

func TestFindMatches_TieBrokenByRecency(t *testing.T) {
	a := candidate(1, []string{"chicken", "rice", "salad"})
	a.LastLoggedAt = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	b := candidate(2, []string{"chicken", "rice", "soup"})
	b.LastLoggedAt = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	src := &fakeCandidateSource{cands: []MatchCandidate{a, b}}
	svc := NewMatchService(src)

	// both cover 3 of 4 → 0.75 tie
	matches, err := svc.FindMatches(context.Background(), 1,
		analysisFor("chicken", "rice", "salad", "soup"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, uint(2), matches[0].CustomFoodID, "most recently used wins the tie")
}

func TestFindMatches_TruncatesToThree(t *testing.T) {
	var cands []MatchCandidate
	for i := uint(1); i <= 5; i++ {
		cands = append(cands, candidate(i, []string{"chicken", "rice"}))
	}
	src := &fakeCandidateSource{cands: cands}
	svc := NewMatchService(src)

	matches, err := svc.FindMatches(context.Background(), 1, analysisFor("chicken", "rice"))
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestFindMatches_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("query timeout")
	svc := NewMatchService(&fakeCandidateSource{err: boom})

	_, err := svc.FindMatches(context.Background(), 1, analysisFor("chicken"))
	assert.ErrorIs(t, err, boom)
}
