package services

import (
	"context"
	"math"
	"sort"
	"time"
)

// matchCandidateSource supplies the user's reusable custom foods, already
// restricted to Fitbit-linked foods with keywords and joined with their
// most recent log timestamp.
type matchCandidateSource interface {
	CandidatesWithFitbitLink(ctx context.Context, userID uint) ([]MatchCandidate, error)
}

// MatchCandidate is one previously-created custom food as seen by the
// matcher.
type MatchCandidate struct {
	CustomFoodID uint
	FoodName     string
	Keywords     []string
	Calories     int
	ProteinG     float64
	CarbsG       float64
	FatG         float64
	FitbitFoodID *int64
	Amount       float64
	UnitID       int64
	LastLoggedAt time.Time
}

// NutritionAnalysis is the AI output for a not-yet-logged food.
type NutritionAnalysis struct {
	FoodName string   `json:"food_name"`
	Keywords []string `json:"keywords"`
	Calories int      `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
}

// FoodMatch is a ranked suggestion to reuse an existing custom food.
type FoodMatch struct {
	CustomFoodID uint      `json:"custom_food_id"`
	FoodName     string    `json:"food_name"`
	Calories     int       `json:"calories"`
	ProteinG     float64   `json:"protein_g"`
	CarbsG       float64   `json:"carbs_g"`
	FatG         float64   `json:"fat_g"`
	FitbitFoodID int64     `json:"fitbit_food_id"`
	Amount       float64   `json:"amount"`
	UnitID       int64     `json:"unit_id"`
	LastLoggedAt time.Time `json:"last_logged_at"`
	MatchRatio   float64   `json:"match_ratio"`
}

type MatchService struct{ foods matchCandidateSource }

func NewMatchService(foods matchCandidateSource) *MatchService {
	return &MatchService{foods: foods}
}

const (
	minMatchRatio = 0.5
	maxMatches    = 3
)

// tolerance pairs a relative fraction of the existing value with an
// absolute floor, so small precise values (1g protein) aren't impossibly
// strict under a pure percentage.
type tolerance struct{ rel, floor float64 }

var (
	calorieTol = tolerance{0.20, 25}
	proteinTol = tolerance{0.25, 3}
	carbsTol   = tolerance{0.25, 5}
	fatTol     = tolerance{0.25, 3}
)

// FindMatches returns up to 3 custom foods that are probably the same food
// as the analysis, ranked by keyword overlap then recency. Read-only;
// nothing is cached between calls.
func (s *MatchService) FindMatches(ctx context.Context, userID uint, analysis NutritionAnalysis) ([]FoodMatch, error) {
	cands, err := s.foods.CandidatesWithFitbitLink(ctx, userID)
	if err != nil {
		return nil, err
	}

	keywords := dedupKeywords(analysis.Keywords)

	out := make([]FoodMatch, 0, maxMatches)
	for _, c := range cands {
		// the source already filters these, but an unlinked or keyword-less
		// food must never surface as a match
		if c.FitbitFoodID == nil || len(c.Keywords) == 0 {
			continue
		}
		ratio := matchRatio(keywords, c.Keywords)
		if ratio < minMatchRatio {
			continue
		}
		if !nutrientsComparable(analysis, c) {
			continue
		}
		out = append(out, FoodMatch{
			CustomFoodID: c.CustomFoodID,
			FoodName:     c.FoodName,
			Calories:     c.Calories,
			ProteinG:     c.ProteinG,
			CarbsG:       c.CarbsG,
			FatG:         c.FatG,
			FitbitFoodID: *c.FitbitFoodID,
			Amount:       c.Amount,
			UnitID:       c.UnitID,
			LastLoggedAt: c.LastLoggedAt,
			MatchRatio:   ratio,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchRatio != out[j].MatchRatio {
			return out[i].MatchRatio > out[j].MatchRatio
		}
		return out[i].LastLoggedAt.After(out[j].LastLoggedAt)
	})
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	return out, nil
}

// ---------- scoring ----------

// matchRatio is the fraction of the analysis keywords present in the
// candidate's keyword set. Deliberately asymmetric: extra candidate
// keywords don't penalize. An empty analysis yields 0, never a division
// by zero.
func matchRatio(analysisKeywords, candidateKeywords []string) float64 {
	if len(analysisKeywords) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(candidateKeywords))
	for _, k := range candidateKeywords {
		set[k] = struct{}{}
	}
	hits := 0
	for _, k := range analysisKeywords {
		if _, ok := set[k]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(analysisKeywords))
}

// boundary inclusive on both thresholds
func (t tolerance) allows(newV, existing float64) bool {
	return math.Abs(newV-existing) <= math.Max(existing*t.rel, t.floor)
}

func nutrientsComparable(a NutritionAnalysis, c MatchCandidate) bool {
	return calorieTol.allows(float64(a.Calories), float64(c.Calories)) &&
		proteinTol.allows(a.ProteinG, c.ProteinG) &&
		carbsTol.allows(a.CarbsG, c.CarbsG) &&
		fatTol.allows(a.FatG, c.FatG)
}

func dedupKeywords(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
