package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lucaswall/food-scanner-sub003/models"

	"gorm.io/gorm"
)

type CustomFoodService struct{ db *gorm.DB }

func NewCustomFoodService(db *gorm.DB) *CustomFoodService {
	return &CustomFoodService{db: db}
}

// CreateFromAnalysis persists an accepted analysis as a new custom food.
// Keywords are normalized so later matching can rely on exact token
// equality.
func (s *CustomFoodService) CreateFromAnalysis(ctx context.Context, userID uint, analysis NutritionAnalysis, amount float64, unitID int64) (*models.CustomFood, error) {
	food := &models.CustomFood{
		UserID:   userID,
		FoodName: analysis.FoodName,
		Keywords: strings.Join(NormalizeKeywords(analysis.Keywords), ","),
		Calories: analysis.Calories,
		ProteinG: analysis.ProteinG,
		CarbsG:   analysis.CarbsG,
		FatG:     analysis.FatG,
		Amount:   amount,
		UnitID:   unitID,
	}
	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

func (s *CustomFoodService) List(ctx context.Context, userID uint) ([]models.CustomFood, error) {
	var foods []models.CustomFood
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&foods).Error
	return foods, err
}

func (s *CustomFoodService) Get(ctx context.Context, userID, foodID uint) (*models.CustomFood, error) {
	var food models.CustomFood
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", foodID, userID).
		First(&food).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &food, nil
}

// LinkFitbit attaches the Fitbit catalog ID once the food has been created
// upstream; only linked foods are eligible as match candidates.
func (s *CustomFoodService) LinkFitbit(ctx context.Context, userID, foodID uint, fitbitFoodID int64) error {
	res := s.db.WithContext(ctx).
		Model(&models.CustomFood{}).
		Where("id = ? AND user_id = ?", foodID, userID).
		Update("fitbit_food_id", fitbitFoodID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- match candidate feed ----------

type candidateRow struct {
	ID           uint
	FoodName     string
	Keywords     string
	Calories     int
	ProteinG     float64
	CarbsG       float64
	FatG         float64
	FitbitFoodID *int64
	Amount       float64
	UnitID       int64
	CreatedAt    time.Time
	LastLogged   string
}

// CandidatesWithFitbitLink returns the user's Fitbit-linked, keyword-bearing
// foods joined with the timestamp of their most recent log entry. Foods
// never logged fall back to their creation time.
func (s *CustomFoodService) CandidatesWithFitbitLink(ctx context.Context, userID uint) ([]MatchCandidate, error) {
	var rows []candidateRow
	err := s.db.WithContext(ctx).
		Table("custom_foods").
		Select("custom_foods.id, custom_foods.food_name, custom_foods.keywords, custom_foods.calories, custom_foods.protein_g, custom_foods.carbs_g, custom_foods.fat_g, custom_foods.fitbit_food_id, custom_foods.amount, custom_foods.unit_id, custom_foods.created_at, MAX(food_log_entries.date || ' ' || food_log_entries.time) AS last_logged").
		Joins("LEFT JOIN food_log_entries ON food_log_entries.custom_food_id = custom_foods.id AND food_log_entries.deleted_at IS NULL").
		Where("custom_foods.user_id = ? AND custom_foods.fitbit_food_id IS NOT NULL AND COALESCE(custom_foods.keywords, '') <> '' AND custom_foods.deleted_at IS NULL", userID).
		Group("custom_foods.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]MatchCandidate, 0, len(rows))
	for _, r := range rows {
		last := r.CreatedAt
		if r.LastLogged != "" {
			if t, err := time.Parse(dateLayout+" "+clockLayout, r.LastLogged); err == nil {
				last = t
			}
		}
		out = append(out, MatchCandidate{
			CustomFoodID: r.ID,
			FoodName:     r.FoodName,
			Keywords:     splitKeywords(r.Keywords),
			Calories:     r.Calories,
			ProteinG:     r.ProteinG,
			CarbsG:       r.CarbsG,
			FatG:         r.FatG,
			FitbitFoodID: r.FitbitFoodID,
			Amount:       r.Amount,
			UnitID:       r.UnitID,
			LastLoggedAt: last,
		})
	}
	return out, nil
}

// ---------- keyword helpers ----------

// NormalizeKeywords lowercases, trims and dedups tokens, dropping empties.
// Order is preserved.
func NormalizeKeywords(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func splitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
