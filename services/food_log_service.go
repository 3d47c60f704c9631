package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucaswall/food-scanner-sub003/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type FoodLogService struct{ db *gorm.DB }

func NewFoodLogService(db *gorm.DB) *FoodLogService { return &FoodLogService{db: db} }

// Log records one meal of a custom food at a local date/time. The food must
// belong to the same user.
func (s *FoodLogService) Log(ctx context.Context, userID, customFoodID uint, date, clock string) (*models.FoodLogEntry, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if _, err := time.Parse(clockLayout, clock); err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", clock, err)
	}

	var food models.CustomFood
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", customFoodID, userID).
		First(&food).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	entry := &models.FoodLogEntry{
		UserID:       userID,
		CustomFoodID: customFoodID,
		Date:         date,
		Time:         clock,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// EntriesInDateRange returns the user's entries with date in [from, to]
// inclusive. Zero-padded date strings make BETWEEN equivalent to a
// calendar-range check.
func (s *FoodLogService) EntriesInDateRange(ctx context.Context, userID uint, from, to string) ([]models.FoodLogEntry, error) {
	var entries []models.FoodLogEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC, time ASC").
		Find(&entries).Error
	return entries, err
}

// FirstOfDay reports whether the entry is the earliest one logged on its
// date, i.e. the meal that closed an overnight fast.
func (s *FoodLogService) FirstOfDay(ctx context.Context, entry *models.FoodLogEntry) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.FoodLogEntry{}).
		Where("user_id = ? AND date = ? AND time < ? AND id <> ?",
			entry.UserID, entry.Date, entry.Time, entry.ID).
		Count(&n).Error
	return n == 0, err
}

func (s *FoodLogService) Delete(ctx context.Context, userID, entryID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.FoodLogEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
