package models

import (
    "gorm.io/gorm"
)

// One logged meal. Date and time are the user's local calendar day and
// clock, stored as zero-padded strings with no timezone.
type FoodLogEntry struct {
    gorm.Model
    UserID       uint `gorm:"index;not null"`
    CustomFoodID uint `gorm:"index;not null"`

    Date string `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
    Time string `gorm:"type:varchar(8);not null"`        // HH:MM:SS
}
