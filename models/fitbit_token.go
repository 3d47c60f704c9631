package models

import (
    "time"

    "gorm.io/gorm"
)

// Fitbit OAuth credentials for re-logging foods. Token refresh happens in
// the OAuth layer; services only read the current access token.
type FitbitToken struct {
    gorm.Model
    UserID       uint `gorm:"uniqueIndex;not null"`
    FitbitUserID string
    AccessToken  string `gorm:"not null"`
    ExpiresAt    time.Time
}
