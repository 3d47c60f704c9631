package models

import (
    "gorm.io/gorm"
)

type User struct {
    gorm.Model
    Email    string `gorm:"uniqueIndex;not null"`
    Password string `gorm:"not null"`
    FullName string
    APIKey   string `gorm:"uniqueIndex"` // for non-browser clients (shortcuts, scripts)
    Timezone string // IANA name, resolves the user's "today"
    Disabled bool
}
