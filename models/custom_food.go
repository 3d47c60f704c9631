package models

import (
    "strings"

    "gorm.io/gorm"
)

// A user-specific food definition created from an AI analysis.
// Foods linked to a Fitbit catalog entry can be re-logged instead of
// creating a duplicate.
type CustomFood struct {
    gorm.Model
    UserID   uint   `gorm:"index;not null"`
    FoodName string `gorm:"not null"`

    // normalized lowercase tokens, comma separated ("chicken,rice,bowl")
    Keywords string

    Calories int
    ProteinG float64
    CarbsG   float64
    FatG     float64

    FitbitFoodID *int64 // nil until the food exists in the Fitbit catalog
    Amount       float64
    UnitID       int64
}

// KeywordList splits the stored keywords into tokens; empty column → nil.
func (f *CustomFood) KeywordList() []string {
    if strings.TrimSpace(f.Keywords) == "" {
        return nil
    }
    parts := strings.Split(f.Keywords, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
