package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lucaswall/food-scanner-sub003/models"

	"github.com/codeGROOVE-dev/retry"
	"github.com/maypok86/otter/v2"
	"gorm.io/gorm"
)

var ErrFitbitNotConnected = errors.New("fitbit account not connected")

const fitbitAPIBase = "https://api.fitbit.com"

// FitbitUnit is one serving unit from the Fitbit catalog.
type FitbitUnit struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Plural string `json:"plural"`
}

type FitbitService struct {
	db     *gorm.DB
	client *http.Client
	units  *otter.Cache[int64, FitbitUnit]
}

func NewFitbitService(db *gorm.DB) *FitbitService {
	units := otter.Must(&otter.Options[int64, FitbitUnit]{
		MaximumSize:      2_000,
		ExpiryCalculator: otter.ExpiryWriting[int64, FitbitUnit](24 * time.Hour),
	})
	return &FitbitService{
		db:     db,
		client: &http.Client{Timeout: 15 * time.Second},
		units:  units,
	}
}

// LogFood re-logs a Fitbit-linked custom food to the user's Fitbit food
// diary for the given local date/time.
func (s *FitbitService) LogFood(ctx context.Context, userID uint, food *models.CustomFood, date, clock string) error {
	if food.FitbitFoodID == nil {
		return fmt.Errorf("custom food %d has no fitbit link", food.ID)
	}
	token, err := s.accessToken(ctx, userID)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("foodId", strconv.FormatInt(*food.FitbitFoodID, 10))
	form.Set("mealTypeId", strconv.Itoa(mealTypeForClock(clock)))
	form.Set("unitId", strconv.FormatInt(food.UnitID, 10))
	form.Set("amount", strconv.FormatFloat(food.Amount, 'f', -1, 64))
	form.Set("date", date)

	_, err = s.post(ctx, token, "/1/user/-/foods/log.json", form)
	return err
}

// Unit resolves a serving unit from the per-process catalog cache, hitting
// the Fitbit API only on a miss.
func (s *FitbitService) Unit(ctx context.Context, userID uint, unitID int64) (FitbitUnit, error) {
	if u, ok := s.units.GetIfPresent(unitID); ok {
		return u, nil
	}

	token, err := s.accessToken(ctx, userID)
	if err != nil {
		return FitbitUnit{}, err
	}
	body, err := s.get(ctx, token, "/1/foods/units.json")
	if err != nil {
		return FitbitUnit{}, err
	}

	var all []FitbitUnit
	if err := json.Unmarshal(body, &all); err != nil {
		return FitbitUnit{}, fmt.Errorf("decode fitbit units error: %w", err)
	}
	for _, u := range all {
		s.units.Set(u.ID, u)
	}
	if u, ok := s.units.GetIfPresent(unitID); ok {
		return u, nil
	}
	return FitbitUnit{}, fmt.Errorf("unknown fitbit unit %d", unitID)
}

// ---------- internals ----------

func (s *FitbitService) accessToken(ctx context.Context, userID uint) (string, error) {
	var tok models.FitbitToken
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&tok).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrFitbitNotConnected
		}
		return "", err
	}
	return tok.AccessToken, nil
}

func (s *FitbitService) get(ctx context.Context, token, path string) ([]byte, error) {
	return s.do(ctx, token, http.MethodGet, path, "", nil)
}

func (s *FitbitService) post(ctx context.Context, token, path string, form url.Values) ([]byte, error) {
	return s.do(ctx, token, http.MethodPost, path,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (s *FitbitService) do(ctx context.Context, token, method, path, contentType string, body io.Reader) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = io.ReadAll(body); err != nil {
			return nil, err
		}
	}

	var respBody []byte
	err := retry.Do(
		func() error {
			var reqBody io.Reader
			if payload != nil {
				reqBody = strings.NewReader(string(payload))
			}
			req, err := http.NewRequestWithContext(ctx, method, fitbitAPIBase+path, reqBody)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+token)
			if contentType != "" {
				req.Header.Set("Content-Type", contentType)
			}

			resp, err := s.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			// retry on rate limiting and server errors only
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("fitbit api error (%d): %s", resp.StatusCode, string(b))
			}
			if resp.StatusCode >= http.StatusBadRequest {
				return retry.Unrecoverable(fmt.Errorf("fitbit api error (%d): %s", resp.StatusCode, string(b)))
			}
			respBody = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return respBody, nil
}

// Fitbit meal slots: 1 breakfast, 3 lunch, 5 dinner, 7 anytime.
func mealTypeForClock(clock string) int {
	hour, err := strconv.Atoi(strings.SplitN(clock, ":", 2)[0])
	if err != nil {
		return 7
	}
	switch {
	case hour < 11:
		return 1
	case hour < 16:
		return 3
	case hour < 22:
		return 5
	default:
		return 7
	}
}
