package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type AnalysisService struct {
	client *http.Client
	apiKey string
	model  string
}

func NewAnalysisService() *AnalysisService {
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnalysisService{
		client: &http.Client{Timeout: 60 * time.Second}, // vision calls are slow
		apiKey: os.Getenv("ANTHROPIC_API_KEY"),
		model:  model,
	}
}

const analysisInstruction = `Estimate the nutrition of this food. Reply with only a JSON object: {"food_name": string, "keywords": [lowercase descriptive tokens], "calories": integer, "protein_g": number, "carbs_g": number, "fat_g": number}`

// AnalyzeDescription runs the analysis from a free-text food description.
func (s *AnalysisService) AnalyzeDescription(ctx context.Context, description string) (*NutritionAnalysis, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("empty description")
	}
	content := []map[string]any{
		{"type": "text", "text": description + "\n\n" + analysisInstruction},
	}
	return s.analyze(ctx, content)
}

// AnalyzePhoto runs the analysis from a base64 photo (already stored; the
// raw bytes are only sent to the model).
func (s *AnalysisService) AnalyzePhoto(ctx context.Context, imageBase64, mediaType string) (*NutritionAnalysis, error) {
	if imageBase64 == "" {
		return nil, fmt.Errorf("empty image")
	}
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	content := []map[string]any{
		{"type": "image", "source": map[string]any{
			"type": "base64", "media_type": mediaType, "data": imageBase64,
		}},
		{"type": "text", "text": analysisInstruction},
	}
	return s.analyze(ctx, content)
}

func (s *AnalysisService) analyze(ctx context.Context, content []map[string]any) (*NutritionAnalysis, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	body := map[string]any{
		"model":      s.model,
		"max_tokens": 512,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.anthropic.com/v1/messages", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analysis response error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("analysis api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("analysis api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return nil, fmt.Errorf("decode analysis response error: %w", err)
	}
	var text string
	for _, c := range out.Content {
		if c.Type == "text" {
			text = c.Text
			break
		}
	}
	return ParseAnalysisText(text)
}

// ParseAnalysisText extracts the JSON analysis from model output, tolerating
// surrounding prose or code fences.
func ParseAnalysisText(text string) (*NutritionAnalysis, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in analysis output")
	}

	var a NutritionAnalysis
	if err := json.Unmarshal([]byte(text[start:end+1]), &a); err != nil {
		return nil, fmt.Errorf("decode analysis JSON error: %w", err)
	}
	if strings.TrimSpace(a.FoodName) == "" {
		return nil, fmt.Errorf("analysis missing food_name")
	}
	a.Keywords = NormalizeKeywords(a.Keywords)
	return &a, nil
}
