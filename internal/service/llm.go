package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hydromate/backend/internal/models"
)

// llmTimeout bounds the single generation attempt. Expiry is treated like
// any other generation failure and routes to the fallback calculator.
const llmTimeout = 15 * time.Second

// LLMService generates hydration plans through a chat-completions API.
type LLMService struct {
	client *http.Client
	apiKey string
	apiURL string
	model  string
}

// NewLLMService creates a new LLMService instance.
func NewLLMService(apiKey, apiURL, model string) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY must be set")
	}
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}
	if model == "" {
		model = "deepseek-chat"
	}
	return &LLMService{
		client: &http.Client{Timeout: llmTimeout},
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
	}, nil
}

var _ PlanGenerator = (*LLMService)(nil)

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat-completions request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
}

const planSystemPrompt = `You are a hydration coach. Respond only with JSON matching this structure:
{
  "total_intake_ml": number (total daily water intake in milliliters),
  "schedule": [
    {
      "time": "HH:MM" (24-hour format),
      "amount": number (amount in milliliters),
      "description": "brief description of why this timing/amount"
    }
  ],
  "suggestions": "personalized hydration tips and advice based on the profile and weather"
}

Note: total_intake_ml and amount must be numbers, not strings.
Provide 6-8 scheduled water intake times throughout the day from 7 AM to 9 PM.`

// GeneratePlan asks the model for a structured daily plan. A single attempt
// is made; any transport, parse or validation failure is returned as an
// error for the caller's fallback substitution.
func (s *LLMService) GeneratePlan(ctx context.Context, profile *models.UserProfile, weather WeatherSnapshot) (*models.HydrationPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	reqBody := Request{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: planSystemPrompt},
			{Role: "user", Content: buildPlanPrompt(profile, weather)},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.4,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	return ParsePlanResponse(result.Choices[0].Message.Content)
}

// buildPlanPrompt interpolates the profile and weather into the generation
// prompt.
func buildPlanPrompt(profile *models.UserProfile, weather WeatherSnapshot) string {
	conditions := profile.HealthConditions
	if conditions == "" {
		conditions = "None"
	}

	var sb strings.Builder
	sb.WriteString("Create a personalized hydration plan for a person with the following details:\n\n")
	sb.WriteString("Personal Information:\n")
	fmt.Fprintf(&sb, "- Age: %d years\n", profile.Age)
	fmt.Fprintf(&sb, "- Weight: %g kg\n", profile.Weight)
	fmt.Fprintf(&sb, "- Gender: %s\n", profile.Gender)
	fmt.Fprintf(&sb, "- Activity Level: %s\n", profile.ActivityLevel)
	fmt.Fprintf(&sb, "- Health Conditions: %s\n\n", conditions)
	sb.WriteString("Current Weather Conditions:\n")
	fmt.Fprintf(&sb, "- Location: %s\n", weather.City)
	fmt.Fprintf(&sb, "- Temperature: %d°C\n", weather.Temperature)
	fmt.Fprintf(&sb, "- Humidity: %d%%\n", weather.Humidity)
	fmt.Fprintf(&sb, "- Conditions: %s\n\n", weather.Description)
	sb.WriteString(`Consider the following factors:
1. Base water needs based on weight (30-35ml per kg body weight)
2. Activity level adjustments
3. Weather conditions (hot weather = more water, high humidity = more water)
4. Age-related considerations
5. Health conditions that might affect hydration needs
6. Optimal timing throughout the day
7. Spread intake evenly to avoid overloading kidneys`)
	return sb.String()
}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	timeRe       = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)
)

// ParsePlanResponse extracts and validates a hydration plan from raw model
// output. The JSON object is taken from a fenced code block when present,
// otherwise from the first brace-delimited substring.
func ParsePlanResponse(text string) (*models.HydrationPlan, error) {
	raw := extractJSON(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var parsed struct {
		TotalIntakeML float64           `json:"total_intake_ml"`
		Schedule      []json.RawMessage `json:"schedule"`
		Suggestions   string            `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}

	if parsed.TotalIntakeML <= 0 {
		return nil, fmt.Errorf("plan missing positive total_intake_ml")
	}
	if parsed.Schedule == nil {
		return nil, fmt.Errorf("plan missing schedule")
	}

	schedule := make(models.ScheduleItems, 0, len(parsed.Schedule))
	for i, rawItem := range parsed.Schedule {
		var item models.ScheduleItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			return nil, fmt.Errorf("schedule item %d is malformed: %w", i, err)
		}
		if !timeRe.MatchString(item.Time) {
			return nil, fmt.Errorf("schedule item %d has invalid time %q", i, item.Time)
		}
		if item.Amount <= 0 {
			return nil, fmt.Errorf("schedule item %d has non-positive amount", i)
		}
		schedule = append(schedule, item)
	}

	return &models.HydrationPlan{
		TotalIntakeML: int(parsed.TotalIntakeML),
		Schedule:      schedule,
		Suggestions:   parsed.Suggestions,
	}, nil
}

// extractJSON pulls a JSON object out of free text: a ```json fence first,
// then the first balanced brace-delimited substring.
func extractJSON(text string) string {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
