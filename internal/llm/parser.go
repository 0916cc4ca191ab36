package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
)

// cleanMarkdownWrapper strips ```json fences some models add around JSON.
func cleanMarkdownWrapper(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "```json"), "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseHealthScore decodes {score, status, insights}. Anything that does
// not fit the shape is ErrMalformedResponse.
func parseHealthScore(content string) (model.HealthScore, error) {
	var raw struct {
		Score    *float64 `json:"score"`
		Status   string   `json:"status"`
		Insights []string `json:"insights"`
	}
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &raw); err != nil {
		return model.HealthScore{}, fmt.Errorf("%w: %w", common.ErrMalformedResponse, err)
	}

	if raw.Score == nil {
		return model.HealthScore{}, fmt.Errorf("missing score: %w", common.ErrMalformedResponse)
	}
	if *raw.Score != math.Trunc(*raw.Score) || *raw.Score < 0 || *raw.Score > 100 {
		return model.HealthScore{}, fmt.Errorf("score %v is not an integer in [0, 100]: %w", *raw.Score, common.ErrMalformedResponse)
	}

	status, ok := parseStatus(raw.Status)
	if !ok {
		return model.HealthScore{}, fmt.Errorf("unknown status %q: %w", raw.Status, common.ErrMalformedResponse)
	}

	if len(raw.Insights) != 3 {
		return model.HealthScore{}, fmt.Errorf("expected 3 insights, got %d: %w", len(raw.Insights), common.ErrMalformedResponse)
	}
	for _, insight := range raw.Insights {
		if strings.TrimSpace(insight) == "" {
			return model.HealthScore{}, fmt.Errorf("blank insight: %w", common.ErrMalformedResponse)
		}
	}

	return model.HealthScore{
		Score:    int(*raw.Score),
		Status:   status,
		Insights: raw.Insights,
	}, nil
}

func parseStatus(s string) (model.HealthStatus, bool) {
	for _, status := range []model.HealthStatus{model.StatusExcellent, model.StatusGood, model.StatusFair, model.StatusCritical} {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, true
		}
	}
	return "", false
}
