package ai

import (
	"encoding/json"
	"fmt"

	"github.com/gemforge/gemforge/internal/domain"
)

// commandFeedback is the per-action report serialized into the next prompt.
// Field names and the Success/Failure status values are part of the upstream
// prompt contract.
type commandFeedback struct {
	CommandType    string `json:"command_type"`
	CommandDetails string `json:"command_details"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// FormatFeedback serializes round results into the JSON array replayed to the
// model on the next round. Order follows the result order exactly.
func FormatFeedback(results []domain.ExecutionResult) (string, error) {
	if len(results) == 0 {
		return "", nil
	}
	feedback := make([]commandFeedback, 0, len(results))
	for _, r := range results {
		entry := commandFeedback{
			CommandType:    string(r.Action.Kind),
			CommandDetails: r.Action.Details(),
			Status:         "Failure",
			Message:        r.ErrorDetail,
		}
		if r.Succeeded {
			entry.Status = "Success"
			entry.Message = r.Output
		}
		feedback = append(feedback, entry)
	}
	data, err := json.Marshal(feedback)
	if err != nil {
		return "", fmt.Errorf("encode feedback: %w", err)
	}
	return string(data), nil
}
