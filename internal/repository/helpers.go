package repository

import (
	"encoding/json"
	"fmt"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

// encodeData serializes a submission's data map for column or list storage.
func encodeData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal submission data: %w", err)
	}
	return b, nil
}

func decodeData(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal submission data: %w", err)
	}
	return data, nil
}

func encodeSubmission(sub models.Submission) ([]byte, error) {
	b, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	return b, nil
}

func decodeSubmission(raw []byte) (models.Submission, error) {
	var sub models.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return models.Submission{}, fmt.Errorf("unmarshal submission: %w", err)
	}
	if sub.Data == nil {
		sub.Data = map[string]any{}
	}
	return sub, nil
}
