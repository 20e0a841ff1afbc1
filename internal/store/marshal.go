package store

import (
	"encoding/json"
	"fmt"

	"github.com/inferkit/schedc/internal/ir"
)

// marshalSchedule serializes a schedule as a JSON integer array. The encoding
// is trivially canonical: element order is the schedule order.
func marshalSchedule(s ir.Schedule) (string, error) {
	if s == nil {
		s = ir.Schedule{}
	}
	b, err := json.Marshal([]int(s))
	if err != nil {
		return "", fmt.Errorf("marshal schedule: %w", err)
	}
	return string(b), nil
}

// unmarshalSchedule reverses marshalSchedule.
func unmarshalSchedule(raw string) (ir.Schedule, error) {
	var out []int
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}
	return ir.Schedule(out), nil
}
