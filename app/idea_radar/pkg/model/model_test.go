package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     AnalysisRequest
		wantErr bool
	}{
		{"complete", AnalysisRequest{Idea: "coffee cart", Country: "Kenya", City: "Nairobi"}, false},
		{"missing idea", AnalysisRequest{Country: "Kenya", City: "Nairobi"}, true},
		{"blank country", AnalysisRequest{Idea: "x", Country: "  ", City: "Nairobi"}, true},
		{"missing city", AnalysisRequest{Idea: "x", Country: "Kenya"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRequest))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGroups_CoverEveryTaskOnce(t *testing.T) {
	seen := map[TaskID]int{}
	groups := Groups()
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Len(t, g, 4)
		for _, id := range g {
			seen[id]++
		}
	}
	for _, id := range AllTasks() {
		assert.Equal(t, 1, seen[id], id.String())
	}
}

func TestReportFields(t *testing.T) {
	fields := ReportFields()
	assert.Len(t, fields, 12)
	assert.ElementsMatch(t, fields, keys(NewReport()))
}

func TestTaskID_Names(t *testing.T) {
	for _, id := range AllTasks() {
		parsed, ok := ParseTaskID(id.String())
		require.True(t, ok)
		assert.Equal(t, id, parsed)
	}
	_, ok := ParseTaskID("nope")
	assert.False(t, ok)
	assert.False(t, TaskID(42).Valid())
	assert.Panics(t, func() { TaskID(42).Fields() })

	b, err := json.Marshal(TaskFailure{ID: SWOT, Error: "boom"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"section":"swot","error":"boom"}`, string(b))
}

func TestNewReport_EmptyValues(t *testing.T) {
	r := NewReport()
	assert.Equal(t, "", r[FieldScopeOfBusiness])
	assert.Equal(t, []any{}, r[FieldCompetitiveAnalysis])
	assert.Equal(t, map[string]any{}, r[FieldSWOTAnalysis])
}

func keys(r Report) []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	return out
}
