package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/avelichko/crmdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTime_DecodesNumericAndStringForms(t *testing.T) {
	want := time.Date(2024, 12, 19, 10, 30, 0, 0, time.UTC).UnixMilli()

	cases := map[string]string{
		"epoch seconds": `{"timestamp": 1734604200}`,
		"epoch millis":  `{"timestamp": 1734604200000}`,
		"naive string":  `{"timestamp": "2024-12-19 10:30:00"}`,
		"iso string":    `{"timestamp": "2024-12-19T10:30:00Z"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			var rec struct {
				Timestamp models.FlexTime `json:"timestamp"`
			}
			require.NoError(t, json.Unmarshal([]byte(payload), &rec))
			assert.Equal(t, want, rec.Timestamp.Ms())
		})
	}
}

func TestFlexTime_MalformedBecomesSentinel(t *testing.T) {
	var rec struct {
		Timestamp models.FlexTime `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp": "garbage"}`), &rec))
	assert.True(t, rec.Timestamp.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"timestamp": null}`), &rec))
	assert.True(t, rec.Timestamp.IsZero())
}

func TestFlexTime_MarshalsAsMillis(t *testing.T) {
	b, err := json.Marshal(models.FlexTime(1734604200000))
	require.NoError(t, err)
	assert.Equal(t, "1734604200000", string(b))
}
