package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/domain"
)

func TestProfile_GetSetIncrement(t *testing.T) {
	p := domain.NewProfile()

	assert.Equal(t, "fallback", p.Get("missing", "fallback"))

	p.Set("flag", true)
	assert.Equal(t, true, p.Get("flag", false))

	assert.Equal(t, 1, p.Increment("count"))
	assert.Equal(t, 2, p.Increment("count"))
	assert.Equal(t, 2, p.GetInt("count", 0))
}

func TestProfile_Answers(t *testing.T) {
	p := domain.NewProfile()
	p.SetAnswer("fname", "John")

	assert.Equal(t, "John", p.Answer("fname"))
	assert.Equal(t, "", p.Answer("sname"))
}

func TestProfile_IncrementSurvivesJSONRoundTrip(t *testing.T) {
	p := domain.NewProfile()
	p.Increment("sessions")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var restored domain.Profile
	require.NoError(t, json.Unmarshal(data, &restored))

	// JSON turns ints into float64; Increment must keep counting anyway.
	assert.Equal(t, 2, restored.Increment("sessions"))
}

func TestEntryID_UnmarshalJSON(t *testing.T) {
	var payload struct {
		A domain.EntryID  `json:"a"`
		B domain.EntryID  `json:"b"`
		C *domain.EntryID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "mo", "c": null}`), &payload))

	assert.Equal(t, domain.EntryID("42"), payload.A)
	assert.Equal(t, domain.EntryID("mo"), payload.B)
	assert.Nil(t, payload.C)
}

func TestEntryID_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]domain.EntryID{"42", "mo"})
	require.NoError(t, err)
	assert.JSONEq(t, `[42, "mo"]`, string(data))
}
