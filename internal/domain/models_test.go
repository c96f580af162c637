package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreDecoding(t *testing.T) {
	cases := map[string]string{
		`0.93`:       "0.93",
		`"0.4"`:      "0.40",
		`" 1 "`:      "1.00",
		`null`:       "-",
		`"n/a"`:      "-",
		`true`:       "-",
		`"NaN"`:      "-",
		`"Inf"`:      "-",
		`"-Inf"`:     "-",
		`"Infinity"`: "-",
	}
	for raw, want := range cases {
		var s Score
		require.NoError(t, json.Unmarshal([]byte(raw), &s), raw)
		assert.Equal(t, want, s.String(), raw)
	}
}

func TestNonFiniteScoreStillEncodes(t *testing.T) {
	var c Citation
	require.NoError(t, json.Unmarshal([]byte(`{"chunk_id":"c1","final_score":"NaN","score":"+Inf"}`), &c))
	assert.False(t, c.Relevance().Valid)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"final_score":null`)
}
