package batch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

func TestParseQuestionsObjectsAndStrings(t *testing.T) {
	qs, err := ParseQuestions([]byte(`[{"question":"What is the PEL for benzene?"},"When is fall protection required?"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"What is the PEL for benzene?", "When is fall protection required?"}, qs)
}

func TestParseQuestionsMalformed(t *testing.T) {
	for _, body := range []string{
		``,
		`{"question":"x"}`,
		`[]`,
		`null`,
		`[{"question":""}]`,
		`[{"question":"ok"}, {"q":"wrong key"}]`,
		`[1, 2]`,
	} {
		_, err := ParseQuestions([]byte(body))
		assert.ErrorIs(t, err, domain.ErrMalformedBatchSource, "body=%q", body)
	}
}

func TestSourceLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eight_questions.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"question":"a"},{"question":"b"}]`), 0o600))

	qs, err := NewSource(path, time.Second).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, qs)
}

func TestSourceLoadMissingFile(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "nope.json"), time.Second).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedBatchSource)

	_, err = NewSource("", time.Second).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedBatchSource)
}

func TestSourceLoadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `[{"question":"remote"}]`)
	}))
	defer server.Close()

	qs, err := NewSource(server.URL+"/eight_questions.json", time.Second).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"remote"}, qs)

	_, err = NewSource(server.URL+"/missing.json", time.Second).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedBatchSource)
}
