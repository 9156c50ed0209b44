package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(title string) *trialsum.Result {
	return &trialsum.Result{
		Record: &trialsum.StructuredRecord{
			Title: title,
			Population: trialsum.Section{
				Kind:    trialsum.SectionPopulation,
				RawText: "130 men with knee osteoarthritis",
			},
		},
		Fetch: &trialsum.FetchResult{
			URL:      "https://example.com/trial",
			Content:  "<html>raw</html>",
			Strategy: trialsum.StrategyHTTP,
		},
	}
}

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "article path",
			url:  "https://jamanetwork.com/journals/jama/fullarticle/2812345",
			want: "jamanetwork.com/journals/jama/fullarticle/2812345.json",
		},
		{
			name: "trailing slash becomes index",
			url:  "https://example.com/trials/",
			want: "example.com/trials/index.json",
		},
		{
			name: "root path becomes index",
			url:  "https://example.com",
			want: "example.com/index.json",
		},
		{
			name: "ignores query, fragment and port",
			url:  "https://Example.com:8443/a?version=2#results",
			want: "example.com/a.json",
		},
		{
			name:    "rejects urls without host",
			url:     "/relative/path",
			wantErr: true,
		},
		{
			name:    "rejects malformed urls",
			url:     "://bad",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestWriteResult(t *testing.T) {
	t.Parallel()

	t.Run("writes indented json without raw content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "result.json")

		err := fs.WriteResult(path, testResult("Knee Trial"))

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  \"record\": {")
		assert.NotContains(t, string(data), "<html>raw</html>")

		var got trialsum.Result
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "Knee Trial", got.Record.Title)
		assert.Equal(t, trialsum.StrategyHTTP, got.Fetch.Strategy)
	})

	t.Run("replaces an existing file and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "result.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		err := fs.WriteResult(path, testResult("New"))

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "New")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
