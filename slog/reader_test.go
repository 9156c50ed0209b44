package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/mock"
	tsslog "github.com/fwojciec/trialsum/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingReader_Read(t *testing.T) {
	t.Parallel()

	t.Run("logs title and abstract length", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ArticleReader{
			ReadFn: func(content string) (*trialsum.Article, error) {
				return &trialsum.Article{Title: "Knee", Abstract: "Population: men"}, nil
			},
		}

		article, err := tsslog.NewLoggingReader(inner, logger).Read("<html/>")

		require.NoError(t, err)
		assert.Equal(t, "Knee", article.Title)
		output := buf.String()
		assert.Contains(t, output, "read article")
		assert.Contains(t, output, "title=Knee")
		assert.Contains(t, output, "abstract=15")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ArticleReader{
			ReadFn: func(content string) (*trialsum.Article, error) {
				return nil, trialsum.Errorf(trialsum.ENOTFOUND, "no abstract")
			},
		}

		_, err := tsslog.NewLoggingReader(inner, logger).Read("<html/>")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "message=no abstract")
	})
}
