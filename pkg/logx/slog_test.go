package logx_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"auction_house/pkg/logx"
)

func TestNewLogger(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	logger := logx.NewLogger(&buf, "json", slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("listing created", slog.String(logx.FieldListingID, "abc"), logx.Error(errors.New("boom")))

	rq.NotContains(buf.String(), "hidden")
	rq.Contains(buf.String(), `"listing-id":"abc"`)
	rq.Contains(buf.String(), `"msg":"listing created"`)

	buf.Reset()

	logger = logx.NewLogger(&buf, "text", slog.LevelDebug)
	logger.Debug("reaper tick", slog.Int(logx.FieldCount, 2))

	rq.Contains(buf.String(), "reaper tick")
	rq.Contains(buf.String(), "count")
}
