package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/rs/xid"

	"auction_house/pkg/contextx"
	"auction_house/pkg/logx"
)

const HeaderTraceID = "X-Trace-Id"

//go:generate moq -rm -out sensitive_data_masker_mock.gen.go . sensitiveDataMasker:SensitiveDataMaskerMock
type sensitiveDataMasker interface {
	Mask([]byte) []byte
}

// LoggingRoundTripper logs outgoing requests and their responses. A trace id
// found in the request context is forwarded in X-Trace-Id so both sides of a
// call share it in their logs.
type LoggingRoundTripper struct {
	next                http.RoundTripper
	sensitiveDataMasker sensitiveDataMasker
	logFieldMaxLen      int
}

func NewLoggingRoundTripper(
	next http.RoundTripper,
	opts ...Option,
) LoggingRoundTripper {
	rt := LoggingRoundTripper{
		next:                next,
		sensitiveDataMasker: logx.NewNopSensitiveDataMasker(),
	}

	for _, opt := range opts {
		opt(&rt)
	}

	return rt
}

func (rt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	log := logger(ctx).With(slog.String(logx.FieldRequestID, xid.New().String()))

	if traceID, err := contextx.TraceIDFromContext(ctx); err == nil && req.Header.Get(HeaderTraceID) == "" {
		req = req.Clone(ctx)
		req.Header.Set(HeaderTraceID, traceID.String())
		log = log.With(logx.Stringer(logx.FieldTraceID, traceID))
	}

	reqBytes, err := httputil.DumpRequestOut(req, true)
	log.Info(logx.FieldHTTPRequest, slog.String(logx.FieldRequestBody, rt.dump(log, reqBytes, err)))

	start := time.Now()

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip %w", err)
	}

	respBytes, err := httputil.DumpResponse(resp, true)
	log.Info(
		logx.FieldHTTPResponse,
		slog.String(logx.FieldResponseBody, rt.dump(log, respBytes, err)),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
	)

	return resp, nil
}

// dump truncates and masks a dumped message.
func (rt LoggingRoundTripper) dump(log *slog.Logger, b []byte, err error) string {
	if err != nil {
		log.Error("httputil.Dump", logx.Error(err))
	}

	if rt.logFieldMaxLen != 0 && len(b) > rt.logFieldMaxLen {
		b = b[:rt.logFieldMaxLen]
	}

	return string(rt.sensitiveDataMasker.Mask(b))
}
