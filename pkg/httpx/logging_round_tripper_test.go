package httpx_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"auction_house/pkg/contextx"
	"auction_house/pkg/httpx"
	"auction_house/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const connectResponse = `{"success":true,"totalAuctionCount":3,"secret":"9f86d081884c7d659a2feaa0c55ad015"}`

func TestLoggingRoundTripper(t *testing.T) {
	testCases := []struct {
		name           string
		handler        http.HandlerFunc
		header         http.Header
		traceID        contextx.TraceID
		masker         httpx.Option
		logFieldMaxLen int
		statusCode     int
		check          func(rq *require.Assertions, req, resp map[string]any, body string)
	}{
		{
			name: "connect is logged in full",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(connectResponse))
			},
			statusCode: http.StatusOK,
			check: func(rq *require.Assertions, req, resp map[string]any, body string) {
				rq.Contains(req[logx.FieldRequestBody], "GET /v1/connect HTTP/1.1")
				rq.Contains(resp[logx.FieldResponseBody], "HTTP/1.1 200 OK")
				rq.Contains(resp[logx.FieldResponseBody], connectResponse)
				rq.Equal(connectResponse, body)
			},
		},
		{
			name: "job secret is masked in both directions",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(connectResponse))
			},
			header:     http.Header{"X-Job-Secret": {"9f86d081884c7d659a2feaa0c55ad015"}},
			masker:     httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			statusCode: http.StatusOK,
			check: func(rq *require.Assertions, req, resp map[string]any, body string) {
				rq.Contains(req[logx.FieldRequestBody], "X-Job-Secret: [MASKED]")
				rq.Contains(resp[logx.FieldResponseBody], `"secret":"[MASKED]"`)
				rq.NotContains(resp[logx.FieldResponseBody], "9f86d081")
				rq.Equal(connectResponse, body, "caller still gets the real body")
			},
		},
		{
			name: "custom masker",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"success":false,"code":"SessionAlreadyConnected"}`))
			},
			masker: httpx.WithSensitiveDataMasker(&httpx.SensitiveDataMaskerMock{
				MaskFunc: func(input []byte) []byte {
					return regexp.MustCompile(`"code":".+?"`).ReplaceAll(input, []byte("<...>"))
				},
			}),
			statusCode: http.StatusConflict,
			check: func(rq *require.Assertions, _, resp map[string]any, _ string) {
				rq.Contains(resp[logx.FieldResponseBody], "HTTP/1.1 409 Conflict")
				rq.Contains(resp[logx.FieldResponseBody], `{"success":false,<...>}`)
			},
		},
		{
			name: "log field size limit",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(connectResponse))
			},
			logFieldMaxLen: 10,
			statusCode:     http.StatusOK,
			check: func(rq *require.Assertions, req, resp map[string]any, _ string) {
				rq.Equal("GET /v1/co", req[logx.FieldRequestBody])
				rq.Equal("HTTP/1.1 2", resp[logx.FieldResponseBody])
			},
		},
		{
			name: "trace id is forwarded",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(r.Header.Get(httpx.HeaderTraceID)))
			},
			traceID:    "cv0trace000000000000",
			statusCode: http.StatusOK,
			check: func(rq *require.Assertions, req, resp map[string]any, body string) {
				rq.Equal("cv0trace000000000000", body)
				rq.Equal("cv0trace000000000000", req[logx.FieldTraceID])
				rq.Equal("cv0trace000000000000", resp[logx.FieldTraceID])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			httpServer := httptest.NewServer(tc.handler)
			defer httpServer.Close()

			var buf bytes.Buffer

			ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
			if tc.traceID != "" {
				ctx = contextx.WithTraceID(ctx, tc.traceID)
			}

			var opts []httpx.Option

			if tc.masker != nil {
				opts = append(opts, tc.masker)
			}

			if tc.logFieldMaxLen != 0 {
				opts = append(opts, httpx.WithLogFieldMaxLen(tc.logFieldMaxLen))
			}

			client := &http.Client{
				Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport, opts...),
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpServer.URL+"/v1/connect", http.NoBody)
			rq.NoError(err)

			for k, v := range tc.header {
				req.Header[k] = v
			}

			resp, err := client.Do(req)
			rq.NoError(err)

			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)

			logLines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			rq.Len(logLines, 2)

			var request, response map[string]any

			rq.NoError(json.Unmarshal([]byte(logLines[0]), &request))
			rq.NoError(json.Unmarshal([]byte(logLines[1]), &response))

			const xidLen = 20

			rq.Len(request[logx.FieldRequestID], xidLen)
			rq.Equal(request[logx.FieldRequestID], response[logx.FieldRequestID])

			_, ok := response[logx.FieldDurationMs].(float64)
			rq.True(ok)

			tc.check(rq, request, response, string(body))
		})
	}
}
