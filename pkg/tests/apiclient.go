package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"auction_house/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	HeaderPlaceID   = "X-Place-Id"
	HeaderJobID     = "X-Job-Id"
	HeaderJobSecret = "X-Job-Secret"
)

// APIClient ходит в API аукциона от имени игрового сервера.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(
	baseURL string,
	httpClient *http.Client,
) APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return APIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Identity returns the headers a game server sends before it has a secret.
func Identity(placeID, jobID string) http.Header {
	h := http.Header{}
	h.Set(HeaderPlaceID, placeID)
	h.Set(HeaderJobID, jobID)

	return h
}

// Connect registers the job and returns headers for authenticated calls.
func (a APIClient) Connect(ctx context.Context, placeID, jobID string) (http.Header, rest.ConnectResponse, error) {
	var (
		resp   rest.ConnectResponse
		apiErr rest.Error
	)

	r, err := a.Get(ctx, "/v1/connect", Identity(placeID, jobID), &resp, &apiErr)
	if err != nil {
		return nil, resp, err
	}

	if r.StatusCode != http.StatusOK {
		return nil, resp, fmt.Errorf("connect: status %d, code %s", r.StatusCode, apiErr.Code)
	}

	h := Identity(placeID, jobID)
	h.Set(HeaderJobSecret, resp.Secret)

	return h, resp, nil
}

func (a APIClient) Get(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	dest any,
	errDest any,
) (*http.Response, error) {
	return a.httpRequest(ctx, http.MethodGet, endpoint, headers, http.NoBody, dest, errDest)
}

func (a APIClient) Post(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	request any,
	dest any,
	errDest any,
) (*http.Response, error) {
	b, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return a.httpRequest(ctx, http.MethodPost, endpoint, headers, bytes.NewReader(b), dest, errDest)
}

// PostJSON отправляет тело как есть, для проверки невалидных запросов.
func (a APIClient) PostJSON(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	requestJSON string,
	dest any,
	errDest any,
) (*http.Response, error) {
	return a.httpRequest(ctx, http.MethodPost, endpoint, headers, bytes.NewReader([]byte(requestJSON)), dest, errDest)
}

func (a APIClient) httpRequest(
	ctx context.Context,
	httpMethod string,
	endpoint string,
	headers http.Header,
	payload io.Reader,
	dest any,
	errDest any,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, httpMethod, a.baseURL+endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if httpMethod == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	if err = decodeResponse(resp, dest, errDest); err != nil {
		return nil, fmt.Errorf("decodeResponse: %w", err)
	}

	return resp, nil
}

func decodeResponse(r *http.Response, dest, errDest any) error {
	ok := r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices

	switch {
	case ok && dest != nil:
		if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
			return fmt.Errorf("json.Decode(success destination): %w", err)
		}
	case !ok && errDest != nil:
		if err := json.NewDecoder(r.Body).Decode(errDest); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("json.Decode(err destination): %w", err)
		}
	}

	return nil
}
