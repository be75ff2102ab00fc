package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"afmdash/domain/curves"
	"afmdash/domain/experiment"
	apperrors "afmdash/internal/errors"
)

const (
	// DefaultTimeout bounds one REST call; exports of large datasets are slow
	DefaultTimeout = 5 * time.Minute

	// DefaultRateLimit is requests per second towards the backend
	DefaultRateLimit = 5.0

	serviceName = "analysis backend"
)

// Client is a rate-limited client for the analysis backend's REST endpoints
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets requests per second
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadExperiment uploads a file as multipart field "file"
func (c *Client) LoadExperiment(ctx context.Context, filename string, r io.Reader) (*experiment.Structure, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, apperrors.Wrap(err, "build upload form")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, apperrors.Wrap(err, "read upload")
	}
	if err := mw.Close(); err != nil {
		return nil, apperrors.Wrap(err, "finish upload form")
	}

	var out experiment.Structure
	if err := c.do(ctx, http.MethodPost, "/experiment/load-experiment", mw.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessFile ingests the selected datasets of an uploaded file
func (c *Client) ProcessFile(ctx context.Context, req experiment.ProcessRequest) (*experiment.ProcessResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	var out experiment.ProcessResult
	if err := c.postJSON(ctx, "/experiment/process-file", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export asks the backend to write an export file
func (c *Client) Export(ctx context.Context, format experiment.Format, req experiment.ExportRequest) (*experiment.ExportResult, error) {
	var out experiment.ExportResult
	if err := c.postJSON(ctx, "/export/"+url.PathEscape(string(format)), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadExport streams GET /exports/{path} into w
func (c *Client) DownloadExport(ctx context.Context, path string, w io.Writer) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, apperrors.Wrap(err, "rate limiter")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/exports/"+url.PathEscape(path), nil)
	if err != nil {
		return 0, apperrors.Wrap(err, "build download request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.ExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return 0, err
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, apperrors.ExternalServiceError(serviceName, fmt.Errorf("download %s: %w", path, err))
	}
	return n, nil
}

// CalculateSoftmechMetadata previews SoftMech CSV metadata
func (c *Client) CalculateSoftmechMetadata(ctx context.Context, req experiment.SoftmechRequest) (map[string]interface{}, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, "/calculate-softmech-metadata", req, &raw); err != nil {
		return nil, err
	}
	md := gjson.GetBytes(raw, "calculated_metadata")
	if !md.IsObject() {
		return map[string]interface{}{}, nil
	}
	out, _ := md.Value().(map[string]interface{})
	return out, nil
}

// AllFParams fetches force-model fit parameters for every curve
func (c *Client) AllFParams(ctx context.Context, req experiment.ParamsRequest) ([]curves.FParam, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, "/get-all-fparams", req, &raw); err != nil {
		return nil, err
	}
	var out []curves.FParam
	if err := decodeList(raw, &out, "curves_fparam", "fparams", "data"); err != nil {
		return nil, err
	}
	return out, nil
}

// AllElasticityParams fetches elasticity-model parameters for every curve
func (c *Client) AllElasticityParams(ctx context.Context, req experiment.ParamsRequest) ([]curves.ElasticityParam, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, "/get-all-elasticity-params", req, &raw); err != nil {
		return nil, err
	}
	var out []curves.ElasticityParam
	if err := decodeList(raw, &out, "curves_elasticity_param", "elasticity_params", "data"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return apperrors.Wrapf(err, "encode %s request", path)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.Wrap(err, "rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.Wrapf(err, "build %s request", path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.ExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.ExternalServiceError(serviceName, fmt.Errorf("read %s response: %w", path, err))
	}
	// a 200 can still carry {"status":"error"}
	if gjson.GetBytes(data, "status").String() == "error" {
		return apperrors.ExternalServiceError(serviceName, &BackendError{
			StatusCode: resp.StatusCode,
			Messages:   messagesFrom(gjson.ParseBytes(data)),
		})
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.ExternalServiceError(serviceName, fmt.Errorf("decode %s response: %w", path, err))
	}
	return nil
}

func decodeList(raw []byte, out interface{}, keys ...string) error {
	root := gjson.ParseBytes(raw)
	list := root
	if !root.IsArray() {
		list = gjson.Result{}
		for _, k := range keys {
			if v := root.Get(k); v.IsArray() {
				list = v
				break
			}
		}
	}
	if !list.IsArray() {
		return apperrors.ExternalServiceError(serviceName, fmt.Errorf("response carries no parameter list"))
	}
	if err := json.Unmarshal([]byte(list.Raw), out); err != nil {
		return apperrors.ExternalServiceError(serviceName, fmt.Errorf("decode parameter list: %w", err))
	}
	return nil
}
