// Package client is the capture-and-submit side of the flood reporting flow.
// It wraps the HTTP API, caches the reporter's identity locally, and drives a
// single report-creation session through its states.
package client

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

	"github.com/nelnel19/BAHA-ALERT/analysis"
	"github.com/nelnel19/BAHA-ALERT/models"
)

// Draft holds the report fields collected from the user before submission.
type Draft struct {
	ReporterName  string
	ContactNumber string
	Location      string
	Description   string
	DangerLevel   string
}

// APIError is a non-2xx answer from the server, with the error string the
// server put in its envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the flood reporting API.
type Client struct {
	base *url.URL
	http *http.Client
}

// New builds a client for the API at baseURL, e.g. "http://localhost:5000".
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Client{base: u, http: http.DefaultClient}, nil
}

// SetHTTPClient swaps the underlying transport, mainly for timeouts.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// AbsoluteURL rewrites a server-relative image path against the API base.
// Already-absolute URLs pass through untouched.
func (c *Client) AbsoluteURL(s string) string {
	if s == "" {
		return s
	}
	if u, err := url.Parse(s); err == nil && u.IsAbs() {
		return s
	}
	ref, err := url.Parse(s)
	if err != nil {
		return s
	}
	return c.base.ResolveReference(ref).String()
}

// SubmitReport uploads the image and report fields as one multipart request.
func (c *Client) SubmitReport(ctx context.Context, draft Draft, imageName string, image io.Reader) (models.FloodReport, error) {
	fields := map[string]string{
		"reporterName":  draft.ReporterName,
		"contactNumber": draft.ContactNumber,
		"location":      draft.Location,
		"description":   draft.Description,
		"dangerLevel":   draft.DangerLevel,
	}
	body, contentType, err := multipartPayload(fields, "image", imageName, image)
	if err != nil {
		return models.FloodReport{}, err
	}

	var out models.ReportResp
	if err := c.post(ctx, "/api/flood-reports", contentType, body, &out); err != nil {
		return models.FloodReport{}, err
	}
	out.Report.ImageURL = c.AbsoluteURL(out.Report.ImageURL)
	return out.Report, nil
}

// Analyze sends the image for classification. Nothing is persisted server-side.
func (c *Client) Analyze(ctx context.Context, imageName string, image io.Reader) (analysis.Result, error) {
	body, contentType, err := multipartPayload(nil, "image", imageName, image)
	if err != nil {
		return analysis.Result{}, err
	}

	var out analysis.Result
	if err := c.post(ctx, "/api/flood-analyze", contentType, body, &out); err != nil {
		return analysis.Result{}, err
	}
	out.ImageURL = c.AbsoluteURL(out.ImageURL)
	return out, nil
}

// MyReports fetches reports matching the cached identity. At least one of the
// two values must be non-empty; the server rejects the call otherwise.
func (c *Client) MyReports(ctx context.Context, reporterName, contactNumber string) ([]models.FloodReport, error) {
	q := url.Values{}
	if reporterName != "" {
		q.Set("reporterName", reporterName)
	}
	if contactNumber != "" {
		q.Set("contactNumber", contactNumber)
	}

	var out models.ReportListResp
	if err := c.get(ctx, "/api/flood-reports/my-reports?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	for i := range out.Reports {
		out.Reports[i].ImageURL = c.AbsoluteURL(out.Reports[i].ImageURL)
	}
	return out.Reports, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.roundTrip(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return err
	}
	return c.roundTrip(req, out)
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.base.String(), "/") + path
}

func (c *Client) roundTrip(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			apiErr.Message = envelope.Error
		} else {
			apiErr.Message = envelope.Msg
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func multipartPayload(fields map[string]string, fileField, fileName string, file io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	fw, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
