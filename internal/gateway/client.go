package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/lexplain/internal/analysis"
	"github.com/felixgeelhaar/fortify/timeout"
)

// Document identifies an uploaded document on the backend.
type Document struct {
	Ref      string `json:"document_ref"`
	MimeType string `json:"mime_type"`
}

// Citation is a passage of the document that supports an answer.
type Citation struct {
	Text string `json:"text"`
}

// Answer is the reply to a free-form question about the document.
type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Gateway is the set of remote operations the review session depends on.
type Gateway interface {
	Upload(ctx context.Context, fileName string, data []byte) (Document, error)
	Analyze(ctx context.Context, documentRef, mimeType string) (*analysis.DocumentAnalysis, error)
	Translate(ctx context.Context, texts []string, targetLang string) ([]string, error)
	ExportChecklist(ctx context.Context, originalText string) ([]byte, error)
	Ask(ctx context.Context, question, originalText string) (Answer, error)
}

const maxResponseBytes = 16 << 20

// Client calls the analysis backend over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client

	Latency *Latency
}

func NewClient(baseURL, apiKey string, callTimeout time.Duration) *Client {
	if callTimeout <= 0 {
		callTimeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    callTimeout,
		httpClient: &http.Client{},
		Latency:    NewLatency(time.Hour),
	}
}

type reply struct {
	status int
	body   []byte
}

// Upload sends the file as multipart form field "file".
func (c *Client) Upload(ctx context.Context, fileName string, data []byte) (Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", contentTypeFor(fileName, data))
	part, err := mw.CreatePart(h)
	if err != nil {
		return Document{}, &Error{Op: OpUpload, Err: fmt.Errorf("create form part: %w", err)}
	}
	if _, err := part.Write(data); err != nil {
		return Document{}, &Error{Op: OpUpload, Err: fmt.Errorf("write form part: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return Document{}, &Error{Op: OpUpload, Err: fmt.Errorf("close form: %w", err)}
	}

	rep, err := c.call(ctx, OpUpload, "/api/upload", mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return Document{}, err
	}

	var resp uploadResponse
	if err := json.Unmarshal(rep.body, &resp); err != nil {
		return Document{}, &Error{Op: OpUpload, Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.GCSURI == "" {
		return Document{}, &Error{Op: OpUpload, Message: "response carries no document reference"}
	}
	doc := Document{Ref: resp.GCSURI, MimeType: resp.MimeType}
	if doc.MimeType == "" {
		doc.MimeType = contentTypeFor(fileName, data)
	}
	return doc, nil
}

// Analyze requests the full analysis of an uploaded document.
func (c *Client) Analyze(ctx context.Context, documentRef, mimeType string) (*analysis.DocumentAnalysis, error) {
	rep, err := c.callJSON(ctx, OpAnalyze, "/api/analyze", analyzeRequest{GCSURI: documentRef, MimeType: mimeType})
	if err != nil {
		return nil, err
	}
	a, err := decodeAnalysis(rep.body)
	if err != nil {
		return nil, &Error{Op: OpAnalyze, Err: err}
	}
	return a, nil
}

// Translate translates every entry independently. A reply whose length
// differs from the request is a protocol violation.
func (c *Client) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if texts == nil {
		texts = []string{}
	}
	rep, err := c.callJSON(ctx, OpTranslate, "/api/translate", translateRequest{Texts: texts, Target: targetLang})
	if err != nil {
		return nil, err
	}
	var resp translateResponse
	if err := json.Unmarshal(rep.body, &resp); err != nil {
		return nil, &Error{Op: OpTranslate, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(resp.TranslatedTexts) != len(texts) {
		return nil, &Error{
			Op:      OpTranslate,
			Message: "translated list length differs from request",
			Err:     &analysis.StructuralError{Want: len(texts), Got: len(resp.TranslatedTexts)},
		}
	}
	return resp.TranslatedTexts, nil
}

// ExportChecklist returns the generated checklist document as raw bytes.
func (c *Client) ExportChecklist(ctx context.Context, originalText string) ([]byte, error) {
	rep, err := c.callJSON(ctx, OpExport, "/api/export/checklist", exportRequest{TextContent: originalText})
	if err != nil {
		return nil, err
	}
	return rep.body, nil
}

// Ask sends a question together with the document text.
func (c *Client) Ask(ctx context.Context, question, originalText string) (Answer, error) {
	rep, err := c.callJSON(ctx, OpAsk, "/api/qa", askRequest{Question: question, TextContent: originalText})
	if err != nil {
		return Answer{}, err
	}
	var resp askResponse
	if err := json.Unmarshal(rep.body, &resp); err != nil {
		return Answer{}, &Error{Op: OpAsk, Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.Citations == nil {
		resp.Citations = []Citation{}
	}
	return Answer{Text: resp.Answer, Citations: resp.Citations}, nil
}

func (c *Client) callJSON(ctx context.Context, op Op, path string, payload any) (*reply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}
	return c.call(ctx, op, path, "application/json", body)
}

// call performs one POST under the per-call timeout and maps any non-2xx
// status to an *Error carrying the backend's {"error": ...} message.
func (c *Client) call(ctx context.Context, op Op, path, contentType string, body []byte) (*reply, error) {
	start := time.Now()
	t := timeout.New[*reply](timeout.Config{DefaultTimeout: c.timeout})
	rep, err := t.Execute(ctx, c.timeout, func(ctx context.Context) (*reply, error) {
		return c.post(ctx, path, contentType, body)
	})
	if err != nil {
		c.Latency.Record(op, time.Since(start), true)
		return nil, &Error{Op: op, Err: err}
	}

	if rep.status < 200 || rep.status > 299 {
		c.Latency.Record(op, time.Since(start), true)
		return nil, &Error{Op: op, StatusCode: rep.status, Message: errorMessage(rep)}
	}
	c.Latency.Record(op, time.Since(start), false)
	return rep, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body []byte) (*reply, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &reply{status: resp.StatusCode, body: respBody}, nil
}

func errorMessage(rep *reply) string {
	var e errorResponse
	if err := json.Unmarshal(rep.body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	if len(rep.body) > 0 {
		return string(rep.body)
	}
	return http.StatusText(rep.status)
}

func contentTypeFor(fileName string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

var _ Gateway = (*Client)(nil)
