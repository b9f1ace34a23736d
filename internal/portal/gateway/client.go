// Package gateway is the portal's typed REST client. Every operation sends
// exactly one request; there is no retry and no cache.
package gateway

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

	"hr-portal/internal/domain"

	"github.com/go-playground/validator/v10"
)

const defaultTimeout = 15 * time.Second

type record interface {
	normalize() error
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	baseURL  string
	http     *http.Client
	token    string
	validate *validator.Validate
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with every following request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if body == nil {
		return c.sendRaw(ctx, method, path, "", nil)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.sendRaw(ctx, method, path, "application/json", bytes.NewReader(payload))
}

// sendRaw sends body as is; contentType is only set when body is non-nil.
func (c *Client) sendRaw(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Type", "cli")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return resp, nil
}

// readBody returns the body of a 2xx reply, or an *APIError built from the
// error envelope.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		if env.Error.Message != "" {
			apiErr.Message = env.Error.Message
		}
	}
	return nil, apiErr
}

func (c *Client) check(r record) error {
	if err := c.validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := r.normalize(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func decodeData(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.Status != "success" || len(env.Data) == 0 {
		return fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func doOne[T any, PT interface {
	*T
	record
}](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	raw, err := readBody(resp)
	if err != nil {
		return out, err
	}
	if err := decodeData(raw, &out); err != nil {
		return out, err
	}
	if err := c.check(PT(&out)); err != nil {
		return out, err
	}
	return out, nil
}

func doList[T any, PT interface {
	*T
	record
}](ctx context.Context, c *Client, path string) ([]T, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	raw, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := decodeData(raw, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := c.check(PT(&out[i])); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, email, password string, role domain.Role) (LoginResult, error) {
	return doOne[LoginResult](ctx, c, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
		"role":     string(role),
	})
}

// Signup returns the new user id.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	res, err := doOne[signupResult](ctx, c, http.MethodPost, "/api/auth/signup", req)
	return res.UserID, err
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	_, err = readBody(resp)
	return err
}

func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	return doOne[User](ctx, c, http.MethodGet, "/api/users/"+url.PathEscape(id), nil)
}

func (c *Client) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (User, error) {
	return doOne[User](ctx, c, http.MethodPut, "/api/users/"+url.PathEscape(id), update)
}

func (c *Client) ListEmployees(ctx context.Context) ([]User, error) {
	return doList[User](ctx, c, "/api/employees")
}

func (c *Client) ListTickets(ctx context.Context) ([]Ticket, error) {
	return doList[Ticket](ctx, c, "/api/tickets")
}

func (c *Client) CreateTicket(ctx context.Context, t NewTicket) (Ticket, error) {
	return doOne[Ticket](ctx, c, http.MethodPost, "/api/tickets", t)
}

func (c *Client) UpdateTicket(ctx context.Context, id string, r Resolution) (Ticket, error) {
	return doOne[Ticket](ctx, c, http.MethodPut, "/api/tickets/"+url.PathEscape(id), r)
}

func (c *Client) ListApprovals(ctx context.Context) ([]Approval, error) {
	return doList[Approval](ctx, c, "/api/approvals")
}

func (c *Client) CreateApproval(ctx context.Context, a NewApproval) (Approval, error) {
	return doOne[Approval](ctx, c, http.MethodPost, "/api/approvals", a)
}

func (c *Client) UpdateApproval(ctx context.Context, trxID string, r Resolution) (Approval, error) {
	return doOne[Approval](ctx, c, http.MethodPut, "/api/approvals/"+url.PathEscape(trxID), r)
}

func (c *Client) ListLeaves(ctx context.Context) ([]Leave, error) {
	return doList[Leave](ctx, c, "/api/leaves")
}

func (c *Client) CreateLeave(ctx context.Context, l NewLeave) (Leave, error) {
	return doOne[Leave](ctx, c, http.MethodPost, "/api/leaves", l)
}

func (c *Client) UpdateLeave(ctx context.Context, id string, r Resolution) (Leave, error) {
	return doOne[Leave](ctx, c, http.MethodPut, "/api/leaves/"+url.PathEscape(id), r)
}

func (c *Client) ListHolidays(ctx context.Context) ([]Holiday, error) {
	return doList[Holiday](ctx, c, "/api/holidays")
}

func (c *Client) ListPayslips(ctx context.Context) ([]Payslip, error) {
	return doList[Payslip](ctx, c, "/api/payslips")
}

// DownloadPayslip returns the payslip PDF.
func (c *Client) DownloadPayslip(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/payslips/"+url.PathEscape(id)+"/pdf", nil)
	if err != nil {
		return nil, err
	}
	raw, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		return nil, fmt.Errorf("%w: not a pdf", ErrMalformedResponse)
	}
	return raw, nil
}

// ListPolicies lists policy documents, narrowed to status when it is set.
func (c *Client) ListPolicies(ctx context.Context, status string) ([]PolicyDocument, error) {
	path := "/api/policies"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	return doList[PolicyDocument](ctx, c, path)
}

// UploadPolicy sends content as a multipart form; the server keeps it as a
// draft until it is published.
func (c *Client) UploadPolicy(ctx context.Context, title, filename string, content []byte) (PolicyDocument, error) {
	var out PolicyDocument

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", title); err != nil {
		return out, fmt.Errorf("encode request: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return out, fmt.Errorf("encode request: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return out, fmt.Errorf("encode request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return out, fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.sendRaw(ctx, http.MethodPost, "/api/policies", mw.FormDataContentType(), &buf)
	if err != nil {
		return out, err
	}
	raw, err := readBody(resp)
	if err != nil {
		return out, err
	}
	if err := decodeData(raw, &out); err != nil {
		return out, err
	}
	if err := c.check(&out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) PublishPolicy(ctx context.Context, id string) (PolicyDocument, error) {
	return doOne[PolicyDocument](ctx, c, http.MethodPut, "/api/policies/"+url.PathEscape(id)+"/publish", nil)
}

// Chat posts to /chat, which answers with a bare {response} object.
func (c *Client) Chat(ctx context.Context, message, employeeID string) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, "/chat", map[string]string{
		"message":     message,
		"employee_id": employeeID,
	})
	if err != nil {
		return "", err
	}
	raw, err := readBody(resp)
	if err != nil {
		return "", err
	}
	var reply chatReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if reply.Response == "" {
		return "", fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	return reply.Response, nil
}
