package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/enquiry-console/internal/api/dto"
	"github.com/spec-kit/enquiry-console/internal/domain"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// Client talks to the enquiry backend's JSON API. One Client implements the
// enquiry, handler and client collaborators.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for baseURL authenticating with a bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Enquiries returns the client as an EnquiryService.
func (c *Client) Enquiries() EnquiryService { return enquiryAPI{c} }

// Handlers returns the client as a HandlerService.
func (c *Client) Handlers() HandlerService { return handlerAPI{c} }

// Clients returns the client as a ClientService.
func (c *Client) Clients() ClientService { return clientAPI{c} }

// Ping checks that the backend answers its liveness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/live", nil, nil)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(fmt.Errorf("encode %s %s: %w", method, path, err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewUpstreamUnavailable(err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.NewUpstreamUnavailable(fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return apperrors.NewUpstreamUnavailable(fmt.Errorf("decode %s %s: %w", method, path, err))
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if env.Error == nil {
			return apperrors.NewDomainError("UPSTREAM_REJECTED", http.StatusText(resp.StatusCode), resp.StatusCode, nil)
		}
		return apperrors.NewDomainError(env.Error.Code, env.Error.Message, resp.StatusCode, env.Error.Details)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.NewUpstreamUnavailable(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

type enquiryAPI struct{ c *Client }

func (a enquiryAPI) ListAll(ctx context.Context) ([]*domain.Lead, error) {
	var items []dto.EnquiryResponse
	if err := a.c.do(ctx, http.MethodGet, "/enquiries", nil, &items); err != nil {
		return nil, err
	}
	leads := make([]*domain.Lead, 0, len(items))
	for _, item := range items {
		leads = append(leads, item.ToDomain())
	}
	return leads, nil
}

func (a enquiryAPI) Create(ctx context.Context, fields CreateFields) (*domain.Lead, error) {
	req := dto.CreateEnquiryRequest{
		ContactName:      fields.ContactName,
		Phone:            fields.Phone,
		Source:           string(fields.Source),
		Disposition:      fields.Disposition,
		BusinessName:     fields.BusinessName,
		Notes:            fields.Notes,
		SecondaryContact: fields.SecondaryContact,
	}
	var out dto.EnquiryResponse
	if err := a.c.do(ctx, http.MethodPost, "/enquiries", req, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

func (a enquiryAPI) Update(ctx context.Context, id string, fields UpdateFields) (*domain.Lead, error) {
	req := dto.UpdateEnquiryRequest{
		Disposition:        fields.Disposition,
		BusinessName:       fields.BusinessName,
		Notes:              fields.Notes,
		SecondaryContact:   fields.SecondaryContact,
		SuggestedHandlerID: fields.SuggestedHandlerID,
	}
	if fields.Handler != nil {
		handler := fields.Handler.String()
		req.Handler = &handler
	}
	var out dto.EnquiryResponse
	if err := a.c.do(ctx, http.MethodPatch, "/enquiries/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

func (a enquiryAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/enquiries/"+url.PathEscape(id), nil, nil)
}

type handlerAPI struct{ c *Client }

func (a handlerAPI) ListAll(ctx context.Context) ([]domain.Handler, error) {
	var items []dto.HandlerResponse
	if err := a.c.do(ctx, http.MethodGet, "/handlers", nil, &items); err != nil {
		return nil, err
	}
	out := make([]domain.Handler, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToDomain())
	}
	return out, nil
}

type clientAPI struct{ c *Client }

func (a clientAPI) ListAll(ctx context.Context) ([]domain.Client, error) {
	var items []dto.ClientResponse
	if err := a.c.do(ctx, http.MethodGet, "/clients", nil, &items); err != nil {
		return nil, err
	}
	out := make([]domain.Client, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToDomain())
	}
	return out, nil
}
