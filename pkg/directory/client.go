package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

// maximum identity length the backing API accepts on writes.
const maxIdentityLen = 32

// Config holds the connection settings for the real directory service.
type Config struct {
	URL      string
	Username string
	Password string
	// Lang is sent with every request; defaults to "en".
	Lang string
	// RegionType filters ListRegions; defaults to "District".
	RegionType string
}

// Client implements ports.Directory against the HTTP directory service.
type Client struct {
	http       *http.Client
	base       string
	username   string
	password   string
	lang       string
	regionType string
	logger     *slog.Logger
}

var _ ports.Directory = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// WithClientLogger sets a structured logger for the client.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a directory client for the given service.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		http:       &http.Client{Timeout: 10 * time.Second},
		base:       strings.TrimSuffix(cfg.URL, "/") + "/",
		username:   cfg.Username,
		password:   cfg.Password,
		lang:       cfg.Lang,
		regionType: cfg.RegionType,
		logger:     logging.NewNop(),
	}
	if c.lang == "" {
		c.lang = "en"
	}
	if c.regionType == "" {
		c.regionType = "District"
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// param is one query parameter. Parameters are encoded in insertion order,
// never re-sorted.
type param struct {
	key   string
	value string
}

func encodeParams(ps []param) string {
	items := make([]string, 0, len(ps))
	for _, p := range ps {
		items = append(items, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return strings.Join(items, "&")
}

// apiStatus is embedded in every response envelope.
type apiStatus struct {
	Status int `json:"status"`
}

func (s apiStatus) code() int { return s.Status }

type statusCarrier interface {
	code() int
}

// get performs a GET request and decodes the envelope into out.
func (c *Client) get(ctx context.Context, cmd string, ps []param, out statusCarrier) error {
	u := c.base + cmd
	if q := encodeParams(ps); q != "" {
		u += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	_, err = c.do(req, u, http.MethodGet, nil, false, out)
	return err
}

// post performs a POST request with a JSON body. When ignoreError is set,
// an API failure is logged and reported as ok=false with a nil error
// instead of raising.
func (c *Client) post(ctx context.Context, cmd string, payload any, ignoreError bool, out statusCarrier) (bool, error) {
	u := c.base + cmd
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, u, http.MethodPost, body, ignoreError, out)
}

// do executes the request and classifies the reply. A reply is accepted
// only when the transport succeeds, the HTTP status is 200 AND the decoded
// body's status field equals 0; any other combination is an *Error.
func (c *Client) do(req *http.Request, u, method string, body []byte, ignoreError bool, out statusCarrier) (bool, error) {
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	fail := func(reason string) (bool, error) {
		msg := fmt.Sprintf("directory API %s to %s failed: %s", method, u, reason)
		if body != nil {
			msg += "; data: " + string(body)
		}
		c.logger.Warn(msg)
		if ignoreError {
			return false, nil
		}
		return false, &Error{msg: msg}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return fail(resp.Status)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fail(err.Error())
	}
	if out.code() != 0 {
		return fail(fmt.Sprintf("API did not return status OK (got %d instead)", out.code()))
	}
	return true, nil
}

// Response envelopes. The service mixes numeric and string IDs; EntryID
// absorbs both.

type category struct {
	ID                 domain.EntryID  `json:"id"`
	Title              string          `json:"title"`
	ShortTitle         string          `json:"short_title"`
	ParentID           *domain.EntryID `json:"parent_specialty_id"`
	QuerySubcategories bool            `json:"is_query_subspecialties"`
}

type categoriesResponse struct {
	apiStatus
	Categories []category `json:"specialties"`
}

type regionsResponse struct {
	apiStatus
	Regions []struct {
		ID    domain.EntryID `json:"id"`
		Title string         `json:"title"`
	} `json:"regions"`
}

type facilityTypesResponse struct {
	apiStatus
	FacilityTypes []struct {
		ID    domain.EntryID `json:"id"`
		Title string         `json:"title"`
	} `json:"facility_types"`
}

type facility struct {
	ID     domain.EntryID `json:"id"`
	Title  string         `json:"title"`
	Region *struct {
		Title string `json:"title"`
	} `json:"region"`
}

type facilitiesResponse struct {
	apiStatus
	Facilities []facility `json:"facilities"`
}

type submitResponse struct {
	apiStatus
	ID domain.EntryID `json:"id"`
}

type memberResponse struct {
	apiStatus
	InCUG string `json:"in_cug"`
}

func (c *category) displayTitle() string {
	if c.ShortTitle != "" {
		return c.ShortTitle
	}
	return c.Title
}

// ListCategories returns the top-level categories (entries with no parent).
func (c *Client) ListCategories(ctx context.Context) ([]domain.DirectoryEntry, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "specialties", []param{{"lang", c.lang}}, &resp); err != nil {
		return nil, err
	}
	var out []domain.DirectoryEntry
	for _, s := range resp.Categories {
		if s.ParentID != nil {
			continue
		}
		out = append(out, domain.DirectoryEntry{ID: s.ID, Title: cleanTitle(s.displayTitle())})
	}
	return out, nil
}

// ListSubcategories returns the categories whose parent equals categoryID.
func (c *Client) ListSubcategories(ctx context.Context, categoryID domain.EntryID) ([]domain.DirectoryEntry, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "specialties", []param{{"lang", c.lang}}, &resp); err != nil {
		return nil, err
	}
	var out []domain.DirectoryEntry
	for _, s := range resp.Categories {
		if s.ParentID == nil || *s.ParentID != categoryID {
			continue
		}
		out = append(out, domain.DirectoryEntry{ID: s.ID, Title: cleanTitle(s.displayTitle())})
	}
	return out, nil
}

// HasSubcategories reports whether the category expects a subcategory
// selection. Unknown categories report false.
func (c *Client) HasSubcategories(ctx context.Context, categoryID domain.EntryID) (bool, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "specialties", []param{{"lang", c.lang}}, &resp); err != nil {
		return false, err
	}
	for _, s := range resp.Categories {
		if s.ID == categoryID {
			return s.QuerySubcategories, nil
		}
	}
	return false, nil
}

// ListRegions returns regions of the configured type, optionally filtered
// by a free-text title match.
func (c *Client) ListRegions(ctx context.Context, query string) ([]domain.DirectoryEntry, error) {
	var resp regionsResponse
	ps := []param{
		{"type", c.regionType},
		{"title", query},
		{"lang", c.lang},
	}
	if err := c.get(ctx, "regions", ps, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.DirectoryEntry, 0, len(resp.Regions))
	for _, r := range resp.Regions {
		out = append(out, domain.DirectoryEntry{ID: r.ID, Title: cleanTitle(r.Title)})
	}
	return out, nil
}

// ListFacilityTypes returns the known facility types.
func (c *Client) ListFacilityTypes(ctx context.Context) ([]domain.DirectoryEntry, error) {
	var resp facilityTypesResponse
	if err := c.get(ctx, "facility-types", []param{{"lang", c.lang}}, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.DirectoryEntry, 0, len(resp.FacilityTypes))
	for _, f := range resp.FacilityTypes {
		out = append(out, domain.DirectoryEntry{ID: f.ID, Title: cleanTitle(f.Title)})
	}
	return out, nil
}

// ListFacilities returns facilities filtered by region and/or type (either
// may be empty) and query, with ambiguous titles disambiguated by region.
func (c *Client) ListFacilities(ctx context.Context, regionID, typeID domain.EntryID, query string) ([]domain.DirectoryEntry, error) {
	ps := []param{
		{"title", query},
		{"lang", c.lang},
	}
	if regionID != "" {
		ps = append(ps, param{"region", regionID.String()})
	}
	if typeID != "" {
		ps = append(ps, param{"type", typeID.String()})
	}

	var resp facilitiesResponse
	if err := c.get(ctx, "facilities", ps, &resp); err != nil {
		return nil, err
	}

	deduplicateFacilities(resp.Facilities)

	out := make([]domain.DirectoryEntry, 0, len(resp.Facilities))
	for _, f := range resp.Facilities {
		out = append(out, domain.DirectoryEntry{ID: f.ID, Title: cleanTitle(f.Title)})
	}
	return out, nil
}

// SubmitUnknownCategory proposes a missing category. Tolerant write: API
// failure resolves to a zero ID, not an error, because the backing API
// does not yet accept duplicates idempotently.
func (c *Client) SubmitUnknownCategory(ctx context.Context, identity, name string) (domain.EntryID, error) {
	payload := map[string]any{
		"msisdn":           truncateIdentity(identity),
		"title":            name,
		"parent_specialty": nil,
		"lang":             c.lang,
	}
	var resp submitResponse
	ok, err := c.post(ctx, "specialties", payload, true, &resp)
	if err != nil || !ok {
		return "", err
	}
	return resp.ID, nil
}

// SubmitUnknownFacility proposes a missing facility. Tolerant write, same
// contract as SubmitUnknownCategory.
func (c *Client) SubmitUnknownFacility(ctx context.Context, identity, name string, regionID, typeID domain.EntryID) (domain.EntryID, error) {
	payload := map[string]any{
		"msisdn":  truncateIdentity(identity),
		"title":   name,
		"region":  regionID,
		"type":    typeID,
		"address": nil,
		"lang":    c.lang,
	}
	var resp submitResponse
	ok, err := c.post(ctx, "facilities", payload, true, &resp)
	if err != nil || !ok {
		return "", err
	}
	return resp.ID, nil
}

// CheckMemberNumber looks a number up in the closed user group. Tolerant:
// a nil status means the lookup was unavailable.
func (c *Client) CheckMemberNumber(ctx context.Context, number string) (*domain.MemberStatus, error) {
	payload := map[string]any{
		"search_number": number,
		"lang":          c.lang,
	}
	var resp memberResponse
	ok, err := c.post(ctx, "in_cug", payload, true, &resp)
	if err != nil || !ok {
		return nil, err
	}
	return &domain.MemberStatus{InGroup: resp.InCUG == "1"}, nil
}

// RegisterIdentity enrolls an identity. Non-tolerant: failure propagates
// as *Error with the request payload in the message.
func (c *Client) RegisterIdentity(ctx context.Context, reg domain.Registration) error {
	payload := map[string]any{
		"name":          reg.FullName,
		"surname":       reg.Surname,
		"firstname":     reg.FirstName,
		"specialties":   reg.Specialties,
		"country":       reg.Country,
		"vodacom_phone": reg.Identity,
		"language":      c.lang,
	}
	if reg.Specialties == nil {
		payload["specialties"] = []domain.EntryID{}
	}
	if reg.RegistrationNumber != "" {
		payload["mct_registration_number"] = reg.RegistrationNumber
	}
	if reg.Facility != "" {
		payload["facility"] = reg.Facility
	}
	var resp submitResponse
	_, err := c.post(ctx, "health-workers", payload, false, &resp)
	return err
}

// UpdateProfileField updates one field of an enrolled record. Tolerant:
// false with nil error means the write was dropped.
func (c *Client) UpdateProfileField(ctx context.Context, identity, field, value string) (bool, error) {
	payload := map[string]any{
		"data_field": field,
		"new_value":  value,
		"msisdn":     truncateIdentity(identity),
		"lang":       c.lang,
	}
	var resp submitResponse
	ok, err := c.post(ctx, "update_profile", payload, true, &resp)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func truncateIdentity(identity string) string {
	if len(identity) > maxIdentityLen {
		return identity[:maxIdentityLen]
	}
	return identity
}
