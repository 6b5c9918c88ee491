package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	neturl "net/url"
	"time"
)

// Developer account application statuses.
const (
	DevAccountStatusPending  = "pending"
	DevAccountStatusApproved = "approved"
	DevAccountStatusRejected = "rejected"
)

// DevAccount is a row in the dev_accounts table.
type DevAccount struct {
	ID            string    `json:"id,omitempty"`
	UserID        string    `json:"user_id"`
	OrgName       string    `json:"org_name"`
	Slug          string    `json:"slug,omitempty"`
	Website       string    `json:"website"`
	ContactEmail  string    `json:"contact_email"`
	GithubURL     string    `json:"github_url"`
	LegalAddress  string    `json:"legal_address"`
	TaxIdentifier string    `json:"tax_identifier"`
	Phone         string    `json:"phone"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Sentinel errors for the dev_accounts repository.
var (
	ErrAccountNotFound = errors.New("developer account not found")
	ErrAccountExists   = errors.New("developer account already exists")
)

// DevAccountRepo implements the developer-account operations the wizard
// depends on.
type DevAccountRepo struct {
	client *Client
}

// NewDevAccountRepo creates the repository over a Supabase client.
func NewDevAccountRepo(client *Client) *DevAccountRepo {
	return &DevAccountRepo{client: client}
}

// SlugExists reports whether a developer account already claims the slug.
func (r *DevAccountRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := "select=id&slug=eq." + neturl.QueryEscape(slug) + "&limit=1"
	data, err := r.client.Select(ctx, "dev_accounts", query)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, fmt.Errorf("decode slug check: %w", err)
	}
	return len(rows) > 0, nil
}

// FindByUser returns the account owned by userID, or ErrAccountNotFound.
func (r *DevAccountRepo) FindByUser(ctx context.Context, userID string) (DevAccount, error) {
	query := "select=*&user_id=eq." + neturl.QueryEscape(userID) + "&limit=1"
	data, err := r.client.Select(ctx, "dev_accounts", query)
	if err != nil {
		return DevAccount{}, fmt.Errorf("find account: %w", err)
	}

	var rows []DevAccount
	if err := json.Unmarshal(data, &rows); err != nil {
		return DevAccount{}, fmt.Errorf("decode account: %w", err)
	}
	if len(rows) == 0 {
		return DevAccount{}, ErrAccountNotFound
	}
	return rows[0], nil
}

// Create inserts a new developer-account application. A uniqueness
// conflict on the user or slug maps to ErrAccountExists.
func (r *DevAccountRepo) Create(ctx context.Context, account DevAccount) (DevAccount, error) {
	if account.Status == "" {
		account.Status = DevAccountStatusPending
	}

	data, err := r.client.Insert(ctx, "dev_accounts", account)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return DevAccount{}, ErrAccountExists
		}
		return DevAccount{}, fmt.Errorf("create account: %w", err)
	}

	var rows []DevAccount
	if err := json.Unmarshal(data, &rows); err != nil {
		return DevAccount{}, fmt.Errorf("decode created account: %w", err)
	}
	if len(rows) == 0 {
		return DevAccount{}, fmt.Errorf("create account: empty representation")
	}
	return rows[0], nil
}
