package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/zenhub-store/devportal/internal/onboarding"
)

// DirectoryAdapter exposes the dev_accounts repository through the
// onboarding.Directory interface, translating repository sentinels into
// the wizard's.
type DirectoryAdapter struct {
	repo *DevAccountRepo
}

// NewDirectoryAdapter wraps the repository.
func NewDirectoryAdapter(repo *DevAccountRepo) *DirectoryAdapter {
	return &DirectoryAdapter{repo: repo}
}

func (a *DirectoryAdapter) SlugExists(ctx context.Context, slug string) (bool, error) {
	return a.repo.SlugExists(ctx, slug)
}

func (a *DirectoryAdapter) HasAccount(ctx context.Context, userID string) (bool, error) {
	_, err := a.repo.FindByUser(ctx, userID)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (a *DirectoryAdapter) CreateAccount(ctx context.Context, app onboarding.Application) (string, error) {
	created, err := a.repo.Create(ctx, DevAccount{
		UserID:        app.UserID,
		OrgName:       app.OrgName,
		Slug:          onboarding.GenerateSlug(app.OrgName),
		Website:       app.Website,
		ContactEmail:  app.ContactEmail,
		GithubURL:     app.GithubURL,
		LegalAddress:  app.LegalAddress,
		TaxIdentifier: app.TaxIdentifier,
		Phone:         app.Phone,
		Status:        app.Status,
	})
	if errors.Is(err, ErrAccountExists) {
		return "", onboarding.ErrAccountExists
	}
	if err != nil {
		return "", fmt.Errorf("create developer account: %w", err)
	}
	return created.ID, nil
}
