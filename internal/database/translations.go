package database

import (
	"context"
	"encoding/json"
	"fmt"
	neturl "net/url"
	"strings"

	"github.com/zenhub-store/devportal/internal/translations"
)

// TranslationRepo loads per-language app overrides from the
// app_translations table.
type TranslationRepo struct {
	client *Client
}

// NewTranslationRepo creates the repository over a Supabase client.
func NewTranslationRepo(client *Client) *TranslationRepo {
	return &TranslationRepo{client: client}
}

// ListForApps returns the overrides for the given app IDs in the given
// language, in the order the backend returned them.
func (r *TranslationRepo) ListForApps(ctx context.Context, appIDs []string, lang string) ([]translations.Override, error) {
	if len(appIDs) == 0 {
		return nil, nil
	}

	escaped := make([]string, len(appIDs))
	for i, id := range appIDs {
		escaped[i] = neturl.QueryEscape(id)
	}
	query := "select=*&app_id=in.(" + strings.Join(escaped, ",") + ")&lang=eq." + neturl.QueryEscape(lang)

	data, err := r.client.Select(ctx, "app_translations", query)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}

	var rows []translations.Override
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	return rows, nil
}
