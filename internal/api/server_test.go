package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenhub-store/devportal/internal/config"
	"github.com/zenhub-store/devportal/internal/onboarding"
	"github.com/zenhub-store/devportal/internal/translations"
)

const testSecret = "test-secret"

type apiFixture struct {
	server    *Server
	directory *onboarding.MemoryDirectory
	lookup    *translations.MemoryLookup
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.JWTSecret = testSecret
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	directory := onboarding.NewMemoryDirectory()
	lookup := translations.NewMemoryLookup()
	return &apiFixture{
		server:    NewServer(cfg, directory, lookup, nil),
		directory: directory,
		lookup:    lookup,
	}
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func validSubmission() map[string]any {
	return map[string]any{
		"org_name":       "Acme Corp",
		"type":           "official",
		"tax_identifier": "1234567890",
		"phone_country":  "+7",
		"phone_number":   "9991234567",
		"phone_verified": true,
		"contact_email":  "dev@acme.io",
		"legal_address":  "1 Main St",
	}
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestSubmitCreatesPendingAccount(t *testing.T) {
	f := newAPIFixture(t)
	token := bearerToken(t, "user-1")

	rec := f.do(t, http.MethodPost, "/v1/dev-accounts", token, validSubmission())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "pending", resp["status"])

	app, ok := f.directory.Account("user-1")
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", app.OrgName)
	assert.Equal(t, "+79991234567", app.Phone)
	assert.Equal(t, "1 Main St", app.LegalAddress)
	assert.Equal(t, "pending", app.Status)
}

func TestSubmitRequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/dev-accounts", "", validSubmission())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/dev-accounts", "Bearer not-a-token", validSubmission())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitValidation(t *testing.T) {
	f := newAPIFixture(t)
	token := bearerToken(t, "user-1")

	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing org name", func(m map[string]any) { m["org_name"] = "" }, "org_name"},
		{"non latin org name", func(m map[string]any) { m["org_name"] = "Акме" }, "org_name"},
		{"official without tax id", func(m map[string]any) { m["tax_identifier"] = "" }, "tax_identifier"},
		{"missing phone", func(m map[string]any) { m["phone_number"] = "" }, "phone_number"},
		{"unverified phone", func(m map[string]any) { m["phone_verified"] = false }, "phone_number"},
		{"bad email", func(m map[string]any) { m["contact_email"] = "not-an-email" }, "contact_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validSubmission()
			tt.mutate(body)

			rec := f.do(t, http.MethodPost, "/v1/dev-accounts", token, body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

			var resp fieldError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.field, resp.Field)
		})
	}
}

func TestSubmitIndividualSkipsTaxIdentifier(t *testing.T) {
	f := newAPIFixture(t)
	token := bearerToken(t, "user-1")

	body := validSubmission()
	body["type"] = "individual"
	body["tax_identifier"] = ""

	rec := f.do(t, http.MethodPost, "/v1/dev-accounts", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	app, ok := f.directory.Account("user-1")
	require.True(t, ok)
	// Legal address only applies to registered organizations.
	assert.Empty(t, app.LegalAddress)
}

func TestSubmitTakenSlugRejected(t *testing.T) {
	f := newAPIFixture(t)
	f.directory.AddSlug("acmecorp")
	token := bearerToken(t, "user-1")

	rec := f.do(t, http.MethodPost, "/v1/dev-accounts", token, validSubmission())
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp fieldError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "org_name", resp.Field)
}

func TestSubmitConflict(t *testing.T) {
	f := newAPIFixture(t)
	f.directory.AddAccount("user-1")
	token := bearerToken(t, "user-1")

	rec := f.do(t, http.MethodPost, "/v1/dev-accounts", token, validSubmission())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSlugCheck(t *testing.T) {
	f := newAPIFixture(t)
	f.directory.AddSlug("acme")

	rec := f.do(t, http.MethodGet, "/v1/dev-accounts/slug-check?slug=Acme", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Slug      string `json:"slug"`
		Available bool   `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acme", resp.Slug)
	assert.False(t, resp.Available)

	rec = f.do(t, http.MethodGet, "/v1/dev-accounts/slug-check?slug=fresh", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
}

func TestSlugCheckRequiresSlug(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/dev-accounts/slug-check", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlugCheckBackendFailure(t *testing.T) {
	f := newAPIFixture(t)
	f.directory.FailSlugChecks(errors.New("backend down"))

	rec := f.do(t, http.MethodGet, "/v1/dev-accounts/slug-check?slug=acme", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCountryCodes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/country-codes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Default string                   `json:"default"`
		Codes   []onboarding.CountryCode `json:"codes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "+7", resp.Default)
	assert.NotEmpty(t, resp.Codes)
}

func TestVerificationLink(t *testing.T) {
	f := newAPIFixture(t)
	token := bearerToken(t, "user-1")

	rec := f.do(t, http.MethodGet, "/v1/dev-accounts/verification-link?phone=999%20123-45-67", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tg://resolve?domain=zenhub_verifier_bot&start=%2B79991234567", resp["deep_link"])
	assert.Equal(t, "https://t.me/zenhub_verifier_bot?start=%2B79991234567", resp["web_link"])

	rec = f.do(t, http.MethodGet, "/v1/dev-accounts/verification-link", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranslations(t *testing.T) {
	f := newAPIFixture(t)
	f.lookup.SetOverrides(translations.Override{
		AppID:   "app-1",
		Lang:    "ru",
		Tagline: "Переведено",
	})

	rec := f.do(t, http.MethodGet, "/v1/apps/translations?ids=app-1,app-2&lang=ru", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Lang      string                  `json:"lang"`
		Overrides []translations.Override `json:"overrides"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ru", resp.Lang)
	require.Len(t, resp.Overrides, 1)
	assert.Equal(t, "Переведено", resp.Overrides[0].Tagline)
}

func TestTranslationsEmptyGroupSkipsLookup(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/apps/translations?lang=ru", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.lookup.Calls())
}
