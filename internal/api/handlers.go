package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/zenhub-store/devportal/internal/httputil"
	"github.com/zenhub-store/devportal/internal/middleware"
	"github.com/zenhub-store/devportal/internal/onboarding"
)

const maxBodyBytes = 1 << 20

// submitRequest is the wire form of a completed onboarding draft.
type submitRequest struct {
	OrgName       string `json:"org_name"`
	TaxIdentifier string `json:"tax_identifier"`
	Website       string `json:"website"`
	ContactEmail  string `json:"contact_email"`
	GithubURL     string `json:"github_url"`
	LegalAddress  string `json:"legal_address"`
	Type          string `json:"type"`
	PhoneCountry  string `json:"phone_country"`
	PhoneNumber   string `json:"phone_number"`
	PhoneVerified bool   `json:"phone_verified"`
}

func (r submitRequest) draft() onboarding.Draft {
	d := onboarding.DefaultDraft()
	d.OrgName = r.OrgName
	d.TaxIdentifier = r.TaxIdentifier
	d.Website = r.Website
	d.ContactEmail = r.ContactEmail
	d.GithubURL = r.GithubURL
	d.LegalAddress = r.LegalAddress
	if r.Type != "" {
		d.Type = onboarding.AccountType(r.Type)
	}
	if r.PhoneCountry != "" {
		d.PhoneCountry = r.PhoneCountry
	}
	d.PhoneNumber = onboarding.CleanPhone(r.PhoneNumber)
	d.PhoneDisplay = onboarding.FormatPhone(d.PhoneNumber)
	return d
}

type fieldError struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	body, err := httputil.ReadAllStrict(r.Body, maxBodyBytes)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "request body unreadable or too large")
		return
	}
	var req submitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	draft := req.draft()
	slugTaken := false
	if slug := onboarding.GenerateSlug(draft.OrgName); slug != "" {
		taken, err := s.directory.SlugExists(r.Context(), slug)
		if err != nil {
			s.metrics.SlugProbes.WithLabelValues("error").Inc()
			s.log.WithError(err).Warn("slug check failed during submit")
			httputil.WriteError(w, http.StatusBadGateway, "slug availability check failed")
			return
		}
		s.metrics.SlugProbes.WithLabelValues(probeOutcome(taken)).Inc()
		slugTaken = taken
	}

	if verr := onboarding.ValidateDraft(draft, req.PhoneVerified, slugTaken); verr != nil {
		s.metrics.Submissions.WithLabelValues("invalid").Inc()
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, fieldError{Error: verr.Message, Field: verr.Field})
		return
	}

	exists, err := s.directory.HasAccount(r.Context(), userID)
	if err != nil {
		s.metrics.Submissions.WithLabelValues("error").Inc()
		s.log.WithError(err).Error("account lookup failed")
		httputil.WriteError(w, http.StatusBadGateway, "account lookup failed")
		return
	}
	if exists {
		s.metrics.Submissions.WithLabelValues("conflict").Inc()
		httputil.WriteError(w, http.StatusConflict, "developer account already exists")
		return
	}

	app := onboarding.Application{
		UserID:        userID,
		OrgName:       draft.OrgName,
		Website:       draft.Website,
		ContactEmail:  draft.ContactEmail,
		GithubURL:     draft.GithubURL,
		TaxIdentifier: draft.TaxIdentifier,
		Phone:         draft.FullPhone(),
		Status:        onboarding.StatusPending,
	}
	if draft.Type == onboarding.AccountTypeOfficial {
		app.LegalAddress = draft.LegalAddress
	}

	id, err := s.directory.CreateAccount(r.Context(), app)
	if err != nil {
		if errors.Is(err, onboarding.ErrAccountExists) {
			s.metrics.Submissions.WithLabelValues("conflict").Inc()
			httputil.WriteError(w, http.StatusConflict, "developer account already exists")
			return
		}
		s.metrics.Submissions.WithLabelValues("error").Inc()
		s.log.WithError(err).Error("account creation failed")
		httputil.WriteError(w, http.StatusBadGateway, "account creation failed")
		return
	}

	s.metrics.Submissions.WithLabelValues("accepted").Inc()
	s.log.WithField("account_id", id).WithField("user_id", userID).Info("developer account submitted")
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"id":     id,
		"status": onboarding.StatusPending,
	})
}

func (s *Server) handleSlugCheck(w http.ResponseWriter, r *http.Request) {
	slug := onboarding.GenerateSlug(r.URL.Query().Get("slug"))
	if slug == "" {
		httputil.WriteError(w, http.StatusBadRequest, "slug query parameter is required")
		return
	}

	taken, err := s.directory.SlugExists(r.Context(), slug)
	if err != nil {
		s.metrics.SlugProbes.WithLabelValues("error").Inc()
		s.log.WithError(err).Warn("slug check failed")
		httputil.WriteError(w, http.StatusBadGateway, "slug availability check failed")
		return
	}

	s.metrics.SlugProbes.WithLabelValues(probeOutcome(taken)).Inc()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"slug":      slug,
		"available": !taken,
	})
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}

	var appIDs []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			appIDs = append(appIDs, id)
		}
	}
	if len(appIDs) == 0 {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"lang": lang, "overrides": []any{}})
		return
	}

	overrides, err := s.overrides.ListForApps(r.Context(), appIDs, lang)
	if err != nil {
		s.log.WithError(err).WithField("lang", lang).Error("translation lookup failed")
		httputil.WriteError(w, http.StatusBadGateway, "translation lookup failed")
		return
	}

	s.metrics.Translations.Inc()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"lang":      lang,
		"overrides": overrides,
	})
}

func (s *Server) handleCountryCodes(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"default": onboarding.DefaultPhoneCountry,
		"codes":   onboarding.CountryCodes,
	})
}

func (s *Server) handleVerificationLink(w http.ResponseWriter, r *http.Request) {
	phone := onboarding.CleanPhone(r.URL.Query().Get("phone"))
	if phone == "" {
		httputil.WriteError(w, http.StatusBadRequest, "phone query parameter is required")
		return
	}
	country := r.URL.Query().Get("country")
	if country == "" {
		country = onboarding.DefaultPhoneCountry
	}

	links := onboarding.BuildVerificationLinks(s.cfg.Verification.Bot, country+phone)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"deep_link": links.DeepLink,
		"web_link":  links.WebLink,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "devportal",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func probeOutcome(taken bool) string {
	if taken {
		return "taken"
	}
	return "available"
}
