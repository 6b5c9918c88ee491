// Package translations implements the per-language overlay model for
// catalog entries: a base app row plus optional override records, merged
// into the localized view the storefront renders.
package translations

// Override supplies localized text for one app in one language. All text
// fields are optional; an empty field never overrides base content.
type Override struct {
	ID          string `json:"id,omitempty"`
	AppID       string `json:"app_id"`
	Lang        string `json:"lang"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
	WhatsNew    string `json:"whats_new,omitempty"`
}

// Base is the language-independent part of a catalog entry. Name and
// Description may be empty for apps whose content lives entirely in
// overrides; Slug is the last-resort placeholder for both.
type Base struct {
	ID          string
	Slug        string
	Name        string
	Description string
}

// LocalizedView is the effective projection of a base entry for one
// language.
type LocalizedView struct {
	AppID           string
	Name            string
	Tagline         string
	Description     string
	FullDescription string
	WhatsNew        string
}

// Project merges base with the first override matching (base.ID, lang).
// Each override field applies only when non-empty; otherwise the base
// value is kept, with the slug standing in when the base has no content
// either. Project never mutates its inputs and is safe to re-run on every
// language switch.
func Project(base Base, overrides []Override, lang string) LocalizedView {
	var match *Override
	for i := range overrides {
		if overrides[i].AppID == base.ID && overrides[i].Lang == lang {
			match = &overrides[i]
			break
		}
	}

	view := LocalizedView{AppID: base.ID}

	name := base.Name
	if name == "" {
		name = base.Slug
	}
	desc := base.Description
	if desc == "" {
		desc = base.Slug
	}

	if match != nil {
		if match.Tagline != "" {
			view.Tagline = match.Tagline
			name = match.Tagline
		}
		if match.Description != "" {
			desc = match.Description
		}
		if match.WhatsNew != "" {
			view.WhatsNew = match.WhatsNew
		}
	}

	view.Name = name
	view.Description = desc
	view.FullDescription = desc
	return view
}

// ProjectAll projects every base entry against the same override set.
func ProjectAll(bases []Base, overrides []Override, lang string) []LocalizedView {
	views := make([]LocalizedView, len(bases))
	for i, base := range bases {
		views[i] = Project(base, overrides, lang)
	}
	return views
}
