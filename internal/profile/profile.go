package profile

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by stores when no profile has the requested id.
var ErrNotFound = errors.New("profile not found")

// Profile is a stored user profile.
type Profile struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Bio         string    `json:"bio" yaml:"bio"`
	Skills      []string  `json:"skills" yaml:"skills"`
	Interests   []string  `json:"interests" yaml:"interests"`
	GitHubURL   string    `json:"github_url,omitempty" yaml:"github_url,omitempty"`
	LinkedInURL string    `json:"linkedin_url,omitempty" yaml:"linkedin_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Normalize replaces missing lists with empty ones so that records read from
// storage or decoded from partial JSON are safe to use.
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
}

// Match is a profile annotated with a relevance score and a short explanation.
type Match struct {
	Profile
	Score       int    `json:"score"`
	MatchReason string `json:"match_reason"`
}

// Input is the payload used to create a profile.
type Input struct {
	Name        string   `json:"name" yaml:"name"`
	Bio         string   `json:"bio" yaml:"bio"`
	Skills      []string `json:"skills" yaml:"skills"`
	Interests   []string `json:"interests" yaml:"interests"`
	GitHubURL   string   `json:"github_url,omitempty" yaml:"github_url"`
	LinkedInURL string   `json:"linkedin_url,omitempty" yaml:"linkedin_url"`
}

// Validate reports every missing required field at once.
func (in Input) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(in.Bio) == "" {
		errs = append(errs, errors.New("bio is required"))
	}
	return errors.Join(errs...)
}

// New builds a profile from the input. The caller supplies the id and the
// creation time so stores control both.
func New(id string, in Input, now time.Time) Profile {
	p := Profile{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Bio:         strings.TrimSpace(in.Bio),
		Skills:      cleanList(in.Skills),
		Interests:   cleanList(in.Interests),
		GitHubURL:   strings.TrimSpace(in.GitHubURL),
		LinkedInURL: strings.TrimSpace(in.LinkedInURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Normalize()
	return p
}

// Update is a partial update. Nil fields are left untouched.
type Update struct {
	Name        *string   `json:"name,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	Interests   *[]string `json:"interests,omitempty"`
	GitHubURL   *string   `json:"github_url,omitempty"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
}

// Validate rejects blank values for the fields that are required on create.
func (u Update) Validate() error {
	var errs []error
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if u.Bio != nil && strings.TrimSpace(*u.Bio) == "" {
		errs = append(errs, errors.New("bio must not be empty"))
	}
	return errors.Join(errs...)
}

// Apply copies the present fields onto p and bumps UpdatedAt.
func (u Update) Apply(p *Profile, now time.Time) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Bio != nil {
		p.Bio = strings.TrimSpace(*u.Bio)
	}
	if u.Skills != nil {
		p.Skills = cleanList(*u.Skills)
	}
	if u.Interests != nil {
		p.Interests = cleanList(*u.Interests)
	}
	if u.GitHubURL != nil {
		p.GitHubURL = strings.TrimSpace(*u.GitHubURL)
	}
	if u.LinkedInURL != nil {
		p.LinkedInURL = strings.TrimSpace(*u.LinkedInURL)
	}
	p.UpdatedAt = now
	p.Normalize()
}

// SplitList parses a comma separated list as typed on the command line.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
