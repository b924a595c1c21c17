package scorer

import "strings"

// Synonym maps a short query term to longer phrases that imply it.
// Related phrases are tried in order and the first hit wins.
type Synonym struct {
	Term    string   `mapstructure:"term" json:"term"`
	Related []string `mapstructure:"related" json:"related"`
}

// Vocabulary holds the fixed word lists the scorer matches against.
type Vocabulary struct {
	Roles           []string  `mapstructure:"roles" json:"roles"`
	Synonyms        []Synonym `mapstructure:"synonyms" json:"synonyms"`
	ExperienceQuery []string  `mapstructure:"experience-query" json:"experience_query"`
	ExperienceBio   []string  `mapstructure:"experience-bio" json:"experience_bio"`
}

// DefaultVocabulary returns a fresh copy of the built-in word lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Roles: []string{"developer", "engineer", "scientist", "designer", "manager", "specialist", "expert"},
		Synonyms: []Synonym{
			{Term: "ml", Related: []string{"machine learning", "deep learning", "ai", "artificial intelligence", "neural networks"}},
			{Term: "ai", Related: []string{"artificial intelligence", "machine learning", "deep learning", "neural networks"}},
			{Term: "frontend", Related: []string{"ui", "user interface", "react", "angular", "vue", "javascript", "web"}},
			{Term: "backend", Related: []string{"server", "api", "database", "node", "django", "flask", "fastapi"}},
			{Term: "cloud", Related: []string{"aws", "azure", "gcp", "infrastructure", "devops", "kubernetes", "docker"}},
			{Term: "mobile", Related: []string{"ios", "android", "flutter", "react native", "cross-platform"}},
			{Term: "data", Related: []string{"analytics", "visualization", "science", "scientist", "analysis", "statistics"}},
		},
		ExperienceQuery: []string{"experienced", "senior", "expert", "specialist", "professional"},
		ExperienceBio:   []string{"years", "experience", "senior"},
	}
}

// Merge returns the default vocabulary with every non-empty section of
// override replacing the built-in one. Words are lower-cased.
func Merge(override *Vocabulary) Vocabulary {
	v := DefaultVocabulary()
	if override == nil {
		return v
	}

	if words := lowerAll(override.Roles); len(words) > 0 {
		v.Roles = words
	}
	if len(override.Synonyms) > 0 {
		synonyms := make([]Synonym, 0, len(override.Synonyms))
		for _, s := range override.Synonyms {
			term := strings.ToLower(strings.TrimSpace(s.Term))
			related := lowerAll(s.Related)
			if term == "" || len(related) == 0 {
				continue
			}
			synonyms = append(synonyms, Synonym{Term: term, Related: related})
		}
		if len(synonyms) > 0 {
			v.Synonyms = synonyms
		}
	}
	if words := lowerAll(override.ExperienceQuery); len(words) > 0 {
		v.ExperienceQuery = words
	}
	if words := lowerAll(override.ExperienceBio); len(words) > 0 {
		v.ExperienceBio = words
	}

	return v
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}

// clone copies v with every word trimmed and lower-cased.
func (v Vocabulary) clone() Vocabulary {
	c := Vocabulary{
		Roles:           lowerAll(v.Roles),
		ExperienceQuery: lowerAll(v.ExperienceQuery),
		ExperienceBio:   lowerAll(v.ExperienceBio),
		Synonyms:        make([]Synonym, 0, len(v.Synonyms)),
	}
	for _, s := range v.Synonyms {
		term := strings.ToLower(strings.TrimSpace(s.Term))
		if term == "" {
			continue
		}
		c.Synonyms = append(c.Synonyms, Synonym{Term: term, Related: lowerAll(s.Related)})
	}
	return c
}
