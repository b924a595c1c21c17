package scorer

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/spigell/talent-discovery/internal/profile"
)

func sampleProfiles() []profile.Profile {
	return []profile.Profile{
		{
			ID:        "1",
			Name:      "AI Developer",
			Bio:       "Expert in machine learning",
			Skills:    []string{"Python", "ML", "AI"},
			Interests: []string{"Deep Learning", "NLP"},
		},
		{
			ID:        "2",
			Name:      "Frontend Developer",
			Bio:       "Building beautiful UIs",
			Skills:    []string{"JavaScript", "React", "CSS"},
			Interests: []string{"UI/UX", "Web Design"},
		},
	}
}

func TestScoreMachineLearningScenario(t *testing.T) {
	matches := NewDefault().Score("machine learning", sampleProfiles())

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}

	got := matches[0]
	if got.ID != "1" {
		t.Fatalf("expected profile 1, got %s", got.ID)
	}
	if got.Score != 25 {
		t.Fatalf("expected score 25, got %d", got.Score)
	}
	if got.MatchReason != "Bio contains relevant terms; Interests match: Deep Learning" {
		t.Fatalf("unexpected match reason: %q", got.MatchReason)
	}
}

func TestScoreRoleRequiresLiteralWordInBio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		bio        string
		wantScore  int
		wantReason string
	}{
		{
			name:       "role absent from bio",
			bio:        "AWS certified solutions architect",
			wantScore:  15,
			wantReason: "Term 'cloud' relates to 'aws'",
		},
		{
			name:       "role present in bio",
			bio:        "AWS certified cloud specialist with 5 years of experience",
			wantScore:  70,
			wantReason: "Bio contains relevant terms; Role 'specialist' matches; Term 'cloud' relates to 'aws'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			profiles := []profile.Profile{{
				ID:     "cloud",
				Name:   "Jordan Lee",
				Bio:    tt.bio,
				Skills: []string{"AWS", "Kubernetes", "Docker"},
			}}

			matches := NewDefault().Score("cloud infrastructure specialist", profiles)
			if len(matches) != 1 {
				t.Fatalf("expected 1 match, got %d", len(matches))
			}
			if matches[0].Score != tt.wantScore {
				t.Fatalf("expected score %d, got %d", tt.wantScore, matches[0].Score)
			}
			if matches[0].MatchReason != tt.wantReason {
				t.Fatalf("unexpected match reason: %q", matches[0].MatchReason)
			}
			hasRole := strings.Contains(matches[0].MatchReason, "Role 'specialist' matches")
			if hasRole != strings.Contains(tt.bio, "specialist") {
				t.Fatalf("role clause presence mismatch: %q", matches[0].MatchReason)
			}
		})
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	t.Parallel()

	s := NewDefault()
	for _, query := range []string{"", "   ", "\t\n"} {
		if got := s.Score(query, sampleProfiles()); len(got) != 0 {
			t.Fatalf("expected no matches for %q, got %d", query, len(got))
		}
	}

	got := s.Score("developer", nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestScoreSkillWorthTwentyPoints(t *testing.T) {
	base := profile.Profile{ID: "b", Name: "Sam", Bio: "I go hiking"}
	withSkill := base
	withSkill.ID = "a"
	withSkill.Skills = []string{"Go"}

	matches := NewDefault().Score("go", []profile.Profile{base, withSkill})
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "a" {
		t.Fatalf("expected profile with skill first, got %s", matches[0].ID)
	}
	if diff := matches[0].Score - matches[1].Score; diff < 20 {
		t.Fatalf("expected skill to add at least 20, got %d", diff)
	}
}

func TestScoreSkillCountedOncePerSkill(t *testing.T) {
	p := profile.Profile{ID: "1", Name: "X", Skills: []string{"Go programming", "Rust"}}

	matches := NewDefault().Score("go programming", []profile.Profile{p})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Score != 20 {
		t.Fatalf("expected a single skill hit worth 20, got %d", matches[0].Score)
	}
	if matches[0].MatchReason != "Skills match: Go programming" {
		t.Fatalf("unexpected reason: %q", matches[0].MatchReason)
	}
}

func TestScoreListsFirstTwoSkills(t *testing.T) {
	p := profile.Profile{ID: "1", Name: "X", Skills: []string{"Go", "Gorm", "Gonum"}}

	matches := NewDefault().Score("go", []profile.Profile{p})
	if matches[0].Score != 60 {
		t.Fatalf("expected 60, got %d", matches[0].Score)
	}
	if matches[0].MatchReason != "Skills match: Go, Gorm" {
		t.Fatalf("unexpected reason: %q", matches[0].MatchReason)
	}
}

func TestScoreClampsAndTruncatesReasons(t *testing.T) {
	p := profile.Profile{
		ID:        "1",
		Name:      "Senior Data Engineer",
		Bio:       "Senior data engineer and developer with 10 years of experience in analytics",
		Skills:    []string{"Data pipelines", "Data modeling", "SQL data"},
		Interests: []string{"Data mesh", "Big data"},
	}

	matches := NewDefault().Score("senior data engineer developer", []profile.Profile{p})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Score != 100 {
		t.Fatalf("expected clamped score 100, got %d", matches[0].Score)
	}
	if n := len(strings.Split(matches[0].MatchReason, "; ")); n != 3 {
		t.Fatalf("expected 3 clauses, got %d: %q", n, matches[0].MatchReason)
	}
	if !strings.HasPrefix(matches[0].MatchReason, "Name matches search terms; Bio contains relevant terms; Skills match: Data pipelines, Data modeling") {
		t.Fatalf("unexpected reason order: %q", matches[0].MatchReason)
	}
}

func TestScoreExperienceLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		bio        string
		wantScore  int
		wantReason string
	}{
		{
			name:       "senior query, years in bio",
			query:      "senior",
			bio:        "10 years",
			wantScore:  20,
			wantReason: "Experience level matches",
		},
		{
			name:       "professional query, experience in bio",
			query:      "professional",
			bio:        "Broad experience",
			wantScore:  20,
			wantReason: "Experience level matches",
		},
		{
			name:  "bio lacks experience words",
			query: "senior",
			bio:   "Leads a small team",
		},
		{
			name:  "bio word in query does not count",
			query: "years",
			bio:   "Senior lead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := profile.Profile{ID: "1", Name: "Sam", Bio: tt.bio}

			matches := NewDefault().Score(tt.query, []profile.Profile{p})
			if tt.wantScore == 0 {
				if len(matches) != 0 {
					t.Fatalf("expected no match, got %+v", matches)
				}
				return
			}
			if len(matches) != 1 {
				t.Fatalf("expected 1 match, got %d", len(matches))
			}
			if matches[0].Score != tt.wantScore || matches[0].MatchReason != tt.wantReason {
				t.Fatalf("got score %d reason %q", matches[0].Score, matches[0].MatchReason)
			}
		})
	}
}

func TestScoreDuplicateTermsCollapse(t *testing.T) {
	p := profile.Profile{ID: "1", Name: "X", Bio: "rust rust"}

	once := NewDefault().Score("rust", []profile.Profile{p})
	twice := NewDefault().Score("rust RUST rust", []profile.Profile{p})
	if once[0].Score != 5 || twice[0].Score != 5 {
		t.Fatalf("expected duplicate terms to collapse, got %d and %d", once[0].Score, twice[0].Score)
	}
}

func TestScoreMissingListsDoNotPanic(t *testing.T) {
	p := profile.Profile{ID: "1", Name: "Data Person"}

	matches := NewDefault().Score("data", []profile.Profile{p})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Skills == nil || matches[0].Interests == nil {
		t.Fatalf("expected normalized lists in match")
	}
}

func TestScoreStableOnTies(t *testing.T) {
	profiles := []profile.Profile{
		{ID: "first", Name: "Go one"},
		{ID: "second", Name: "Go two"},
		{ID: "third", Name: "Go three"},
	}

	matches := NewDefault().Score("go", profiles)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	if strings.Join(ids, ",") != "first,second,third" {
		t.Fatalf("expected input order on ties, got %v", ids)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	s := NewDefault()
	query := "senior ml engineer cloud"
	profiles := randomProfiles(rand.New(rand.NewSource(7)), 40)

	first, err := json.Marshal(s.Score(query, profiles))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := json.Marshal(s.Score(query, profiles))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical output across calls")
	}
}

func TestScoreProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewDefault()

	for i := 0; i < 200; i++ {
		profiles := randomProfiles(rng, rng.Intn(8))
		query := randomQuery(rng)

		matches := s.Score(query, profiles)
		for j, m := range matches {
			if m.Score <= 0 || m.Score > 100 {
				t.Fatalf("score out of range for %q: %d", query, m.Score)
			}
			if j > 0 && matches[j-1].Score < m.Score {
				t.Fatalf("results not sorted for %q", query)
			}
			if n := len(strings.Split(m.MatchReason, "; ")); n > 3 {
				t.Fatalf("too many clauses: %q", m.MatchReason)
			}
		}
	}
}

func TestScoreWithCustomVocabulary(t *testing.T) {
	vocab := Merge(&Vocabulary{
		Roles:    []string{"Gardener"},
		Synonyms: []Synonym{{Term: "plants", Related: []string{"Botany"}}},
	})
	p := profile.Profile{ID: "1", Name: "X", Bio: "Gardener who studied botany"}

	matches := New(vocab).Score("gardener plants", []profile.Profile{p})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	want := "Bio contains relevant terms; Role 'gardener' matches; Term 'plants' relates to 'botany'"
	if matches[0].MatchReason != want {
		t.Fatalf("unexpected reason: %q", matches[0].MatchReason)
	}
	if matches[0].Score != 45 {
		t.Fatalf("expected 45, got %d", matches[0].Score)
	}
}

var words = []string{
	"go", "python", "ml", "ai", "cloud", "data", "senior", "expert", "developer",
	"engineer", "designer", "react", "aws", "years", "experience", "mobile", "ios",
}

func randomQuery(rng *rand.Rand) string {
	n := rng.Intn(4)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[rng.Intn(len(words))]
	}
	return strings.Join(parts, " ")
}

func randomList(rng *rand.Rand) []string {
	if rng.Intn(5) == 0 {
		return nil
	}
	out := make([]string, rng.Intn(5))
	for i := range out {
		out[i] = words[rng.Intn(len(words))]
	}
	return out
}

func randomProfiles(rng *rand.Rand, n int) []profile.Profile {
	out := make([]profile.Profile, n)
	for i := range out {
		out[i] = profile.Profile{
			ID:        string(rune('a' + i%26)),
			Name:      randomQuery(rng),
			Bio:       randomQuery(rng) + " " + randomQuery(rng),
			Skills:    randomList(rng),
			Interests: randomList(rng),
		}
	}
	return out
}
