// Package portfolio holds the domain model for a user portfolio: the
// profile collected during the dialog plus the repeatable career and
// education records. It mirrors the params schema of the Hugo template.
package portfolio

import "fmt"

// DefaultImagePath is where the author photo lives inside the site repo.
const DefaultImagePath = "/images/author.jpg"

// CareerItem is a single work-history entry, rendered as one
// [[params.career.items]] block.
type CareerItem struct {
	Company     string
	Role        string
	Location    string // optional
	Start       string // e.g. "2021-05"
	End         string // e.g. "2024-01" or "по настоящее время"
	Description string
}

// Course is one education course, rendered as [[params.education.courses]].
// Only Title is required.
type Course struct {
	Title       string
	URL         string
	Provider    string
	Year        string
	Status      string
	Certificate string
}

// University is one [[params.education.universities]] entry.
type University struct {
	Name       string
	Year       string
	Speciality string
	Degree     string // optional
	Note       string // optional
}

// Profile groups everything needed to render hugo.toml for one user.
// It is assembled once, at finalization, from the dialog session.
type Profile struct {
	GitHubUsername string
	RepoName       string

	AuthorName    string
	AuthorSurname string
	AuthorGrade   string
	AuthorCity    string
	AuthorIntro   string
	AuthorImage   string

	// Contacts, all optional. Empty string = not provided.
	AuthorEmail    string
	AuthorTelegram string
	AuthorLinkedIn string
	AuthorDribbble string
	AuthorBehance  string
	AuthorCV       string

	CareerItems  []CareerItem
	Universities []University
	Courses      []Course
}

// MissingFieldError reports the first required profile field that was never
// collected. Reaching it means the dialog state machine was bypassed.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("profile is missing required field %q", e.Field)
}

// Validate checks that every required scalar field is present. Repeatable
// records are validated at collection time and need no re-check here.
func (p *Profile) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"github_username", p.GitHubUsername},
		{"repo_name", p.RepoName},
		{"author_name", p.AuthorName},
		{"author_surname", p.AuthorSurname},
		{"author_grade", p.AuthorGrade},
		{"author_city", p.AuthorCity},
		{"author_intro", p.AuthorIntro},
	}
	for _, f := range required {
		if f.value == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	return nil
}
