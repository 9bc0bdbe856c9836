// Package hugocfg renders and edits the hugo.toml configuration of a
// portfolio site. Generation is a pure Profile→text function; editing is a
// narrow text transform that touches single scalar fields inside [params]
// without a full TOML parser.
package hugocfg

import (
	"strings"

	"github.com/ruslanshgd/izi-portfolio-bot/portfolio"
)

// Site-level constants mirror the template repo's own hugo.toml. Only the
// [params] section is dynamic.
const (
	siteBaseURL     = "/"
	siteTitle       = "Портфолио"
	siteLanguage    = "ru-ru"
	siteContentLang = "ru"

	paramsDescription = "Кейсы и портфолио"
)

// ParamsSection is the marker line the field mutator anchors on.
const ParamsSection = "[params]"

// Generate renders the complete hugo.toml for a profile. Flat [params]
// keys are emitted in a fixed order with "" for absent optionals; fields
// of repeatable sub-blocks are omitted entirely when absent.
func Generate(p portfolio.Profile) string {
	image := p.AuthorImage
	if image == "" {
		image = portfolio.DefaultImagePath
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	flat := func(key, value string) {
		line("  " + key + " = " + QuoteString(value))
	}
	sub := func(key, value string) {
		line("    " + key + " = " + QuoteString(value))
	}
	subOpt := func(key, value string) {
		if value != "" {
			sub(key, value)
		}
	}

	line(`baseURL = ` + QuoteString(siteBaseURL))
	line(`title = ` + QuoteString(siteTitle))
	line(`languageCode = ` + QuoteString(siteLanguage))
	line(`defaultContentLanguage = ` + QuoteString(siteContentLang))
	line("")

	line(ParamsSection)
	flat("description", paramsDescription)
	flat("author_name", p.AuthorName)
	flat("author_surname", p.AuthorSurname)
	flat("author_grade", p.AuthorGrade)
	flat("author_city", p.AuthorCity)
	flat("author_intro", p.AuthorIntro)
	flat("author_image", image)
	flat("author_email", p.AuthorEmail)
	flat("author_telegram", p.AuthorTelegram)
	flat("author_linkedin", p.AuthorLinkedIn)
	flat("author_dribbble", p.AuthorDribbble)
	flat("author_behance", p.AuthorBehance)
	flat("author_cv", p.AuthorCV)

	line("")
	line("  [params.education]")

	for _, c := range p.Courses {
		line("")
		line("  [[params.education.courses]]")
		sub("title", c.Title)
		subOpt("url", c.URL)
		subOpt("provider", c.Provider)
		subOpt("status", c.Status)
		subOpt("year", c.Year)
		subOpt("certificate", c.Certificate)
	}

	for _, u := range p.Universities {
		line("")
		line("  [[params.education.universities]]")
		sub("name", u.Name)
		sub("year", u.Year)
		sub("speciality", u.Speciality)
		subOpt("degree", u.Degree)
		subOpt("note", u.Note)
	}

	line("")
	line("  [params.career]")
	for _, item := range p.CareerItems {
		line("")
		line("  [[params.career.items]]")
		sub("company", item.Company)
		sub("role", item.Role)
		subOpt("location", item.Location)
		sub("start", item.Start)
		sub("end", item.End)
		sub("description", item.Description)
	}

	line("")
	line("[outputs]")
	line(`  home = ["HTML", "RSS"]`)
	line(`  section = ["HTML"]`)
	line("")
	line("[taxonomies]")
	line(`  # optional later: tag = "tags"`)

	return b.String()
}

// QuoteString renders a TOML basic string. Escaping contract: backslash,
// double quote and newline only; carriage returns are dropped. Not a full
// grammar-correct quoter, but sufficient for flat scalar values.
func QuoteString(value string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\r", "",
		"\n", "\\n",
	)
	return "\"" + r.Replace(value) + "\""
}
