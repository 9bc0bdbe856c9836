package hugocfg

import (
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/ruslanshgd/izi-portfolio-bot/portfolio"
)

// decoded mirrors the parts of the generated document the tests care about.
type decoded struct {
	BaseURL string `toml:"baseURL"`
	Title   string `toml:"title"`
	Params  struct {
		AuthorName  string `toml:"author_name"`
		AuthorCity  string `toml:"author_city"`
		AuthorEmail string `toml:"author_email"`
		Education   struct {
			Courses      []map[string]string `toml:"courses"`
			Universities []map[string]string `toml:"universities"`
		} `toml:"education"`
		Career struct {
			Items []map[string]string `toml:"items"`
		} `toml:"career"`
	} `toml:"params"`
}

func sampleProfile() portfolio.Profile {
	return portfolio.Profile{
		GitHubUsername: "alice",
		RepoName:       "portfolio",
		AuthorName:     "Ann",
		AuthorSurname:  "Lee",
		AuthorGrade:    "Senior Product Designer",
		AuthorCity:     "Berlin",
		AuthorIntro:    "Hi there.",
		CareerItems: []portfolio.CareerItem{
			{Company: "Acme", Role: "Engineer", Start: "2020", End: "2021", Description: "Built things"},
			{Company: "Globex", Role: "Lead", Location: "Remote", Start: "2021", End: "по настоящее время", Description: "Leads things"},
		},
		Universities: []portfolio.University{
			{Name: "MSU", Year: "2019", Speciality: "Design", Degree: "бакалавр"},
		},
		Courses: []portfolio.Course{
			{Title: "UX Bootcamp", Provider: "School", Status: "2024"},
		},
	}
}

func TestGenerate_ValidTOML(t *testing.T) {
	doc := Generate(sampleProfile())
	var d decoded
	if _, err := toml.Decode(doc, &d); err != nil {
		t.Fatalf("generated document is not valid TOML: %v\n%s", err, doc)
	}
	if d.BaseURL != "/" || d.Title != "Портфолио" {
		t.Fatalf("unexpected site block: %+v", d)
	}
	if d.Params.AuthorName != "Ann" || d.Params.AuthorCity != "Berlin" {
		t.Fatalf("unexpected params: %+v", d.Params)
	}
}

func TestGenerate_SubBlockCounts(t *testing.T) {
	doc := Generate(sampleProfile())
	var d decoded
	if _, err := toml.Decode(doc, &d); err != nil {
		t.Fatal(err)
	}
	if n := len(d.Params.Career.Items); n != 2 {
		t.Fatalf("expected 2 career items, got %d", n)
	}
	if n := len(d.Params.Education.Universities); n != 1 {
		t.Fatalf("expected 1 university, got %d", n)
	}
	if n := len(d.Params.Education.Courses); n != 1 {
		t.Fatalf("expected 1 course, got %d", n)
	}
	if got := d.Params.Career.Items[0]["company"]; got != "Acme" {
		t.Fatalf("expected Acme, got %q", got)
	}
}

func TestGenerate_AbsentOptionals(t *testing.T) {
	doc := Generate(sampleProfile())

	// Flat optionals render as empty strings...
	if !strings.Contains(doc, `author_email = ""`) {
		t.Fatal("absent flat optional must render as empty string")
	}

	// ...but sub-block optionals are omitted entirely.
	var d decoded
	if _, err := toml.Decode(doc, &d); err != nil {
		t.Fatal(err)
	}
	first := d.Params.Career.Items[0]
	if _, ok := first["location"]; ok {
		t.Fatal("absent location must be omitted from sub-block")
	}
	uni := d.Params.Education.Universities[0]
	if _, ok := uni["note"]; ok {
		t.Fatal("absent note must be omitted from sub-block")
	}
	if uni["degree"] != "бакалавр" {
		t.Fatalf("populated degree must be present, got %v", uni)
	}
	course := d.Params.Education.Courses[0]
	if _, ok := course["url"]; ok {
		t.Fatal("absent url must be omitted from sub-block")
	}
}

func TestGenerate_ZeroCollections(t *testing.T) {
	p := sampleProfile()
	p.CareerItems = nil
	p.Universities = nil
	p.Courses = nil
	doc := Generate(p)
	var d decoded
	if _, err := toml.Decode(doc, &d); err != nil {
		t.Fatalf("document without collections must still be valid: %v", err)
	}
	if len(d.Params.Career.Items) != 0 || len(d.Params.Education.Courses) != 0 {
		t.Fatal("expected empty collections")
	}
}

func TestGenerate_DefaultImagePath(t *testing.T) {
	doc := Generate(sampleProfile())
	if !strings.Contains(doc, `author_image = "/images/author.jpg"`) {
		t.Fatal("expected default author image path")
	}
}

func TestQuoteString_Escaping(t *testing.T) {
	cases := []struct{ in, want string }{
		{`plain`, `"plain"`},
		{`with "quotes"`, `"with \"quotes\""`},
		{`back\slash`, `"back\\slash"`},
		{"multi\nline", `"multi\nline"`},
		{"cr\r\nlf", `"cr\nlf"`},
	}
	for _, c := range cases {
		if got := QuoteString(c.in); got != c.want {
			t.Fatalf("QuoteString(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestQuoteString_RoundTripsThroughTOML(t *testing.T) {
	raw := "he said \"hi\"\nand left\\"
	doc := "[params]\n  author_intro = " + QuoteString(raw) + "\n"
	var d struct {
		Params struct {
			AuthorIntro string `toml:"author_intro"`
		} `toml:"params"`
	}
	if _, err := toml.Decode(doc, &d); err != nil {
		t.Fatalf("quoted value must be valid TOML: %v", err)
	}
	want := "he said \"hi\"\nand left\\"
	if d.Params.AuthorIntro != want {
		t.Fatalf("round trip mismatch: got %q want %q", d.Params.AuthorIntro, want)
	}
}
