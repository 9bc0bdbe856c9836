package dialog

// Step is the dialog cursor: a closed enumeration of every state the
// conversation can be in. The engine treats any value outside this set as
// a desynchronized dialog and answers with a recovery prompt instead of
// guessing.
type Step string

const (
	// Initial linear flow.
	StepGitHubUsername Step = "github_username"
	StepGitHubToken    Step = "github_token"
	StepRepoName       Step = "repo_name"
	StepAuthorName     Step = "author_name"
	StepAuthorSurname  Step = "author_surname"
	StepAuthorGrade    Step = "author_grade"
	StepAuthorCity     Step = "author_city"
	StepAuthorIntro    Step = "author_intro"

	// Optional contact links, each skippable with "-".
	StepContactEmail    Step = "contacts_email"
	StepContactTelegram Step = "contacts_telegram"
	StepContactLinkedIn Step = "contacts_linkedin"
	StepContactDribbble Step = "contacts_dribbble"
	StepContactBehance  Step = "contacts_behance"
	StepContactCV       Step = "contacts_cv"

	// Binary capture gate: only a photo advances this state.
	StepAuthorPhoto Step = "author_photo"

	// Career sub-record loop.
	StepCareerCompany     Step = "career_company"
	StepCareerRole        Step = "career_role"
	StepCareerLocation    Step = "career_location"
	StepCareerStart       Step = "career_start"
	StepCareerEnd         Step = "career_end"
	StepCareerDescription Step = "career_description"
	StepCareerMore        Step = "career_more"

	// Education: universities sub-record loop.
	StepUniversityName       Step = "edu_university_name"
	StepUniversityYear       Step = "edu_university_year"
	StepUniversitySpeciality Step = "edu_university_speciality"
	StepUniversityDegree     Step = "edu_university_degree"
	StepUniversityNote       Step = "edu_university_note"
	StepUniversityMore       Step = "edu_university_more"

	// Education: courses sub-record loop. The very first title prompt
	// accepts a "none" sentinel to skip the collection entirely.
	StepCourseTitle       Step = "edu_course_title"
	StepCourseURL         Step = "edu_course_url"
	StepCourseProvider    Step = "edu_course_provider"
	StepCourseStatus      Step = "edu_course_year_or_status"
	StepCourseCertificate Step = "edu_course_certificate"
	StepCourseMore        Step = "edu_course_more"

	// Branch/menu states.
	StepStartChoice          Step = "start_choice"
	StepGitHubUsernameChoice Step = "github_username_choice"

	// Update sub-flow.
	StepUpdateNeedToken    Step = "update_need_token"
	StepUpdateMenu         Step = "update_menu"
	StepUpdateContactsMenu Step = "update_contacts_menu"
	StepUpdateValue        Step = "update_value"
	StepUpdateSurname      Step = "update_surname"
	StepUpdatePhoto        Step = "update_photo"
)

var knownSteps = map[Step]struct{}{
	StepGitHubUsername: {}, StepGitHubToken: {}, StepRepoName: {},
	StepAuthorName: {}, StepAuthorSurname: {}, StepAuthorGrade: {},
	StepAuthorCity: {}, StepAuthorIntro: {},
	StepContactEmail: {}, StepContactTelegram: {}, StepContactLinkedIn: {},
	StepContactDribbble: {}, StepContactBehance: {}, StepContactCV: {},
	StepAuthorPhoto: {},
	StepCareerCompany: {}, StepCareerRole: {}, StepCareerLocation: {},
	StepCareerStart: {}, StepCareerEnd: {}, StepCareerDescription: {},
	StepCareerMore: {},
	StepUniversityName: {}, StepUniversityYear: {}, StepUniversitySpeciality: {},
	StepUniversityDegree: {}, StepUniversityNote: {}, StepUniversityMore: {},
	StepCourseTitle: {}, StepCourseURL: {}, StepCourseProvider: {},
	StepCourseStatus: {}, StepCourseCertificate: {}, StepCourseMore: {},
	StepStartChoice: {}, StepGitHubUsernameChoice: {},
	StepUpdateNeedToken: {}, StepUpdateMenu: {}, StepUpdateContactsMenu: {},
	StepUpdateValue: {}, StepUpdateSurname: {}, StepUpdatePhoto: {},
}

// Known reports whether s is a valid dialog state.
func (s Step) Known() bool {
	_, ok := knownSteps[s]
	return ok
}

// AllSteps returns every valid state. Used by coverage tests.
func AllSteps() []Step {
	out := make([]Step, 0, len(knownSteps))
	for s := range knownSteps {
		out = append(out, s)
	}
	return out
}
