package service

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

// Changeset lists the columns a merge applied and the values to persist.
type Changeset struct {
	Values map[string]interface{}
}

// Fields returns the applied column names in sorted order.
func (c Changeset) Fields() []string {
	fields := make([]string, 0, len(c.Values))
	for f := range c.Values {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Empty reports whether nothing was submitted.
func (c Changeset) Empty() bool {
	return len(c.Values) == 0
}

// Merger applies sparse patches to records. Each record type has an explicit
// field list; nothing outside it can be touched. Merges work on a copy and
// either return the merged record or a field-indexed validation error.
type Merger struct {
	cleaner   TextCleaner
	validator *validator.Validate
}

// NewMerger constructs a Merger. cleaner may be nil.
func NewMerger(cleaner TextCleaner, validate *validator.Validate) *Merger {
	if validate == nil {
		validate = NewValidator()
	}
	return &Merger{cleaner: cleaner, validator: validate}
}

// MergeStudent applies patch to a copy of record.
func (m *Merger) MergeStudent(record models.Student, patch dto.StudentProfilePatch) (models.Student, Changeset, error) {
	b := m.begin()
	b.name("name", patch.Name, &record.Name)
	b.email("email", patch.Email, &record.Email)
	b.text("phone", patch.Phone, &record.Phone)
	b.text("gender", patch.Gender, &record.Gender)
	b.date("dob", patch.Dob, &record.Dob)
	b.text("mailing_address", patch.MailingAddress, &record.MailingAddress)
	b.text("previous_school", patch.PreviousSchool, &record.PreviousSchool)
	b.date("graduation_date", patch.GraduationDate, &record.GraduationDate)
	b.text("gpa", patch.GPA, &record.GPA)
	b.text("intended_major", patch.IntendedMajor, &record.IntendedMajor)
	b.text("current_year", patch.CurrentYear, &record.CurrentYear)
	b.text("branch", patch.Branch, &record.Branch)
	b.text("semester", patch.Semester, &record.Semester)
	b.text("bio", patch.Bio, &record.Bio)
	b.text("medical_info", patch.MedicalInfo, &record.MedicalInfo)
	b.text("extracurricular_activities", patch.ExtracurricularActivities, &record.ExtracurricularActivities)
	b.text("social_profiles", patch.SocialProfiles, &record.SocialProfiles)
	b.text("honors_awards", patch.HonorsAwards, &record.HonorsAwards)
	b.text("skills_summary", patch.SkillsSummary, &record.SkillsSummary)
	b.raw("profile_pic", patch.ProfilePic, &record.ProfilePic)
	b.text("emergency_contact_name", patch.EmergencyContactName, &record.EmergencyContactName)
	b.text("emergency_phone", patch.EmergencyPhone, &record.EmergencyPhone)
	b.optionalEmail("emergency_email", patch.EmergencyEmail, &record.EmergencyEmail)
	b.text("emergency_relationship", patch.EmergencyRelationship, &record.EmergencyRelationship)
	b.raw("resume_link", patch.ResumeLink, &record.ResumeLink)
	if err := b.err("invalid profile update"); err != nil {
		return models.Student{}, Changeset{}, err
	}
	return record, b.changes, nil
}

// MergeProfessor applies patch to a copy of record.
func (m *Merger) MergeProfessor(record models.Professor, patch dto.ProfessorProfilePatch) (models.Professor, Changeset, error) {
	b := m.begin()
	b.name("name", patch.Name, &record.Name)
	b.email("email", patch.Email, &record.Email)
	b.text("department", patch.Department, &record.Department)
	b.text("office_location", patch.OfficeLocation, &record.OfficeLocation)
	b.text("phone", patch.Phone, &record.Phone)
	b.text("affiliation", patch.Affiliation, &record.Affiliation)
	b.text("bio", patch.Bio, &record.Bio)
	b.text("expertise", patch.Expertise, &record.Expertise)
	b.text("research_interests", patch.ResearchInterests, &record.ResearchInterests)
	b.text("education", patch.Education, &record.Education)
	b.raw("cv_link", patch.CVLink, &record.CVLink)
	b.text("awards", patch.Awards, &record.Awards)
	b.text("publications", patch.Publications, &record.Publications)
	b.text("memberships", patch.Memberships, &record.Memberships)
	b.text("social_links", patch.SocialLinks, &record.SocialLinks)
	b.raw("profile_pic", patch.ProfilePic, &record.ProfilePic)
	b.text("pronouns", patch.Pronouns, &record.Pronouns)
	b.text("pronunciation", patch.Pronunciation, &record.Pronunciation)
	b.text("titles", patch.Titles, &record.Titles)
	b.text("grants", patch.Grants, &record.Grants)
	b.text("news", patch.News, &record.News)
	b.text("other_info", patch.OtherInfo, &record.OtherInfo)
	if err := b.err("invalid profile update"); err != nil {
		return models.Professor{}, Changeset{}, err
	}
	return record, b.changes, nil
}

// MergeProject applies patch to a copy of record.
func (m *Merger) MergeProject(record models.Project, patch dto.ProjectPatch) (models.Project, Changeset, error) {
	b := m.begin()
	if patch.Title != nil {
		title := b.clean(*patch.Title)
		if title == "" {
			b.fail("title", "cannot be empty")
		} else if len([]rune(title)) > 200 {
			b.fail("title", "must be at most 200 characters")
		} else {
			record.Title = title
			b.set("title", title)
		}
	}
	b.text("introduction", patch.Introduction, &record.Introduction)
	b.text("problem_definition", patch.ProblemDefinition, &record.ProblemDefinition)
	b.text("objective", patch.Objective, &record.Objective)
	b.text("methodology", patch.Methodology, &record.Methodology)
	b.text("scope", patch.Scope, &record.Scope)
	b.text("timeline", patch.Timeline, &record.Timeline)
	b.text("required_skills", patch.RequiredSkills, &record.RequiredSkills)
	if patch.Status != nil {
		status := models.ProjectStatus(strings.ToLower(strings.TrimSpace(*patch.Status)))
		if !status.Valid() {
			b.fail("status", "must be one of: active completed")
		} else {
			record.Status = status
			b.set("status", string(status))
		}
	}
	if patch.ApplicationsOpen != nil {
		record.ApplicationsOpen = *patch.ApplicationsOpen
		b.set("applications_open", *patch.ApplicationsOpen)
	}
	if err := b.err("invalid project update"); err != nil {
		return models.Project{}, Changeset{}, err
	}
	return record, b.changes, nil
}

func (m *Merger) begin() *mergeBuilder {
	return &mergeBuilder{merger: m, changes: Changeset{Values: map[string]interface{}{}}, errs: map[string]string{}}
}

type mergeBuilder struct {
	merger  *Merger
	changes Changeset
	errs    map[string]string
}

func (b *mergeBuilder) clean(raw string) string {
	if b.merger.cleaner == nil {
		return strings.TrimSpace(raw)
	}
	return b.merger.cleaner.Clean(raw)
}

func (b *mergeBuilder) set(column string, value interface{}) {
	b.changes.Values[column] = value
}

func (b *mergeBuilder) fail(column, message string) {
	b.errs[column] = message
}

// text overwrites dst with the cleaned value; an empty submission stores "".
func (b *mergeBuilder) text(column string, src *string, dst **string) {
	if src == nil {
		return
	}
	value := b.clean(*src)
	*dst = &value
	b.set(column, value)
}

// raw overwrites dst without markup cleaning, for links and stored paths.
func (b *mergeBuilder) raw(column string, src *string, dst **string) {
	if src == nil {
		return
	}
	value := strings.TrimSpace(*src)
	*dst = &value
	b.set(column, value)
}

func (b *mergeBuilder) name(column string, src *string, dst *string) {
	if src == nil {
		return
	}
	value := b.clean(*src)
	switch {
	case value == "":
		b.fail(column, "cannot be empty")
	case len([]rune(value)) > 100:
		b.fail(column, "must be at most 100 characters")
	default:
		*dst = value
		b.set(column, value)
	}
}

func (b *mergeBuilder) email(column string, src *string, dst *string) {
	if src == nil {
		return
	}
	value := normalizeEmail(*src)
	if err := b.merger.validator.Var(value, "required,email"); err != nil {
		b.fail(column, "must be a valid email address")
		return
	}
	*dst = value
	b.set(column, value)
}

func (b *mergeBuilder) optionalEmail(column string, src *string, dst **string) {
	if src == nil {
		return
	}
	value := normalizeEmail(*src)
	if value != "" {
		if err := b.merger.validator.Var(value, "email"); err != nil {
			b.fail(column, "must be a valid email address")
			return
		}
	}
	*dst = &value
	b.set(column, value)
}

// date parses YYYY-MM-DD; an empty submission clears the date.
func (b *mergeBuilder) date(column string, src *string, dst **models.Date) {
	if src == nil {
		return
	}
	value := strings.TrimSpace(*src)
	if value == "" {
		*dst = nil
		b.set(column, nil)
		return
	}
	parsed, err := models.ParseDate(value)
	if err != nil {
		b.fail(column, "must be a date in YYYY-MM-DD format")
		return
	}
	*dst = &parsed
	b.set(column, parsed)
}

func (b *mergeBuilder) err(message string) error {
	if len(b.errs) == 0 {
		return nil
	}
	return appErrors.Validation(message, b.errs)
}
