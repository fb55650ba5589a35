package dto

// StudentProfilePatch lists the student profile fields that may be edited.
// A nil field was not submitted and is left untouched; a non-nil empty string
// overwrites the stored value.
type StudentProfilePatch struct {
	Name                      *string `json:"name" form:"name"`
	Email                     *string `json:"email" form:"email"`
	Phone                     *string `json:"phone" form:"phone"`
	Gender                    *string `json:"gender" form:"gender"`
	Dob                       *string `json:"dob" form:"dob"`
	MailingAddress            *string `json:"mailing_address" form:"mailing_address"`
	PreviousSchool            *string `json:"previous_school" form:"previous_school"`
	GraduationDate            *string `json:"graduation_date" form:"graduation_date"`
	GPA                       *string `json:"gpa" form:"gpa"`
	IntendedMajor             *string `json:"intended_major" form:"intended_major"`
	CurrentYear               *string `json:"current_year" form:"current_year"`
	Branch                    *string `json:"branch" form:"branch"`
	Semester                  *string `json:"semester" form:"semester"`
	Bio                       *string `json:"bio" form:"bio"`
	MedicalInfo               *string `json:"medical_info" form:"medical_info"`
	ExtracurricularActivities *string `json:"extracurricular_activities" form:"extracurricular_activities"`
	SocialProfiles            *string `json:"social_profiles" form:"social_profiles"`
	HonorsAwards              *string `json:"honors_awards" form:"honors_awards"`
	SkillsSummary             *string `json:"skills_summary" form:"skills_summary"`
	ProfilePic                *string `json:"-" form:"-"`
	EmergencyContactName      *string `json:"emergency_contact_name" form:"emergency_contact_name"`
	EmergencyPhone            *string `json:"emergency_phone" form:"emergency_phone"`
	EmergencyEmail            *string `json:"emergency_email" form:"emergency_email"`
	EmergencyRelationship     *string `json:"emergency_relationship" form:"emergency_relationship"`
	ResumeLink                *string `json:"resume_link" form:"resume_link"`
}

// ProfessorProfilePatch lists the professor profile fields that may be edited.
type ProfessorProfilePatch struct {
	Name              *string `json:"name" form:"name"`
	Email             *string `json:"email" form:"email"`
	Department        *string `json:"department" form:"department"`
	OfficeLocation    *string `json:"office_location" form:"office_location"`
	Phone             *string `json:"phone" form:"phone"`
	Affiliation       *string `json:"affiliation" form:"affiliation"`
	Bio               *string `json:"bio" form:"bio"`
	Expertise         *string `json:"expertise" form:"expertise"`
	ResearchInterests *string `json:"research_interests" form:"research_interests"`
	Education         *string `json:"education" form:"education"`
	CVLink            *string `json:"cv_link" form:"cv_link"`
	Awards            *string `json:"awards" form:"awards"`
	Publications      *string `json:"publications" form:"publications"`
	Memberships       *string `json:"memberships" form:"memberships"`
	SocialLinks       *string `json:"social_links" form:"social_links"`
	ProfilePic        *string `json:"-" form:"-"`
	Pronouns          *string `json:"pronouns" form:"pronouns"`
	Pronunciation     *string `json:"pronunciation" form:"pronunciation"`
	Titles            *string `json:"titles" form:"titles"`
	Grants            *string `json:"grants" form:"grants"`
	News              *string `json:"news" form:"news"`
	OtherInfo         *string `json:"other_info" form:"other_info"`
}

// ProfileUpdateResult reports which columns a merge changed.
type ProfileUpdateResult struct {
	Profile interface{} `json:"profile"`
	Updated []string    `json:"updated_fields"`
}
