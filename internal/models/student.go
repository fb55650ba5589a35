package models

import "time"

// Student is a registered student together with the descriptive profile
// fields they maintain. Every profile field is independently nullable.
type Student struct {
	ID                        int64     `db:"id" json:"id"`
	Name                      string    `db:"name" json:"name"`
	Email                     string    `db:"email" json:"email"`
	PasswordHash              string    `db:"password_hash" json:"-"`
	Phone                     *string   `db:"phone" json:"phone"`
	Gender                    *string   `db:"gender" json:"gender"`
	Dob                       *Date     `db:"dob" json:"dob"`
	MailingAddress            *string   `db:"mailing_address" json:"mailing_address"`
	PreviousSchool            *string   `db:"previous_school" json:"previous_school"`
	GraduationDate            *Date     `db:"graduation_date" json:"graduation_date"`
	GPA                       *string   `db:"gpa" json:"gpa"`
	IntendedMajor             *string   `db:"intended_major" json:"intended_major"`
	CurrentYear               *string   `db:"current_year" json:"current_year"`
	Branch                    *string   `db:"branch" json:"branch"`
	Semester                  *string   `db:"semester" json:"semester"`
	Bio                       *string   `db:"bio" json:"bio"`
	MedicalInfo               *string   `db:"medical_info" json:"medical_info"`
	ExtracurricularActivities *string   `db:"extracurricular_activities" json:"extracurricular_activities"`
	SocialProfiles            *string   `db:"social_profiles" json:"social_profiles"`
	HonorsAwards              *string   `db:"honors_awards" json:"honors_awards"`
	SkillsSummary             *string   `db:"skills_summary" json:"skills_summary"`
	ProfilePic                *string   `db:"profile_pic" json:"profile_pic"`
	EmergencyContactName      *string   `db:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyPhone            *string   `db:"emergency_phone" json:"emergency_phone"`
	EmergencyEmail            *string   `db:"emergency_email" json:"emergency_email"`
	EmergencyRelationship     *string   `db:"emergency_relationship" json:"emergency_relationship"`
	ResumeLink                *string   `db:"resume_link" json:"resume_link"`
	CreatedAt                 time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time `db:"updated_at" json:"updated_at"`
}

// Identity returns the session identity for the student.
func (s *Student) Identity() Identity {
	return Identity{ID: s.ID, Role: RoleStudent, Email: s.Email, Name: s.Name}
}
