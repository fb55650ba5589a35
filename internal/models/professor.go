package models

import "time"

// Professor is a registered professor and their public profile.
type Professor struct {
	ID                int64     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	Department        *string   `db:"department" json:"department"`
	OfficeLocation    *string   `db:"office_location" json:"office_location"`
	Phone             *string   `db:"phone" json:"phone"`
	Affiliation       *string   `db:"affiliation" json:"affiliation"`
	Bio               *string   `db:"bio" json:"bio"`
	Expertise         *string   `db:"expertise" json:"expertise"`
	ResearchInterests *string   `db:"research_interests" json:"research_interests"`
	Education         *string   `db:"education" json:"education"`
	CVLink            *string   `db:"cv_link" json:"cv_link"`
	Awards            *string   `db:"awards" json:"awards"`
	Publications      *string   `db:"publications" json:"publications"`
	Memberships       *string   `db:"memberships" json:"memberships"`
	SocialLinks       *string   `db:"social_links" json:"social_links"`
	ProfilePic        *string   `db:"profile_pic" json:"profile_pic"`
	Pronouns          *string   `db:"pronouns" json:"pronouns"`
	Pronunciation     *string   `db:"pronunciation" json:"pronunciation"`
	Titles            *string   `db:"titles" json:"titles"`
	Grants            *string   `db:"grants" json:"grants"`
	News              *string   `db:"news" json:"news"`
	OtherInfo         *string   `db:"other_info" json:"other_info"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Identity returns the session identity for the professor.
func (p *Professor) Identity() Identity {
	return Identity{ID: p.ID, Role: RoleProfessor, Email: p.Email, Name: p.Name}
}
