package models

// UnknownValue is the sentinel for fields the model could not determine.
// Merges never let it overwrite a known value.
const UnknownValue = "unknown"

// Role is one position in a user's career history.
type Role struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Company    string      `json:"company"`
	StartYear  string      `json:"start_year"`
	EndYear    string      `json:"end_year"`
	Experience string      `json:"experience"`
	Skills     StringArray `json:"skills"`
	Projects   []Project   `json:"projects"`
}

// Project is a concrete piece of work within a role.
type Project struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Goal         string      `json:"goal"`
	Achievements StringArray `json:"achievements"`
}

// ExperienceModel is the persisted career record, one row per user.
// Roles and the summary are replaced wholesale by each workflow run;
// the merge against prior knowledge happens before persistence.
type ExperienceModel struct {
	Base
	UserID            string      `json:"-"       gorm:"uniqueIndex;not null"`
	Summary           string      `json:"summary" gorm:"type:longtext"`
	BasedOnInterviews StringArray `json:"based_on_interviews" gorm:"type:longtext;serializer:json"`
	Roles             []Role      `json:"roles"   gorm:"type:longtext;serializer:json"`
}

func (ExperienceModel) TableName() string { return "experiences" }
