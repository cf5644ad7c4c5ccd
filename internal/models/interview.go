package models

// Interview statuses.
const (
	InterviewStatusInProgress = "in_progress"
	InterviewStatusCompleted  = "completed"
)

// InterviewModel is one interview session belonging to a user.
type InterviewModel struct {
	Base
	UserID  string        `json:"-"       gorm:"index;not null"`
	TopicID string        `json:"topic_id" gorm:"index"`
	Title   string        `json:"title"`
	Status  string        `json:"status"  gorm:"default:in_progress"`
	Answers []AnswerModel `json:"answers,omitempty" gorm:"foreignKey:InterviewID"`
}

func (InterviewModel) TableName() string { return "interviews" }

// AnswerModel is a single question/answer pair inside an interview.
type AnswerModel struct {
	Base
	InterviewID string `json:"-"        gorm:"index;not null"`
	Question    string `json:"question" gorm:"type:text"`
	Answer      string `json:"answer"   gorm:"type:longtext"`
	Order       int    `json:"order"`
}

func (AnswerModel) TableName() string { return "answers" }
