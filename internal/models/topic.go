package models

// Topic statuses.
const (
	TopicStatusAvailable  = "available"
	TopicStatusUsed       = "used"
	TopicStatusIrrelevant = "irrelevant"
)

// TopicQuestion is one suggested question within a topic.
type TopicQuestion struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// TopicModel is a suggested interview subject with its questions.
type TopicModel struct {
	Base
	UserID            string          `json:"-"                  gorm:"index;not null"`
	Title             string          `json:"title"              gorm:"not null"`
	MotivationalQuote string          `json:"motivational_quote"`
	Questions         []TopicQuestion `json:"questions"          gorm:"type:longtext;serializer:json"`
	Status            string          `json:"status"             gorm:"index;default:available"`
}

func (TopicModel) TableName() string { return "topics" }
