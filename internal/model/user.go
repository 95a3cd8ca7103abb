package model

import (
	"time"
)

// Learning profile tiers. A user's profile drives the difficulty window used
// for recommendations: beginners also see intermediate paths, intermediates
// also see advanced ones, advanced users stay at advanced.
const (
	ProfileBeginner     = "beginner"
	ProfileIntermediate = "intermediate"
	ProfileAdvanced     = "advanced"
)

// NextDifficulties maps a learning profile to the trilha difficulty tiers
// eligible for recommendation.
var NextDifficulties = map[string][]string{
	ProfileBeginner:     {ProfileBeginner, ProfileIntermediate},
	ProfileIntermediate: {ProfileIntermediate, ProfileAdvanced},
	ProfileAdvanced:     {ProfileAdvanced},
}

// swagger:model User
type User struct {
	BaseModel
	Name            string        `gorm:"size:100;not null" json:"name"`
	Email           string        `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password        string        `gorm:"size:100" json:"-"`
	LearningProfile string        `gorm:"size:50" json:"learningProfile"`
	LastLogin       time.Time     `gorm:"autoCreateTime" json:"lastLogin"`
	Trilhas         []Trilha      `gorm:"many2many:user_trilhas" json:"trilhas,omitempty"`
	Performances    []Performance `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
