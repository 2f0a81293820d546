package models

import "github.com/google/uuid"

type MentorSkill struct {
	MentorProfileUserID uuid.UUID `gorm:"primaryKey" json:"mentor_id"`
	SkillID             uuid.UUID `gorm:"primaryKey" json:"skill_id"`
}
