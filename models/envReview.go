package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnvReview is the single environmental review attached to one MOC. Created
// only by the start transition (EnvStatus "Not Reviewed", everything else
// unset), mutated only by save, never deleted.
//
// The unique index on MocID is what closes the duplicate-review race: two
// concurrent starts both pass the existence check, the second insert is
// rejected by the store and treated as "continue".
type EnvReview struct {
	ID        uuid.UUID `gorm:"primary_key" json:"id"`
	MocID     uuid.UUID `gorm:"uniqueIndex;not null" json:"moc_id"`
	EnvStatus EnvStatus `gorm:"size:50" json:"env_status"`

	EnvReviewer *string `gorm:"size:100" json:"env_reviewer"`

	// Calendar dates, not instants. Stored as date-only strings so that no
	// timezone conversion can shift them.
	EnvReviewStartDate    *string `gorm:"size:32" json:"env_review_start_date"`
	EnvReviewCompleteDate *string `gorm:"size:32" json:"env_review_complete_date"`

	// The five impact questions, each tri-state: nil means unanswered.
	ModifyLdar                   *bool `json:"modify_ldar"`
	ModifyControlDevice          *bool `json:"modify_control_device"`
	IncreaseProcess              *bool `json:"increase_process"`
	RequireOutsideEmissionSource *bool `json:"require_outside_emission_source"`
	Permitting                   *bool `json:"permitting"`

	Comments *string `gorm:"type:text" json:"comments"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *EnvReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
