package models

import (
	"time"

	"github.com/localnerve/viverodb/internal/types"
)

// Task is a dated maintenance activity ("labor") performed in a nursery.
// The control product is a weak reference: the task never owns it.
type Task struct {
	ID               uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Date             types.Date      `gorm:"column:task_date;not null;index" json:"date" validate:"required"`
	Description      string          `gorm:"size:1024;not null" json:"description" validate:"notblank,max=1024"`
	NurseryID        uint64          `gorm:"index;not null" json:"nurseryId"`
	Nursery          *Nursery        `gorm:"-" json:"-" validate:"-"`
	ControlProductID *uint64         `gorm:"index" json:"controlProductId"`
	ControlProduct   *ControlProduct `gorm:"foreignKey:ControlProductID;constraint:OnDelete:RESTRICT" json:"controlProduct,omitempty" validate:"-"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// TableName overrides the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// Validate checks the task's own fields
func (t *Task) Validate() error {
	return validateStruct("task", t)
}

// ValidateOwned also requires the owning nursery
func (t *Task) ValidateOwned() error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.NurseryID == 0 {
		return validationRequired("task", "nursery")
	}
	return nil
}

func (t *Task) setOwner(n *Nursery) {
	t.Nursery = n
	if n == nil {
		t.NurseryID = 0
		return
	}
	t.NurseryID = n.ID
}

// UseProduct sets or clears (nil) the weak product reference
func (t *Task) UseProduct(p *ControlProduct) {
	t.ControlProduct = p
	if p == nil {
		t.ControlProductID = nil
		return
	}
	id := p.ID
	t.ControlProductID = &id
}

// ApplyPatch overwrites date and description only. Nursery and product references are kept.
func (t *Task) ApplyPatch(patch *Task) {
	t.Date = patch.Date
	t.Description = patch.Description
}
