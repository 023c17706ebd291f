package models

import (
	"time"
)

// Nursery is a growing area within a farm, associated with a crop type
type Nursery struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"size:64;not null" json:"code" validate:"notblank,max=64"`
	CropType  string    `gorm:"size:128;not null;index" json:"cropType" validate:"notblank,max=128"`
	FarmID    uint64    `gorm:"index;not null" json:"farmId"`
	Farm      *Farm     `gorm:"-" json:"-" validate:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tasks     []*Task   `gorm:"foreignKey:NurseryID;constraint:OnDelete:CASCADE" json:"tasks,omitempty" validate:"-"`
}

// TableName overrides the table name for Nursery
func (Nursery) TableName() string {
	return "nurseries"
}

// Validate checks the nursery's own fields
func (n *Nursery) Validate() error {
	return validateStruct("nursery", n)
}

// ValidateOwned also requires the owning farm
func (n *Nursery) ValidateOwned() error {
	if err := n.Validate(); err != nil {
		return err
	}
	if n.FarmID == 0 {
		return validationRequired("nursery", "farm")
	}
	return nil
}

func (n *Nursery) setOwner(f *Farm) {
	n.Farm = f
	if f == nil {
		n.FarmID = 0
		return
	}
	n.FarmID = f.ID
}

// AddTask appends task to the nursery and points the task back at it
func (n *Nursery) AddTask(task *Task) {
	if task == nil {
		return
	}
	if task.Nursery != nil && task.Nursery != n {
		task.Nursery.RemoveTask(task)
	}
	for _, t := range n.Tasks {
		if t == task {
			task.setOwner(n)
			return
		}
	}
	n.Tasks = append(n.Tasks, task)
	task.setOwner(n)
}

// RemoveTask drops task from the nursery and clears the task's owner
func (n *Nursery) RemoveTask(task *Task) {
	if task == nil {
		return
	}
	found := false
	for i, t := range n.Tasks {
		if t == task || (task.ID != 0 && t.ID == task.ID) {
			n.Tasks = append(n.Tasks[:i], n.Tasks[i+1:]...)
			found = true
			break
		}
	}
	// A task linked elsewhere keeps its owner; an unlinked one matches by list or a real id
	if task.Nursery == n || (task.Nursery == nil && (found || (n.ID != 0 && task.NurseryID == n.ID))) {
		task.setOwner(nil)
	}
}

// Link restores the tasks' pointers back at the nursery
func (n *Nursery) Link() {
	for _, t := range n.Tasks {
		t.Nursery = n
	}
}
