package models

import (
	"time"
)

// Farm is a land parcel identified by its cadastral number
type Farm struct {
	ID              uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CadastralNumber string     `gorm:"uniqueIndex;size:64;not null" json:"cadastralNumber" validate:"notblank,max=64"`
	Municipality    string     `gorm:"size:255;not null" json:"municipality" validate:"notblank,max=255"`
	ProducerID      uint64     `gorm:"index;not null" json:"producerId"`
	Producer        *Producer  `gorm:"-" json:"-" validate:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Nurseries       []*Nursery `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"nurseries,omitempty" validate:"-"`
}

// TableName overrides the table name for Farm
func (Farm) TableName() string {
	return "farms"
}

// Validate checks the farm's own fields. Ownership is checked by ValidateOwned.
func (f *Farm) Validate() error {
	return validateStruct("farm", f)
}

// ValidateOwned checks the fields and that the owning producer is set, as required before
// the farm is persisted
func (f *Farm) ValidateOwned() error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.ProducerID == 0 {
		return validationRequired("farm", "producer")
	}
	return nil
}

func (f *Farm) setOwner(p *Producer) {
	f.Producer = p
	if p == nil {
		f.ProducerID = 0
		return
	}
	f.ProducerID = p.ID
}

// AddNursery appends nursery to the farm and points the nursery back at it
func (f *Farm) AddNursery(nursery *Nursery) {
	if nursery == nil {
		return
	}
	if nursery.Farm != nil && nursery.Farm != f {
		nursery.Farm.RemoveNursery(nursery)
	}
	for _, n := range f.Nurseries {
		if n == nursery {
			nursery.setOwner(f)
			return
		}
	}
	f.Nurseries = append(f.Nurseries, nursery)
	nursery.setOwner(f)
}

// RemoveNursery drops nursery from the farm and clears the nursery's owner
func (f *Farm) RemoveNursery(nursery *Nursery) {
	if nursery == nil {
		return
	}
	found := false
	for i, n := range f.Nurseries {
		if n == nursery || (nursery.ID != 0 && n.ID == nursery.ID) {
			f.Nurseries = append(f.Nurseries[:i], f.Nurseries[i+1:]...)
			found = true
			break
		}
	}
	// A nursery linked elsewhere keeps its owner; an unlinked one matches by list or a real id
	if nursery.Farm == f || (nursery.Farm == nil && (found || (f.ID != 0 && nursery.FarmID == f.ID))) {
		nursery.setOwner(nil)
	}
}

// NurseryByID returns the owned nursery with id, or nil
func (f *Farm) NurseryByID(id uint64) *Nursery {
	for _, n := range f.Nurseries {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Link restores the in-memory parent pointers below the farm
func (f *Farm) Link() {
	for _, n := range f.Nurseries {
		n.Farm = f
		n.Link()
	}
}
