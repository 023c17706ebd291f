package models

import (
	"time"
)

// Producer is the root aggregate: a person who owns farms
type Producer struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Document  string    `gorm:"uniqueIndex;size:64;not null" json:"document" validate:"notblank,max=64"`
	FirstName string    `gorm:"size:255;not null" json:"firstName" validate:"notblank,max=255"`
	LastName  string    `gorm:"size:255;not null" json:"lastName" validate:"notblank,max=255"`
	Phone     string    `gorm:"size:32" json:"phone" validate:"max=32"`
	Email     string    `gorm:"size:255" json:"email" validate:"omitempty,email,max=255"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Farms     []*Farm   `gorm:"foreignKey:ProducerID;constraint:OnDelete:CASCADE" json:"farms,omitempty" validate:"-"`
}

// TableName overrides the table name for Producer
func (Producer) TableName() string {
	return "producers"
}

// Validate checks the producer's own fields, not its farms
func (p *Producer) Validate() error {
	return validateStruct("producer", p)
}

// AddFarm appends farm to the producer and points the farm back at it
func (p *Producer) AddFarm(farm *Farm) {
	if farm == nil {
		return
	}
	if farm.Producer != nil && farm.Producer != p {
		farm.Producer.RemoveFarm(farm)
	}
	for _, f := range p.Farms {
		if f == farm {
			farm.setOwner(p)
			return
		}
	}
	p.Farms = append(p.Farms, farm)
	farm.setOwner(p)
}

// RemoveFarm drops farm from the producer and clears the farm's owner
func (p *Producer) RemoveFarm(farm *Farm) {
	if farm == nil {
		return
	}
	found := false
	for i, f := range p.Farms {
		if f == farm || (farm.ID != 0 && f.ID == farm.ID) {
			p.Farms = append(p.Farms[:i], p.Farms[i+1:]...)
			found = true
			break
		}
	}
	// A farm linked elsewhere keeps its owner; an unlinked one matches by list or a real id
	if farm.Producer == p || (farm.Producer == nil && (found || (p.ID != 0 && farm.ProducerID == p.ID))) {
		farm.setOwner(nil)
	}
}

// FarmByID returns the owned farm with id, or nil
func (p *Producer) FarmByID(id uint64) *Farm {
	for _, f := range p.Farms {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// ApplyPatch overwrites the name and contact fields. The document is an identity key and is
// never changed here.
func (p *Producer) ApplyPatch(patch *Producer) {
	p.FirstName = patch.FirstName
	p.LastName = patch.LastName
	p.Phone = patch.Phone
	p.Email = patch.Email
}

// Link restores the in-memory parent pointers of a freshly loaded graph
func (p *Producer) Link() {
	for _, f := range p.Farms {
		f.Producer = p
		f.Link()
	}
}
