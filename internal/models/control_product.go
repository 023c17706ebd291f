package models

import (
	"time"

	"github.com/localnerve/viverodb/internal/types"
	"github.com/shopspring/decimal"
)

// ProductKind tags the payload a ControlProduct carries
type ProductKind string

const (
	KindFungicide  ProductKind = "fungicide"
	KindPest       ProductKind = "pest"
	KindFertilizer ProductKind = "fertilizer"
)

// ProductKinds lists the accepted kinds in display order
var ProductKinds = []ProductKind{KindFungicide, KindPest, KindFertilizer}

// ParseProductKind accepts a kind name, case-sensitive
func ParseProductKind(s string) (ProductKind, bool) {
	for _, k := range ProductKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ControlProduct holds the attributes shared by every control product. Exactly one of
// Fungicide, Pest or Fertilizer is set, and it must match Kind.
type ControlProduct struct {
	ID            uint64              `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind          ProductKind         `gorm:"size:16;not null;index" json:"kind" validate:"required,oneof=fungicide pest fertilizer"`
	ICARegistry   string              `gorm:"column:ica_registry;uniqueIndex;size:64;not null" json:"icaRegistry" validate:"notblank,max=64"`
	Name          string              `gorm:"size:255;not null" json:"name" validate:"notblank,max=255"`
	FrequencyDays *int                `gorm:"not null" json:"frequencyDays" validate:"required,gte=0"`
	Value         decimal.NullDecimal `gorm:"type:decimal(14,2);not null" json:"value" validate:"required"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Fungicide     *FungicideDetail    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"fungicide,omitempty"`
	Pest          *PestDetail         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"pest,omitempty"`
	Fertilizer    *FertilizerDetail   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"fertilizer,omitempty"`
}

// TableName overrides the table name for ControlProduct
func (ControlProduct) TableName() string {
	return "control_products"
}

// FungicideDetail is the payload of a fungicide
type FungicideDetail struct {
	ProductID      uint64 `gorm:"primaryKey;autoIncrement:false" json:"-"`
	QuarantineDays *int   `gorm:"not null" json:"quarantineDays" validate:"required,gte=0"`
	FungusName     string `gorm:"size:255;not null;index" json:"fungusName" validate:"notblank,max=255"`
}

// TableName overrides the table name for FungicideDetail
func (FungicideDetail) TableName() string {
	return "fungicide_details"
}

// PestDetail is the payload of a pest control product
type PestDetail struct {
	ProductID      uint64 `gorm:"primaryKey;autoIncrement:false" json:"-"`
	QuarantineDays *int   `gorm:"not null" json:"quarantineDays" validate:"required,gte=0"`
}

// TableName overrides the table name for PestDetail
func (PestDetail) TableName() string {
	return "pest_details"
}

// FertilizerDetail is the payload of a fertilizer
type FertilizerDetail struct {
	ProductID       uint64     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	LastApplication types.Date `gorm:"not null" json:"lastApplication" validate:"required"`
}

// TableName overrides the table name for FertilizerDetail
func (FertilizerDetail) TableName() string {
	return "fertilizer_details"
}

// NewFungicide builds a fungicide product
func NewFungicide(ica, name string, frequencyDays int, value decimal.Decimal, quarantineDays int, fungus string) *ControlProduct {
	p := newProduct(KindFungicide, ica, name, frequencyDays, value)
	p.Fungicide = &FungicideDetail{QuarantineDays: &quarantineDays, FungusName: fungus}
	return p
}

// NewPest builds a pest control product
func NewPest(ica, name string, frequencyDays int, value decimal.Decimal, quarantineDays int) *ControlProduct {
	p := newProduct(KindPest, ica, name, frequencyDays, value)
	p.Pest = &PestDetail{QuarantineDays: &quarantineDays}
	return p
}

// NewFertilizer builds a fertilizer product
func NewFertilizer(ica, name string, frequencyDays int, value decimal.Decimal, lastApplication types.Date) *ControlProduct {
	p := newProduct(KindFertilizer, ica, name, frequencyDays, value)
	p.Fertilizer = &FertilizerDetail{LastApplication: lastApplication}
	return p
}

func newProduct(kind ProductKind, ica, name string, frequencyDays int, value decimal.Decimal) *ControlProduct {
	return &ControlProduct{
		Kind:          kind,
		ICARegistry:   ica,
		Name:          name,
		FrequencyDays: &frequencyDays,
		Value:         decimal.NewNullDecimal(value),
	}
}

// payloadCount returns how many detail payloads are set
func (p *ControlProduct) payloadCount() int {
	n := 0
	if p.Fungicide != nil {
		n++
	}
	if p.Pest != nil {
		n++
	}
	if p.Fertilizer != nil {
		n++
	}
	return n
}

// Validate checks shared fields, then that exactly one payload is set and agrees with Kind
func (p *ControlProduct) Validate() error {
	if err := validateStruct("product", p); err != nil {
		return err
	}

	if p.payloadCount() != 1 {
		return types.NewValidationError("product: exactly one of fungicide, pest or fertilizer is required")
	}

	var matches bool
	switch p.Kind {
	case KindFungicide:
		matches = p.Fungicide != nil
	case KindPest:
		matches = p.Pest != nil
	case KindFertilizer:
		matches = p.Fertilizer != nil
	}
	if !matches {
		return types.NewValidationError("product: kind %q does not match the payload", p.Kind)
	}
	return nil
}

// QuarantineDays returns the quarantine period of a fungicide or pest product
func (p *ControlProduct) QuarantineDays() (int, bool) {
	switch {
	case p.Fungicide != nil && p.Fungicide.QuarantineDays != nil:
		return *p.Fungicide.QuarantineDays, true
	case p.Pest != nil && p.Pest.QuarantineDays != nil:
		return *p.Pest.QuarantineDays, true
	}
	return 0, false
}

// SharedOnly returns a copy without the detail payload
func (p *ControlProduct) SharedOnly() *ControlProduct {
	c := *p
	c.Fungicide, c.Pest, c.Fertilizer = nil, nil, nil
	return &c
}

// setPayloadKey points the payload row at the product id after the base row is created
func (p *ControlProduct) setPayloadKey() {
	switch {
	case p.Fungicide != nil:
		p.Fungicide.ProductID = p.ID
	case p.Pest != nil:
		p.Pest.ProductID = p.ID
	case p.Fertilizer != nil:
		p.Fertilizer.ProductID = p.ID
	}
}

// Payload returns the detail row to persist next to the base row, keyed by the product id
func (p *ControlProduct) Payload() interface{} {
	p.setPayloadKey()
	switch {
	case p.Fungicide != nil:
		return p.Fungicide
	case p.Pest != nil:
		return p.Pest
	case p.Fertilizer != nil:
		return p.Fertilizer
	}
	return nil
}
