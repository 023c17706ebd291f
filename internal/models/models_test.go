package models

import (
	"errors"
	"testing"
	"time"

	"github.com/localnerve/viverodb/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProducer() *Producer {
	return &Producer{ID: 1, Document: "1001", FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com"}
}

// TestProducerFarmEdge tests attach and detach keep both sides in step
func TestProducerFarmEdge(t *testing.T) {
	p := validProducer()
	farm := &Farm{ID: 10, CadastralNumber: "C-1", Municipality: "Tunja"}

	p.AddFarm(farm)
	require.Len(t, p.Farms, 1)
	assert.Same(t, p, farm.Producer)
	assert.Equal(t, p.ID, farm.ProducerID)

	// Adding again does not duplicate
	p.AddFarm(farm)
	assert.Len(t, p.Farms, 1)
	assert.Same(t, farm, p.FarmByID(10))

	p.RemoveFarm(farm)
	assert.Empty(t, p.Farms)
	assert.Nil(t, farm.Producer)
	assert.Zero(t, farm.ProducerID)
}

func TestFarmMovesBetweenProducers(t *testing.T) {
	a := validProducer()
	b := &Producer{ID: 2, Document: "1002", FirstName: "Luis", LastName: "Mora"}
	farm := &Farm{CadastralNumber: "C-2", Municipality: "Paipa"}

	a.AddFarm(farm)
	b.AddFarm(farm)

	assert.Empty(t, a.Farms)
	require.Len(t, b.Farms, 1)
	assert.Equal(t, uint64(2), farm.ProducerID)
}

func TestNurseryAndTaskEdges(t *testing.T) {
	farm := &Farm{ID: 3, CadastralNumber: "C-3", Municipality: "Duitama"}
	nursery := &Nursery{ID: 4, Code: "V-1", CropType: "coffee"}
	task := &Task{Date: types.NewDate(2025, time.November, 10), Description: "pruning"}

	farm.AddNursery(nursery)
	nursery.AddTask(task)
	assert.Equal(t, uint64(3), nursery.FarmID)
	assert.Equal(t, uint64(4), task.NurseryID)
	assert.Same(t, nursery, farm.NurseryByID(4))

	nursery.RemoveTask(task)
	assert.Empty(t, nursery.Tasks)
	assert.Nil(t, task.Nursery)
	assert.Zero(t, task.NurseryID)

	farm.RemoveNursery(nursery)
	assert.Empty(t, farm.Nurseries)
	assert.Nil(t, nursery.Farm)
}

// TestRemoveFromNonOwner tests unsaved records keep their owner when another parent drops them
func TestRemoveFromNonOwner(t *testing.T) {
	owner := &Producer{Document: "1001"}
	other := &Producer{Document: "1002"}
	farm := &Farm{CadastralNumber: "C-7"}

	owner.AddFarm(farm)
	other.RemoveFarm(farm)
	require.Len(t, owner.Farms, 1)
	assert.Same(t, owner, farm.Producer)

	farmB := &Farm{CadastralNumber: "C-8"}
	nursery := &Nursery{Code: "V-7"}
	owner.Farms[0].AddNursery(nursery)
	farmB.RemoveNursery(nursery)
	require.Len(t, farm.Nurseries, 1)
	assert.Same(t, farm, nursery.Farm)

	task := &Task{Description: "weeding"}
	nursery.AddTask(task)
	(&Nursery{Code: "V-8"}).RemoveTask(task)
	require.Len(t, nursery.Tasks, 1)
	assert.Same(t, nursery, task.Nursery)

	// The real owner still detaches
	owner.RemoveFarm(farm)
	assert.Empty(t, owner.Farms)
	assert.Nil(t, farm.Producer)
}

func TestLinkRestoresParents(t *testing.T) {
	task := &Task{ID: 9}
	nursery := &Nursery{ID: 8, Tasks: []*Task{task}}
	farm := &Farm{ID: 7, Nurseries: []*Nursery{nursery}}
	p := &Producer{ID: 6, Farms: []*Farm{farm}}

	p.Link()
	assert.Same(t, p, farm.Producer)
	assert.Same(t, farm, nursery.Farm)
	assert.Same(t, nursery, task.Nursery)
}

// TestProducerValidate tests required and formatted fields
func TestProducerValidate(t *testing.T) {
	require.NoError(t, validProducer().Validate())

	p := validProducer()
	p.Document = "   "
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrValidation))
	assert.Contains(t, err.Error(), "document is required")

	p = validProducer()
	p.Email = "not-an-email"
	assert.ErrorContains(t, p.Validate(), "email must be a valid email address")

	p = validProducer()
	p.Email = ""
	assert.NoError(t, p.Validate())
}

func TestOwnedValidation(t *testing.T) {
	farm := &Farm{CadastralNumber: "C-1", Municipality: "Tunja"}
	assert.NoError(t, farm.Validate())
	assert.ErrorContains(t, farm.ValidateOwned(), "producer is required")

	task := &Task{Description: "weeding", NurseryID: 1}
	assert.ErrorContains(t, task.ValidateOwned(), "date is required")

	task.Date = types.NewDate(2025, time.November, 5)
	assert.NoError(t, task.ValidateOwned())
}

func TestTaskPatchAndProduct(t *testing.T) {
	product := NewPest("ICA-9", "Pestex", 15, decimal.RequireFromString("12.50"), 3)
	product.ID = 5

	task := &Task{ID: 1, NurseryID: 2, Date: types.NewDate(2025, time.November, 5), Description: "old"}
	task.UseProduct(product)
	require.NotNil(t, task.ControlProductID)

	task.ApplyPatch(&Task{NurseryID: 99, Date: types.NewDate(2025, time.December, 1), Description: "new"})
	assert.Equal(t, "2025-12-01", task.Date.String())
	assert.Equal(t, "new", task.Description)
	assert.Equal(t, uint64(2), task.NurseryID)
	assert.Equal(t, uint64(5), *task.ControlProductID)

	task.UseProduct(nil)
	assert.Nil(t, task.ControlProductID)
}

// TestControlProductValidate tests kind and payload agreement
func TestControlProductValidate(t *testing.T) {
	value := decimal.RequireFromString("45000.00")

	fungicide := NewFungicide("ICA-1", "Fungex", 7, value, 10, "Roya")
	require.NoError(t, fungicide.Validate())
	days, ok := fungicide.QuarantineDays()
	assert.True(t, ok)
	assert.Equal(t, 10, days)

	fertilizer := NewFertilizer("ICA-2", "Growmax", 30, value, types.NewDate(2025, time.October, 1))
	require.NoError(t, fertilizer.Validate())
	_, ok = fertilizer.QuarantineDays()
	assert.False(t, ok)

	mismatched := NewPest("ICA-3", "Pestex", 15, value, 3)
	mismatched.Kind = KindFungicide
	assert.ErrorContains(t, mismatched.Validate(), "does not match")

	both := NewPest("ICA-4", "Pestex", 15, value, 3)
	both.Fertilizer = &FertilizerDetail{LastApplication: types.NewDate(2025, time.October, 1)}
	assert.ErrorContains(t, both.Validate(), "exactly one")

	noValue := NewPest("ICA-5", "Pestex", 15, value, 3)
	noValue.Value = decimal.NullDecimal{}
	assert.ErrorContains(t, noValue.Validate(), "value is required")

	noFrequency := NewPest("ICA-6", "Pestex", 15, value, 3)
	noFrequency.FrequencyDays = nil
	assert.ErrorContains(t, noFrequency.Validate(), "frequencyDays is required")

	negative := NewPest("ICA-7", "Pestex", -1, value, 3)
	assert.ErrorContains(t, negative.Validate(), "frequencyDays must be greater than or equal to 0")

	blankFungus := NewFungicide("ICA-8", "Fungex", 7, value, 10, " ")
	assert.ErrorContains(t, blankFungus.Validate(), "fungusName is required")

	badKind := NewPest("ICA-9", "Pestex", 15, value, 3)
	badKind.Kind = "herbicide"
	assert.ErrorContains(t, badKind.Validate(), "kind must be one of")
}

func TestPayloadKey(t *testing.T) {
	p := NewFungicide("ICA-1", "Fungex", 7, decimal.NewFromInt(1), 10, "Roya")
	p.ID = 42
	payload, ok := p.Payload().(*FungicideDetail)
	require.True(t, ok)
	assert.Equal(t, uint64(42), payload.ProductID)

	shared := p.SharedOnly()
	assert.Nil(t, shared.Fungicide)
	assert.NotNil(t, p.Fungicide)
}
