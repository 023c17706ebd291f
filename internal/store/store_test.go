package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/store"
	"github.com/localnerve/viverodb/internal/testutil"
	"github.com/localnerve/viverodb/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.GormStore {
	return store.New(testutil.OpenMemoryDB(t))
}

func day(d int) types.Date {
	return types.NewDate(2025, time.November, d)
}

// seedGraph creates one producer with farms x nurseries, each nursery holding one task
func seedGraph(t *testing.T, s store.Store, document string, farms, nurseries int) *models.Producer {
	ctx := context.Background()
	p := &models.Producer{Document: document, FirstName: "Ana", LastName: "Ruiz"}
	require.NoError(t, s.SaveProducer(ctx, p))

	for f := 0; f < farms; f++ {
		farm := &models.Farm{CadastralNumber: document + "-F" + string(rune('A'+f)), Municipality: "Tunja"}
		p.AddFarm(farm)
		require.NoError(t, s.SaveFarm(ctx, farm))

		for n := 0; n < nurseries; n++ {
			nursery := &models.Nursery{Code: "V" + string(rune('1'+n)), CropType: "coffee"}
			farm.AddNursery(nursery)
			require.NoError(t, s.SaveNursery(ctx, nursery))

			task := &models.Task{Date: day(10), Description: "pruning"}
			nursery.AddTask(task)
			require.NoError(t, s.SaveTask(ctx, task))
		}
	}
	return p
}

func TestProducerLookups(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedGraph(t, s, "1001", 2, 0)
	require.NotZero(t, p.ID)

	found, err := s.FindProducerByDocument(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	withFarms, err := s.FindProducerWithFarms(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, withFarms.Farms, 2)
	assert.Equal(t, p.ID, withFarms.Farms[0].ProducerID)
	assert.Same(t, withFarms, withFarms.Farms[0].Producer)

	_, err = s.FindProducer(ctx, 999)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	ok, err := s.ExistsProducerByDocument(ctx, "1001")
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := s.CountProducers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// TestUniqueIndexes tests unique violations surface as duplicate key errors
func TestUniqueIndexes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedGraph(t, s, "1001", 1, 0)

	err := s.SaveProducer(ctx, &models.Producer{Document: "1001", FirstName: "B", LastName: "C"})
	assert.True(t, errors.Is(err, types.ErrDuplicateKey), "got %v", err)

	farm := &models.Farm{CadastralNumber: "1001-FA", Municipality: "Paipa", ProducerID: p.ID}
	err = s.SaveFarm(ctx, farm)
	assert.True(t, errors.Is(err, types.ErrDuplicateKey), "got %v", err)
}

// TestDeleteProducerCascades tests the whole subtree is removed
func TestDeleteProducerCascades(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedGraph(t, s, "1001", 3, 2)
	other := seedGraph(t, s, "2002", 1, 1)

	require.NoError(t, s.DeleteProducer(ctx, p.ID))

	db := s.DB()
	var farms, nurseries, tasks int64
	db.Model(&models.Farm{}).Where("producer_id = ?", p.ID).Count(&farms)
	db.Model(&models.Nursery{}).Count(&nurseries)
	db.Model(&models.Task{}).Count(&tasks)
	assert.Zero(t, farms)
	assert.Equal(t, int64(1), nurseries)
	assert.Equal(t, int64(1), tasks)

	remaining, err := s.ListFarmsByProducer(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	assert.True(t, errors.Is(s.DeleteProducer(ctx, p.ID), types.ErrNotFound))
}

func TestDeleteFarmAndNursery(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedGraph(t, s, "1001", 2, 2)

	require.NoError(t, s.DeleteFarm(ctx, p.Farms[0].ID))
	nurseries, err := s.ListNurseriesByFarm(ctx, p.Farms[1].ID)
	require.NoError(t, err)
	require.Len(t, nurseries, 2)

	require.NoError(t, s.DeleteNursery(ctx, nurseries[0].ID))
	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, nurseries[1].ID, tasks[0].NurseryID)
}

// TestTasksByDateRange tests both range ends are inclusive
func TestTasksByDateRange(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedGraph(t, s, "1001", 1, 1)
	nursery := p.Farms[0].Nurseries[0]

	for _, d := range []int{5, 12, 15} {
		task := &models.Task{Date: day(d), Description: "irrigation"}
		nursery.AddTask(task)
		require.NoError(t, s.SaveTask(ctx, task))
	}

	tasks, err := s.ListTasksByDateRange(ctx, day(7), day(12))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "2025-11-10", tasks[0].Date.String())
	assert.Equal(t, "2025-11-12", tasks[1].Date.String())

	exact, err := s.ListTasksByDate(ctx, day(15))
	require.NoError(t, err)
	assert.Len(t, exact, 1)

	byNursery, err := s.ListTasksByNursery(ctx, nursery.ID)
	require.NoError(t, err)
	assert.Len(t, byNursery, 4)
	assert.Equal(t, "2025-11-05", byNursery[0].Date.String())
}

func TestProducts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	value := decimal.RequireFromString("45000.50")

	fungicide := models.NewFungicide("ICA-1", "Fungex", 7, value, 10, "Roya")
	pest := models.NewPest("ICA-2", "Pestex", 15, value, 3)
	fertilizer := models.NewFertilizer("ICA-3", "Growmax", 30, value, day(1))
	for _, p := range []*models.ControlProduct{fungicide, pest, fertilizer} {
		require.NoError(t, s.SaveProduct(ctx, p))
		require.NotZero(t, p.ID)
	}

	found, err := s.FindProduct(ctx, fungicide.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Fungicide)
	assert.Nil(t, found.Pest)
	assert.Equal(t, "Roya", found.Fungicide.FungusName)
	assert.True(t, value.Equal(found.Value.Decimal))

	byCode, err := s.FindProductByICARegistry(ctx, "ICA-3")
	require.NoError(t, err)
	require.NotNil(t, byCode.Fertilizer)
	assert.Equal(t, "2025-11-01", byCode.Fertilizer.LastApplication.String())

	all, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Nil(t, all[0].Fungicide)

	pests, err := s.ListProductsByKind(ctx, models.KindPest)
	require.NoError(t, err)
	require.Len(t, pests, 1)
	require.NotNil(t, pests[0].Pest)
	assert.Equal(t, 3, *pests[0].Pest.QuarantineDays)

	roya, err := s.ListFungicidesByFungusName(ctx, "Roya")
	require.NoError(t, err)
	require.Len(t, roya, 1)
	assert.Equal(t, fungicide.ID, roya[0].ID)

	err = s.SaveProduct(ctx, models.NewPest("ICA-2", "Again", 1, value, 1))
	assert.True(t, errors.Is(err, types.ErrDuplicateKey), "got %v", err)

	require.NoError(t, s.DeleteProduct(ctx, pest.ID))
	var details int64
	s.DB().Model(&models.PestDetail{}).Count(&details)
	assert.Zero(t, details)
}

func TestTaskProductReference(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedGraph(t, s, "1001", 1, 1)
	product := models.NewFungicide("ICA-1", "Fungex", 7, decimal.NewFromInt(100), 10, "Roya")
	require.NoError(t, s.SaveProduct(ctx, product))

	task := &models.Task{Date: day(11), Description: "spraying"}
	p.Farms[0].Nurseries[0].AddTask(task)
	task.UseProduct(product)
	require.NoError(t, s.SaveTask(ctx, task))

	loaded, err := s.FindTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.ControlProduct)
	require.NotNil(t, loaded.ControlProduct.Fungicide)

	byProduct, err := s.ListTasksByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, byProduct, 1)

	count, err := s.CountTasksByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// TestTransactionRollback tests an error from the callback undoes every write
func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx store.Store) error {
		if err := tx.SaveProducer(ctx, &models.Producer{Document: "1001", FirstName: "A", LastName: "B"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := s.ExistsProducerByDocument(ctx, "1001")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNurseryFinders(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedGraph(t, s, "1001", 1, 1)
	nursery := p.Farms[0].Nurseries[0]

	product := models.NewFungicide("ICA-HONGO-001", "Fungicida", 15, decimal.RequireFromString("45000"), 5, "Roya")
	require.NoError(t, s.SaveProduct(ctx, product))
	task := &models.Task{Date: day(3), Description: "spraying"}
	task.UseProduct(product)
	nursery.AddTask(task)
	require.NoError(t, s.SaveTask(ctx, task))

	row, err := s.FindNursery(ctx, nursery.ID)
	require.NoError(t, err)
	assert.Empty(t, row.Tasks)

	full, err := s.FindNurseryWithTasks(ctx, nursery.ID)
	require.NoError(t, err)
	require.Len(t, full.Tasks, 2)
	assert.Equal(t, "spraying", full.Tasks[0].Description)
	require.NotNil(t, full.Tasks[0].ControlProduct)
	days, ok := full.Tasks[0].ControlProduct.QuarantineDays()
	assert.True(t, ok)
	assert.Equal(t, 5, days)
	assert.Same(t, full, full.Tasks[1].Nursery)

	farm, err := s.FindFarm(ctx, p.Farms[0].ID)
	require.NoError(t, err)
	assert.Empty(t, farm.Nurseries)

	farm, err = s.FindFarmWithNurseries(ctx, p.Farms[0].ID)
	require.NoError(t, err)
	require.Len(t, farm.Nurseries, 1)

	_, err = s.FindNurseryWithTasks(ctx, 999)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}
