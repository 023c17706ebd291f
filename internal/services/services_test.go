package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localnerve/viverodb/data"
	"github.com/localnerve/viverodb/internal/logger"
	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/services"
	"github.com/localnerve/viverodb/internal/store"
	"github.com/localnerve/viverodb/internal/testutil"
	"github.com/localnerve/viverodb/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *store.GormStore
	metrics  *metrics.Metrics
	producer *services.ProducerService
	farm     *services.FarmService
	task     *services.TaskService
	product  *services.ProductService
}

func setup(t *testing.T) *fixture {
	s := store.New(testutil.OpenMemoryDB(t))
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	log := logger.Discard()
	return &fixture{
		store:    s,
		metrics:  m,
		producer: services.NewProducerService(s, log, m),
		farm:     services.NewFarmService(s, log, m),
		task:     services.NewTaskService(s, log, m),
		product:  services.NewProductService(s, log, m),
	}
}

func producer(document string) *models.Producer {
	return &models.Producer{Document: document, FirstName: "Ana", LastName: "Ruiz", Phone: "3001234567"}
}

func farm(number string) *models.Farm {
	return &models.Farm{CadastralNumber: number, Municipality: "Medellín"}
}

func day(d int) types.Date {
	return types.NewDate(2025, time.November, d)
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	var n int64
	require.NoError(t, f.store.DB().Model(model).Count(&n).Error)
	return n
}

// nursery registers a producer, a farm and a nursery and returns the nursery
func (f *fixture) nursery(t *testing.T) *models.Nursery {
	ctx := context.Background()
	p, err := f.producer.RegisterProducer(ctx, producer("N-"+t.Name()))
	require.NoError(t, err)
	fm, err := f.producer.AddFarmToProducer(ctx, p.ID, farm("F-"+t.Name()))
	require.NoError(t, err)
	n, err := f.farm.AddNurseryToFarm(ctx, fm.ID, &models.Nursery{Code: "VIV-001", CropType: "Café"})
	require.NoError(t, err)
	return n
}

func TestRegisterProducer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.producer.RegisterProducer(ctx, producer("1234567890"))
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RecordsCreated.WithLabelValues("producer")))

	_, err = f.producer.RegisterProducer(ctx, &models.Producer{Document: "1", FirstName: " ", LastName: "Ruiz"})
	assert.True(t, errors.Is(err, types.ErrValidation))

	_, err = f.producer.RegisterProducer(ctx, nil)
	assert.True(t, errors.Is(err, types.ErrValidation))
}

// TestDuplicateDocument tests a second registration with the same document is rejected
func TestDuplicateDocument(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.producer.RegisterProducer(ctx, producer("1234567890"))
	require.NoError(t, err)

	second := producer("1234567890")
	second.FirstName = "Otro"
	_, err = f.producer.RegisterProducer(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDuplicateKey))

	assert.Equal(t, int64(1), f.count(t, &models.Producer{}))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.Rejections.WithLabelValues("duplicate")))
}

func TestRegisterProducerWithFarms(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.producer.RegisterProducerWithFarms(ctx, producer("1001"), []*models.Farm{farm("CAT-1"), farm("CAT-2")})
	require.NoError(t, err)
	require.Len(t, p.Farms, 2)
	for _, fm := range p.Farms {
		assert.NotZero(t, fm.ID)
		assert.Equal(t, p.ID, fm.ProducerID)
	}

	// farms taken from the producer body
	body := producer("1002")
	body.Farms = []*models.Farm{farm("CAT-3")}
	p2, err := f.producer.RegisterProducerWithFarms(ctx, body, nil)
	require.NoError(t, err)
	assert.Len(t, p2.Farms, 1)
}

// TestRegisterProducerWithFarmsRollsBack tests a duplicate cadastral number leaves nothing behind
func TestRegisterProducerWithFarmsRollsBack(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.producer.RegisterProducerWithFarms(ctx, producer("1001"), []*models.Farm{farm("CAT-1")})
	require.NoError(t, err)

	_, err = f.producer.RegisterProducerWithFarms(ctx, producer("2002"), []*models.Farm{farm("CAT-9"), farm("CAT-1")})
	assert.True(t, errors.Is(err, types.ErrDuplicateKey))

	_, err = f.producer.RegisterProducerWithFarms(ctx, producer("3003"), []*models.Farm{farm("CAT-8"), farm("CAT-8")})
	assert.True(t, errors.Is(err, types.ErrDuplicateKey))

	// Attached farms carry no rolled-back ids
	rejected := producer("4004")
	_, err = f.producer.RegisterProducerWithFarms(ctx, rejected, []*models.Farm{farm("CAT-7"), farm("CAT-1")})
	assert.True(t, errors.Is(err, types.ErrDuplicateKey))
	assert.Zero(t, rejected.ID)
	require.Len(t, rejected.Farms, 1)
	assert.Zero(t, rejected.Farms[0].ID)
	assert.Zero(t, rejected.Farms[0].ProducerID)
	assert.Same(t, rejected, rejected.Farms[0].Producer)

	// Blank cadastral numbers fail validation before the duplicate check
	_, err = f.producer.RegisterProducerWithFarms(ctx, producer("5005"), []*models.Farm{farm(""), farm("")})
	assert.True(t, errors.Is(err, types.ErrValidation))

	found, err := f.producer.FindByDocument(ctx, "2002")
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.Equal(t, int64(1), f.count(t, &models.Producer{}))
	assert.Equal(t, int64(1), f.count(t, &models.Farm{}))
}

func TestProducerReads(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, doc := range []string{"3", "1", "2"} {
		_, err := f.producer.RegisterProducer(ctx, producer(doc))
		require.NoError(t, err)
	}

	all, err := f.producer.GetAllProducers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Less(t, all[0].ID, all[1].ID)
	assert.Equal(t, "3", all[0].Document)

	found, err := f.producer.FindByDocument(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := f.producer.FindByDocument(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := f.producer.GetProducerWithFarms(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, none)
}

// TestAddFarmToProducer tests the farm is listed after reload and points back at its producer
func TestAddFarmToProducer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.producer.RegisterProducer(ctx, producer("1001"))
	require.NoError(t, err)

	fm, err := f.producer.AddFarmToProducer(ctx, p.ID, farm("CAT-001"))
	require.NoError(t, err)
	assert.NotZero(t, fm.ID)

	reloaded, err := f.producer.GetProducerWithFarms(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Farms, 1)
	assert.Equal(t, fm.ID, reloaded.Farms[0].ID)
	assert.Equal(t, p.ID, reloaded.Farms[0].ProducerID)

	farms, err := f.producer.GetFarmsByProducer(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, farms, 1)

	_, err = f.producer.AddFarmToProducer(ctx, p.ID, farm("CAT-001"))
	assert.True(t, errors.Is(err, types.ErrDuplicateKey))

	_, err = f.producer.AddFarmToProducer(ctx, 999, farm("CAT-002"))
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = f.producer.GetFarmsByProducer(ctx, 999)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestUpdateProducer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.producer.RegisterProducer(ctx, producer("1001"))
	require.NoError(t, err)

	updated, err := f.producer.UpdateProducer(ctx, p.ID, &models.Producer{
		Document:  "changed",
		FirstName: "Juan",
		LastName:  "Pérez",
		Phone:     "3110000000",
		Email:     "juan@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "1001", updated.Document)
	assert.Equal(t, "Juan", updated.FirstName)
	assert.Equal(t, "juan@example.com", updated.Email)

	_, err = f.producer.UpdateProducer(ctx, p.ID, &models.Producer{FirstName: "Juan", LastName: "Pérez", Email: "bad"})
	assert.True(t, errors.Is(err, types.ErrValidation))

	_, err = f.producer.UpdateProducer(ctx, 999, producer("x"))
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

// TestDeleteProducerCascades tests N farms with M nurseries each leave no rows behind
func TestDeleteProducerCascades(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.producer.RegisterProducerWithFarms(ctx, producer("1001"),
		[]*models.Farm{farm("CAT-1"), farm("CAT-2"), farm("CAT-3")})
	require.NoError(t, err)
	for _, fm := range p.Farms {
		for i := 0; i < 2; i++ {
			n, err := f.farm.AddNurseryToFarm(ctx, fm.ID, &models.Nursery{Code: "V", CropType: "Café"})
			require.NoError(t, err)
			_, err = f.task.RegisterTask(ctx, &models.Task{Date: day(10), Description: "Riego"}, n.ID)
			require.NoError(t, err)
		}
	}
	require.Equal(t, int64(6), f.count(t, &models.Nursery{}))

	require.NoError(t, f.producer.DeleteProducer(ctx, p.ID))
	assert.Zero(t, f.count(t, &models.Producer{}))
	assert.Zero(t, f.count(t, &models.Farm{}))
	assert.Zero(t, f.count(t, &models.Nursery{}))
	assert.Zero(t, f.count(t, &models.Task{}))

	assert.True(t, errors.Is(f.producer.DeleteProducer(ctx, p.ID), types.ErrNotFound))
}

func TestRemoveFarmFromProducer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a, err := f.producer.RegisterProducerWithFarms(ctx, producer("1001"), []*models.Farm{farm("CAT-1"), farm("CAT-2")})
	require.NoError(t, err)
	b, err := f.producer.RegisterProducer(ctx, producer("2002"))
	require.NoError(t, err)

	target := a.Farms[0]
	_, err = f.farm.AddNurseryToFarm(ctx, target.ID, &models.Nursery{Code: "V", CropType: "Café"})
	require.NoError(t, err)

	err = f.producer.RemoveFarmFromProducer(ctx, b.ID, target.ID)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	require.NoError(t, f.producer.RemoveFarmFromProducer(ctx, a.ID, target.ID))
	reloaded, err := f.producer.GetProducerWithFarms(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Farms, 1)
	assert.Equal(t, "CAT-2", reloaded.Farms[0].CadastralNumber)
	assert.Zero(t, f.count(t, &models.Nursery{}))
}

// TestFarmNurseries tests nursery attach, lookups and orphan removal
func TestFarmNurseries(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.producer.RegisterProducerWithFarms(ctx, producer("1001"), []*models.Farm{farm("CAT-1")})
	require.NoError(t, err)
	farmID := p.Farms[0].ID

	coffee, err := f.farm.AddNurseryToFarm(ctx, farmID, &models.Nursery{Code: "VIV-001", CropType: "Café"})
	require.NoError(t, err)
	assert.Equal(t, farmID, coffee.FarmID)
	_, err = f.farm.AddNurseryToFarm(ctx, farmID, &models.Nursery{Code: "VIV-002", CropType: "Plátano"})
	require.NoError(t, err)

	_, err = f.farm.AddNurseryToFarm(ctx, farmID, &models.Nursery{Code: "", CropType: "Café"})
	assert.True(t, errors.Is(err, types.ErrValidation))
	_, err = f.farm.AddNurseryToFarm(ctx, 999, &models.Nursery{Code: "X", CropType: "Café"})
	assert.True(t, errors.Is(err, types.ErrNotFound))

	loaded, err := f.farm.GetFarm(ctx, farmID)
	require.NoError(t, err)
	assert.Len(t, loaded.Nurseries, 2)

	byNumber, err := f.farm.FindByCadastralNumber(ctx, "CAT-1")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, farmID, byNumber.ID)

	byCrop, err := f.farm.GetNurseriesByCropType(ctx, "Café")
	require.NoError(t, err)
	require.Len(t, byCrop, 1)
	assert.Equal(t, coffee.ID, byCrop[0].ID)

	require.NoError(t, f.farm.RemoveNurseryFromFarm(ctx, farmID, coffee.ID))
	remaining, err := f.farm.GetNurseriesByFarm(ctx, farmID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "VIV-002", remaining[0].Code)

	gone, err := f.farm.GetNursery(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// TestTaskOnUnknownNursery tests nothing is written when the nursery does not exist
func TestTaskOnUnknownNursery(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.task.RegisterTask(ctx, &models.Task{Date: day(10), Description: "Poda"}, 999)
	assert.True(t, errors.Is(err, types.ErrNotFound))
	assert.Zero(t, f.count(t, &models.Task{}))
}

func TestRegisterTaskWithProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	n := f.nursery(t)

	product, err := f.product.RegisterProduct(ctx,
		models.NewFungicide("ICA-HONGO-001", "Fungicida Premium", 15, decimal.RequireFromString("45000.00"), 7, "Roya del Café"))
	require.NoError(t, err)

	withProduct, err := f.task.RegisterTaskWithProduct(ctx, &models.Task{Date: day(10), Description: "Fumigación"}, n.ID, &product.ID)
	require.NoError(t, err)
	require.NotNil(t, withProduct.ControlProductID)
	assert.Equal(t, product.ID, *withProduct.ControlProductID)

	// a nil product id is a valid task without a product
	plain, err := f.task.RegisterTaskWithProduct(ctx, &models.Task{Date: day(11), Description: "Poda"}, n.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, plain.ControlProductID)
	assert.Nil(t, plain.ControlProduct)

	unknown := uint64(999)
	_, err = f.task.RegisterTaskWithProduct(ctx, &models.Task{Date: day(12), Description: "X"}, n.ID, &unknown)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = f.task.RegisterTask(ctx, &models.Task{Description: "sin fecha"}, n.ID)
	assert.True(t, errors.Is(err, types.ErrValidation))

	byProduct, err := f.task.GetTasksByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, byProduct, 1)
	assert.Equal(t, int64(2), f.count(t, &models.Task{}))
}

// TestTasksByDateRange tests only tasks inside the inclusive range are returned
func TestTasksByDateRange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	n := f.nursery(t)

	for _, d := range []int{5, 10, 15} {
		_, err := f.task.RegisterTask(ctx, &models.Task{Date: day(d), Description: "Riego"}, n.ID)
		require.NoError(t, err)
	}

	tasks, err := f.task.GetTasksByDateRange(ctx, day(7), day(12))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2025-11-10", tasks[0].Date.String())

	edges, err := f.task.GetTasksByDateRange(ctx, day(5), day(15))
	require.NoError(t, err)
	assert.Len(t, edges, 3)

	_, err = f.task.GetTasksByDateRange(ctx, day(12), day(7))
	assert.True(t, errors.Is(err, types.ErrValidation))

	exact, err := f.task.GetTasksByDate(ctx, day(15))
	require.NoError(t, err)
	assert.Len(t, exact, 1)

	byNursery, err := f.task.GetTasksByNursery(ctx, n.ID)
	require.NoError(t, err)
	assert.Len(t, byNursery, 3)

	all, err := f.task.GetAllTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestUpdateTask tests only the date and description change
func TestUpdateTask(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	n := f.nursery(t)

	product, err := f.product.RegisterProduct(ctx,
		models.NewPest("ICA-PLAGA-001", "Insecticida Orgánico", 10, decimal.RequireFromString("52000.00"), 5))
	require.NoError(t, err)
	task, err := f.task.RegisterTaskWithProduct(ctx, &models.Task{Date: day(5), Description: "Control"}, n.ID, &product.ID)
	require.NoError(t, err)

	updated, err := f.task.UpdateTask(ctx, task.ID, &models.Task{Date: day(20), Description: "Control de insectos", NurseryID: 999})
	require.NoError(t, err)
	assert.Equal(t, "2025-11-20", updated.Date.String())

	reloaded, err := f.task.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, "Control de insectos", reloaded.Description)
	assert.Equal(t, n.ID, reloaded.NurseryID)
	require.NotNil(t, reloaded.ControlProductID)
	assert.Equal(t, product.ID, *reloaded.ControlProductID)

	_, err = f.task.UpdateTask(ctx, 999, &models.Task{Date: day(1), Description: "x"})
	assert.True(t, errors.Is(err, types.ErrNotFound))

	require.NoError(t, f.task.DeleteTask(ctx, task.ID))
	assert.True(t, errors.Is(f.task.DeleteTask(ctx, task.ID), types.ErrNotFound))

	missing, err := f.task.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProducts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	value := decimal.RequireFromString("75000.00")

	fert, err := f.product.RegisterProduct(ctx, models.NewFertilizer("ICA-FERT-001", "NPK 10-10-10", 30, value, types.NewDate(2024, time.October, 1)))
	require.NoError(t, err)
	_, err = f.product.RegisterProduct(ctx, models.NewFungicide("ICA-HONGO-002", "Antifúngico", 20, value, 10, "Mildiu"))
	require.NoError(t, err)

	_, err = f.product.RegisterProduct(ctx, models.NewPest("ICA-FERT-001", "Otro", 1, value, 1))
	assert.True(t, errors.Is(err, types.ErrDuplicateKey))

	mismatched := models.NewPest("ICA-X", "Mal", 1, value, 1)
	mismatched.Kind = models.KindFertilizer
	_, err = f.product.RegisterProduct(ctx, mismatched)
	assert.True(t, errors.Is(err, types.ErrValidation))

	got, err := f.product.GetProduct(ctx, fert.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Fertilizer)

	byCode, err := f.product.FindByICARegistry(ctx, "ICA-HONGO-002")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, "Mildiu", byCode.Fungicide.FungusName)

	none, err := f.product.FindByICARegistry(ctx, "ICA-NONE")
	require.NoError(t, err)
	assert.Nil(t, none)

	all, err := f.product.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	fungicides, err := f.product.GetProductsByKind(ctx, "fungicide")
	require.NoError(t, err)
	require.Len(t, fungicides, 1)
	require.NotNil(t, fungicides[0].Fungicide)

	_, err = f.product.GetProductsByKind(ctx, "herbicide")
	assert.True(t, errors.Is(err, types.ErrValidation))

	mildiu, err := f.product.GetFungicidesByFungusName(ctx, "Mildiu")
	require.NoError(t, err)
	assert.Len(t, mildiu, 1)
}

// TestDeleteProductInUse tests a referenced product is kept
func TestDeleteProductInUse(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	n := f.nursery(t)

	product, err := f.product.RegisterProduct(ctx,
		models.NewPest("ICA-PLAGA-002", "Control Total", 12, decimal.RequireFromString("48000.00"), 7))
	require.NoError(t, err)
	task, err := f.task.RegisterTaskWithProduct(ctx, &models.Task{Date: day(3), Description: "Control"}, n.ID, &product.ID)
	require.NoError(t, err)

	err = f.product.DeleteProduct(ctx, product.ID)
	assert.True(t, errors.Is(err, types.ErrInUse))

	require.NoError(t, f.task.DeleteTask(ctx, task.ID))
	require.NoError(t, f.product.DeleteProduct(ctx, product.ID))
	assert.True(t, errors.Is(f.product.DeleteProduct(ctx, product.ID), types.ErrNotFound))
	assert.Zero(t, f.count(t, &models.PestDetail{}))
}

func TestSeed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	seeder := services.NewSeeder(f.store, logger.Discard(), f.metrics)

	summary, err := seeder.Seed(ctx, data.Seed)
	require.NoError(t, err)
	assert.False(t, summary.Skipped)
	assert.Equal(t, 6, summary.Products)
	assert.Equal(t, 3, summary.Producers)
	assert.Equal(t, 4, summary.Farms)
	assert.Equal(t, 5, summary.Nurseries)
	assert.Equal(t, 8, summary.Tasks)

	juan, err := f.producer.FindByDocument(ctx, "1234567890")
	require.NoError(t, err)
	require.NotNil(t, juan)

	roya, err := f.product.GetFungicidesByFungusName(ctx, "Roya del Café")
	require.NoError(t, err)
	require.Len(t, roya, 1)
	used, err := f.task.GetTasksByProduct(ctx, roya[0].ID)
	require.NoError(t, err)
	assert.Len(t, used, 1)

	again, err := seeder.Seed(ctx, data.Seed)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
}
