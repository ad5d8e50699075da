package inventory

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo keeps stock levels in memory and records every applied entry
// as a ledger row, like the real repository does.
type fakeRepo struct {
	levels map[uuid.UUID]*StockLevel
	ledger []*StockTransaction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{levels: map[uuid.UUID]*StockLevel{}}
}

func (f *fakeRepo) seed(kg decimal.Decimal, bags int) uuid.UUID {
	id := uuid.New()
	f.levels[id] = &StockLevel{ProductID: id, QuantityKg: kg, QuantityBags: bags, MinStockKg: decimal.NewFromInt(50)}
	return id
}

func (f *fakeRepo) ApplyTx(ctx context.Context, _ *sql.Tx, e Entry) error {
	return f.Apply(ctx, e)
}

func (f *fakeRepo) Apply(_ context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	lvl, ok := f.levels[e.ProductID]
	if !ok {
		return ErrNotFound
	}
	newKg := lvl.QuantityKg.Add(e.KgDelta)
	if newKg.IsNegative() {
		return &InsufficientStockError{ProductID: e.ProductID, Unit: "kg", Requested: e.KgDelta.Neg(), Available: lvl.QuantityKg}
	}
	newBags := lvl.QuantityBags + e.BagsDelta
	if newBags < 0 {
		return &InsufficientStockError{
			ProductID: e.ProductID, Unit: "bags",
			Requested: decimal.NewFromInt(int64(-e.BagsDelta)),
			Available: decimal.NewFromInt(int64(lvl.QuantityBags)),
		}
	}
	lvl.QuantityKg, lvl.QuantityBags = newKg, newBags
	f.ledger = append(f.ledger, &StockTransaction{
		ID: uuid.New(), ProductID: e.ProductID, Kind: e.Kind,
		KgChange: e.KgDelta, BagsChange: e.BagsDelta,
		PerformedBy: e.PerformedBy, Notes: e.Notes, CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeRepo) GetLevel(_ context.Context, productID string) (*StockLevel, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	lvl, ok := f.levels[id]
	if !ok {
		return nil, ErrNotFound
	}
	return lvl, nil
}

func (f *fakeRepo) ListLevels(_ context.Context) ([]*StockLevel, error) {
	var out []*StockLevel
	for _, lvl := range f.levels {
		out = append(out, lvl)
	}
	return out, nil
}

func (f *fakeRepo) SetMinStock(_ context.Context, productID string, minKg decimal.Decimal) error {
	lvl, err := f.GetLevel(context.Background(), productID)
	if err != nil {
		return err
	}
	lvl.MinStockKg = minKg
	return nil
}

func (f *fakeRepo) History(_ context.Context, productID string, limit int) ([]*StockTransaction, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	var out []*StockTransaction
	for i := len(f.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if f.ledger[i].ProductID == id {
			out = append(out, f.ledger[i])
		}
	}
	return out, nil
}

func newTestService(repo Repository) Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(repo, log)
}

func TestEntryValidateSignRules(t *testing.T) {
	id := uuid.New()

	err := Entry{ProductID: id, Kind: KindSale, KgDelta: decimal.NewFromInt(5)}.Validate()
	require.Error(t, err, "sale entries must not increase stock")

	err = Entry{ProductID: id, Kind: KindRestock, KgDelta: decimal.NewFromInt(-5)}.Validate()
	require.Error(t, err, "restock entries must not decrease stock")

	err = Entry{ProductID: id, Kind: KindAdjustment, KgDelta: decimal.NewFromInt(-5)}.Validate()
	require.Error(t, err, "adjustments need a reason")

	err = Entry{ProductID: id, Kind: KindAdjustment, KgDelta: decimal.NewFromInt(-5), Notes: "spillage"}.Validate()
	require.NoError(t, err)

	err = Entry{ProductID: id, Kind: "transfer"}.Validate()
	require.Error(t, err)
}

func TestRestock(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(decimal.NewFromInt(100), 5)
	svc := newTestService(repo)

	err := svc.Restock(context.Background(), id.String(), decimal.NewFromInt(40), 2, uuid.New(), "delivery")
	require.NoError(t, err)

	lvl := repo.levels[id]
	assert.True(t, lvl.QuantityKg.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, 7, lvl.QuantityBags)
	require.Len(t, repo.ledger, 1)
	assert.Equal(t, KindRestock, repo.ledger[0].Kind)
}

func TestRestockRejectsNegativeAndZero(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(decimal.NewFromInt(100), 0)
	svc := newTestService(repo)

	err := svc.Restock(context.Background(), id.String(), decimal.NewFromInt(-1), 0, uuid.New(), "")
	require.Error(t, err)

	err = svc.Restock(context.Background(), id.String(), decimal.Zero, 0, uuid.New(), "")
	require.Error(t, err)
	assert.Empty(t, repo.ledger)
}

func TestAdjustRequiresReason(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(decimal.NewFromInt(100), 0)
	svc := newTestService(repo)

	err := svc.Adjust(context.Background(), id.String(), decimal.NewFromInt(-10), 0, uuid.New(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason")

	err = svc.Adjust(context.Background(), id.String(), decimal.NewFromInt(-10), 0, uuid.New(), "spoilage after rain")
	require.NoError(t, err)
	assert.True(t, repo.levels[id].QuantityKg.Equal(decimal.NewFromInt(90)))
}

func TestApplyRefusesNegativeStock(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(decimal.NewFromInt(10), 0)
	svc := newTestService(repo)

	err := svc.Adjust(context.Background(), id.String(), decimal.NewFromInt(-30), 0, uuid.New(), "write-off")
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "kg", stockErr.Unit)
	assert.True(t, repo.levels[id].QuantityKg.Equal(decimal.NewFromInt(10)), "level unchanged on refusal")
	assert.Empty(t, repo.ledger, "no ledger row for a refused entry")
}

func TestEveryLevelChangeHasOneLedgerRow(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(decimal.NewFromInt(100), 0)
	svc := newTestService(repo)

	require.NoError(t, svc.Restock(context.Background(), id.String(), decimal.NewFromInt(50), 0, uuid.New(), ""))
	require.NoError(t, svc.Adjust(context.Background(), id.String(), decimal.NewFromInt(-20), 0, uuid.New(), "recount"))

	assert.Len(t, repo.ledger, 2)
	history, err := svc.History(context.Background(), id.String(), 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSetMinStockRejectsNegative(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(decimal.NewFromInt(100), 0)
	svc := newTestService(repo)

	err := svc.SetMinStock(context.Background(), id.String(), decimal.NewFromInt(-1))
	require.Error(t, err)

	err = svc.SetMinStock(context.Background(), id.String(), decimal.NewFromInt(75))
	require.NoError(t, err)
	assert.True(t, repo.levels[id].MinStockKg.Equal(decimal.NewFromInt(75)))
}
