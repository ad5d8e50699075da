package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID   map[string]*Product
	byCode map[string]*Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*Product{}, byCode: map[string]*Product{}}
}

func (f *fakeRepo) Create(_ context.Context, p *Product) error {
	f.byID[p.ID.String()] = p
	f.byCode[p.Code] = p
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (*Product, error) {
	p, ok := f.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) List(_ context.Context, activeOnly bool) ([]*Product, error) {
	var out []*Product
	for _, p := range f.byID {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, p *Product) error {
	if _, ok := f.byID[p.ID.String()]; !ok {
		return ErrNotFound
	}
	f.byID[p.ID.String()] = p
	f.byCode[p.Code] = p
	return nil
}

func (f *fakeRepo) SetActive(_ context.Context, id string, active bool) error {
	p, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.IsActive = active
	return nil
}

func validCreate() CreateProductRequest {
	return CreateProductRequest{
		Code:       "RICE-PREM-01",
		Name:       "Premium Basmati",
		Quality:    "premium",
		PricePerKg: decimal.RequireFromString("55.50"),
	}
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, QualityPremium, p.Quality)
	assert.False(t, p.Bagged())
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	req := validCreate()
	req.Quality = "deluxe"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quality")

	req = validCreate()
	req.PricePerKg = decimal.Zero
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	req = validCreate()
	req.Code = "  "
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
}

func TestBagPricingComesAsPair(t *testing.T) {
	svc := NewService(newFakeRepo())

	req := validCreate()
	req.BagSizeKg = decimal.NewNullDecimal(decimal.NewFromInt(25))
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err, "bag size without bag price rejected")

	req.PricePerBag = decimal.NewNullDecimal(decimal.RequireFromString("1350.005"))
	p, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, p.Bagged())
	assert.True(t, p.PricePerBag.Decimal.Equal(decimal.RequireFromString("1350.01")), "bag price rounded to 2dp")
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("60")
	updated, err := svc.Update(context.Background(), p.ID.String(), UpdateProductRequest{PricePerKg: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.PricePerKg.Equal(newPrice))
	assert.Equal(t, p.Name, updated.Name)
	assert.Equal(t, p.Code, updated.Code, "code is immutable")
}

func TestDeactivateIsSoft(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), p.ID.String()))
	got, err := svc.Get(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Reactivate(context.Background(), p.ID.String()))
	got, err = svc.Get(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}
