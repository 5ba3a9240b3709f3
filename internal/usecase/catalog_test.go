package usecase

import (
	"context"
	"testing"

	"PhonePortal/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phoneID(p models.Phone) string { return p.ID }

func testCatalog() *CatalogUseCase {
	phones := newMemStore(phoneID,
		models.Phone{ID: "p1", Brand: "Acme", Model: "One", Price: 20000, Rating: 4.2, RAMGB: 8, StorageGB: 128, BatteryMAh: 5000, CameraMP: 50},
		models.Phone{ID: "p2", Brand: "Zeta", Model: "Pro Max", Price: 45000, Rating: 4.6, RAMGB: 12, StorageGB: 256, BatteryMAh: 4500, CameraMP: 108},
		models.Phone{ID: "p3", Brand: "acme", Model: "Lite", Price: 9000, Rating: 3.9, RAMGB: 4, StorageGB: 64, BatteryMAh: 6000, CameraMP: 13},
	)
	shops := newMemStore(func(s models.Shop) string { return s.ID },
		models.Shop{ID: "s1", City: "Pune", State: "MH", PhoneBrands: []string{"Acme"}, Inventory: []string{"p1"}},
		models.Shop{ID: "s2", City: "pune", State: "MH", PhoneBrands: []string{"Zeta"}, Inventory: []string{"p2", "p3"}},
		models.Shop{ID: "s3", City: "Delhi", State: "DL", PhoneBrands: []string{"Acme", "Zeta"}, Inventory: []string{"p1"}},
	)
	return NewCatalogUseCase(phones, shops)
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func TestFindPhones(t *testing.T) {
	uc := testCatalog()
	cases := []struct {
		name string
		q    models.PhoneQuery
		want []string
	}{
		{"all", models.PhoneQuery{}, []string{"p1", "p2", "p3"}},
		{"brand case-insensitive", models.PhoneQuery{Brand: "ACME"}, []string{"p1", "p3"}},
		{"text in model", models.PhoneQuery{Q: "max"}, []string{"p2"}},
		{"price range", models.PhoneQuery{MinPrice: 10000, MaxPrice: 30000}, []string{"p1"}},
		{"ram and storage", models.PhoneQuery{RAMMin: 8, StorageMin: 256}, []string{"p2"}},
		{"model id", models.PhoneQuery{ModelID: "p3"}, []string{"p3"}},
		{"price asc", models.PhoneQuery{Sort: "price_asc"}, []string{"p3", "p1", "p2"}},
		{"price desc", models.PhoneQuery{Sort: "price_desc"}, []string{"p2", "p1", "p3"}},
		{"rating desc", models.PhoneQuery{Sort: "rating_desc"}, []string{"p2", "p1", "p3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uc.FindPhones(context.Background(), tc.q)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got, phoneID))
		})
	}
}

func TestGetPhone(t *testing.T) {
	uc := testCatalog()
	p, err := uc.GetPhone(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Zeta", p.Brand)

	_, err = uc.GetPhone(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindShops(t *testing.T) {
	uc := testCatalog()
	shopID := func(s models.Shop) string { return s.ID }

	got, err := uc.FindShops(context.Background(), models.ShopQuery{City: "PUNE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids(got, shopID))

	got, err = uc.FindShops(context.Background(), models.ShopQuery{ModelID: "p1", Brand: "zeta"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s3"}, ids(got, shopID), "model id wins over brand")

	got, err = uc.FindShops(context.Background(), models.ShopQuery{Brand: "zeta"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s3"}, ids(got, shopID))
}

func TestCompare(t *testing.T) {
	uc := testCatalog()
	res, err := uc.Compare(context.Background(), "p1", "p2")
	require.NoError(t, err)

	require.Len(t, res.PerSpec, 6)
	winners := map[string]string{}
	for _, s := range res.PerSpec {
		winners[s.Spec] = s.Winner
	}
	assert.Equal(t, map[string]string{
		"rating": "right", "price": "left", "ram_gb": "right",
		"storage_gb": "right", "battery_mah": "left", "camera_mp": "right",
	}, winners)

	// left wins price (.25) and battery (.12), right the rest (.63)
	assert.InDelta(t, 37, res.ScoreLeft, 1e-9)
	assert.InDelta(t, 63, res.ScoreRight, 1e-9)
	require.NotNil(t, res.Recommended)
	assert.Equal(t, "p2", res.Recommended.ID)
	assert.Len(t, res.Explanations, 6)
	assert.Equal(t, "Zeta Pro Max has better Rating (out of 5) (4.6 vs 4.2).", res.Explanations[0])
	assert.Contains(t, res.Summary, "Recommendation: Zeta Pro Max (score 63 vs 37) because: ")
}

func TestCompareSamePhoneTies(t *testing.T) {
	uc := testCatalog()
	res, err := uc.Compare(context.Background(), "p1", "p1")
	require.NoError(t, err)
	assert.Nil(t, res.Recommended)
	assert.Equal(t, 50.0, res.ScoreLeft)
	assert.Empty(t, res.Explanations)
	for _, s := range res.PerSpec {
		assert.Equal(t, "tie", s.Winner)
		assert.Equal(t, 0.5, s.LeftScore)
	}
}

func TestCompareErrors(t *testing.T) {
	uc := testCatalog()
	_, err := uc.Compare(context.Background(), "p1", " ")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "provide id1 and id2", verr.Message)

	_, err = uc.Compare(context.Background(), "p1", "zz")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNormalizePairLowerIsBetter(t *testing.T) {
	s1, s2 := normalizePair(100, 300, false)
	assert.Equal(t, 1.0, s1)
	assert.Equal(t, 0.0, s2)
}
