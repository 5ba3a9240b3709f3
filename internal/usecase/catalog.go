package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
	"PhonePortal/pkg/util"

	"github.com/shopspring/decimal"
)

// CatalogUseCase serves the phone finder, shop locator and comparison tool
// from read-only catalog files.
type CatalogUseCase struct {
	phones domrepo.RecordReader[models.Phone]
	shops  domrepo.RecordReader[models.Shop]
}

func NewCatalogUseCase(phones domrepo.RecordReader[models.Phone], shops domrepo.RecordReader[models.Shop]) *CatalogUseCase {
	return &CatalogUseCase{phones: phones, shops: shops}
}

// FindPhones filters the catalog. Zero numeric bounds are ignored.
func (uc *CatalogUseCase) FindPhones(ctx context.Context, q models.PhoneQuery) ([]models.Phone, error) {
	phones, err := uc.phones.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load phones: %w", err)
	}
	text := util.Normalize(q.Q)
	brand := util.Normalize(q.Brand)

	out := make([]models.Phone, 0, len(phones))
	for _, p := range phones {
		switch {
		case q.ModelID != "" && p.ID != q.ModelID:
		case brand != "" && util.Normalize(p.Brand) != brand:
		case text != "" && !strings.Contains(util.Normalize(p.Brand), text) && !strings.Contains(util.Normalize(p.Model), text):
		case q.MinPrice > 0 && p.Price < float64(q.MinPrice):
		case q.MaxPrice > 0 && p.Price > float64(q.MaxPrice):
		case q.RAMMin > 0 && p.RAMGB < float64(q.RAMMin):
		case q.StorageMin > 0 && p.StorageGB < float64(q.StorageMin):
		default:
			out = append(out, p)
		}
	}

	switch q.Sort {
	case "price_asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "price_desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case "rating_desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out, nil
}

// GetPhone returns the catalog entry with id.
func (uc *CatalogUseCase) GetPhone(ctx context.Context, id string) (models.Phone, error) {
	phones, err := uc.phones.GetAll(ctx)
	if err != nil {
		return models.Phone{}, fmt.Errorf("load phones: %w", err)
	}
	for _, p := range phones {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Phone{}, fmt.Errorf("phone %q: %w", id, models.ErrNotFound)
}

// FindShops filters shops by location and stock. A model id takes
// precedence over a brand.
func (uc *CatalogUseCase) FindShops(ctx context.Context, q models.ShopQuery) ([]models.Shop, error) {
	shops, err := uc.shops.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shops: %w", err)
	}
	city, state, brand := util.Normalize(q.City), util.Normalize(q.State), util.Normalize(q.Brand)

	out := make([]models.Shop, 0, len(shops))
	for _, s := range shops {
		if city != "" && util.Normalize(s.City) != city {
			continue
		}
		if state != "" && util.Normalize(s.State) != state {
			continue
		}
		if q.ModelID != "" {
			if !contains(s.Inventory, q.ModelID, false) {
				continue
			}
		} else if brand != "" && !contains(s.PhoneBrands, brand, true) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func contains(list []string, v string, fold bool) bool {
	for _, x := range list {
		if fold {
			x = util.Normalize(x)
		}
		if x == v {
			return true
		}
	}
	return false
}

type specWeight struct {
	key            string
	label          string
	weight         float64
	higherIsBetter bool
	value          func(models.Phone) float64
}

var compareSpecs = []specWeight{
	{"rating", "Rating (out of 5)", 0.30, true, func(p models.Phone) float64 { return p.Rating }},
	{"price", "Price (INR)", 0.25, false, func(p models.Phone) float64 { return p.Price }},
	{"ram_gb", "RAM (GB)", 0.15, true, func(p models.Phone) float64 { return p.RAMGB }},
	{"storage_gb", "Storage (GB)", 0.10, true, func(p models.Phone) float64 { return p.StorageGB }},
	{"battery_mah", "Battery (mAh)", 0.12, true, func(p models.Phone) float64 { return p.BatteryMAh }},
	{"camera_mp", "Camera (MP)", 0.08, true, func(p models.Phone) float64 { return p.CameraMP }},
}

// Compare scores two catalog phones on weighted, pairwise-normalised specs
// and recommends the higher total.
func (uc *CatalogUseCase) Compare(ctx context.Context, id1, id2 string) (models.Comparison, error) {
	id1, id2 = strings.TrimSpace(id1), strings.TrimSpace(id2)
	if id1 == "" || id2 == "" {
		return models.Comparison{}, models.Invalid("id1", "provide id1 and id2")
	}
	phones, err := uc.phones.GetAll(ctx)
	if err != nil {
		return models.Comparison{}, fmt.Errorf("load phones: %w", err)
	}
	var left, right *models.Phone
	for i := range phones {
		if left == nil && phones[i].ID == id1 {
			left = &phones[i]
		}
		if right == nil && phones[i].ID == id2 {
			right = &phones[i]
		}
	}
	if left == nil || right == nil {
		return models.Comparison{}, fmt.Errorf("one or both ids not found: %w", models.ErrNotFound)
	}
	return comparePhones(*left, *right), nil
}

func comparePhones(left, right models.Phone) models.Comparison {
	res := models.Comparison{
		Left:         left,
		Right:        right,
		PerSpec:      make([]models.SpecComparison, 0, len(compareSpecs)),
		Explanations: []string{},
	}

	var total1, total2 float64
	for _, spec := range compareSpecs {
		v1, v2 := spec.value(left), spec.value(right)
		s1, s2 := normalizePair(v1, v2, spec.higherIsBetter)
		total1 += spec.weight * s1
		total2 += spec.weight * s2

		winner := "tie"
		switch {
		case math.Abs(s1-s2) < 1e-9:
		case s1 > s2:
			winner = "left"
		default:
			winner = "right"
		}
		res.PerSpec = append(res.PerSpec, models.SpecComparison{
			Spec:       spec.key,
			Label:      spec.label,
			LeftValue:  v1,
			RightValue: v2,
			LeftScore:  round(s1, 3),
			RightScore: round(s2, 3),
			Winner:     winner,
		})

		switch winner {
		case "left":
			res.Explanations = append(res.Explanations, fmt.Sprintf("%s has better %s (%s vs %s).",
				phoneName(left), spec.label, formatValue(v1), formatValue(v2)))
		case "right":
			res.Explanations = append(res.Explanations, fmt.Sprintf("%s has better %s (%s vs %s).",
				phoneName(right), spec.label, formatValue(v2), formatValue(v1)))
		}
	}

	res.ScoreLeft = round(total1*100, 2)
	res.ScoreRight = round(total2*100, 2)

	top := res.Explanations
	if len(top) > 3 {
		top = top[:3]
	}
	switch {
	case res.ScoreLeft == res.ScoreRight:
		res.Summary = "Both phones score equally based on the selected specs and weights."
	case res.ScoreLeft > res.ScoreRight:
		res.Recommended = &models.Recommendation{ID: left.ID, Brand: left.Brand, Model: left.Model, Score: res.ScoreLeft}
		res.Summary = fmt.Sprintf("Recommendation: %s (score %s vs %s) because: %s",
			phoneName(left), formatValue(res.ScoreLeft), formatValue(res.ScoreRight), strings.Join(top, " "))
	default:
		res.Recommended = &models.Recommendation{ID: right.ID, Brand: right.Brand, Model: right.Model, Score: res.ScoreRight}
		res.Summary = fmt.Sprintf("Recommendation: %s (score %s vs %s) because: %s",
			phoneName(right), formatValue(res.ScoreRight), formatValue(res.ScoreLeft), strings.Join(top, " "))
	}
	return res
}

// normalizePair maps v1, v2 onto [0,1] relative to each other. Equal values
// score 0.5 each.
func normalizePair(v1, v2 float64, higherIsBetter bool) (float64, float64) {
	hi, lo := math.Max(v1, v2), math.Min(v1, v2)
	if hi == lo {
		return 0.5, 0.5
	}
	if higherIsBetter {
		return (v1 - lo) / (hi - lo), (v2 - lo) / (hi - lo)
	}
	return (hi - v1) / (hi - lo), (hi - v2) / (hi - lo)
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func phoneName(p models.Phone) string {
	return strings.TrimSpace(p.Brand + " " + p.Model)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
