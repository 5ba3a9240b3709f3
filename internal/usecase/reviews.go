package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
	"PhonePortal/pkg/logger"
	"PhonePortal/pkg/util"

	"github.com/shopspring/decimal"
)

// ReviewList is a filtered page of reviews with their mean rating.
type ReviewList struct {
	Total     int             `json:"total"`
	AvgRating *float64        `json:"avg_rating"`
	Results   []models.Review `json:"results"`
}

type ReviewsUseCase struct {
	reviews domrepo.RecordStore[models.Review]
	metrics domrepo.Metrics
	events  eventEmitter
	ids     idGen
	now     func() time.Time
}

func NewReviewsUseCase(reviews domrepo.RecordStore[models.Review], events domrepo.EventPublisher, metrics domrepo.Metrics, log *logger.Logger) *ReviewsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReviewsUseCase{
		reviews: reviews,
		metrics: metrics,
		events:  eventEmitter{pub: events, metrics: metrics, log: log},
		now:     time.Now,
	}
}

// List returns visible reviews matching q. Sort "highest" orders by rating,
// anything else by creation time, both descending.
func (uc *ReviewsUseCase) List(ctx context.Context, q models.ReviewQuery) (ReviewList, error) {
	all, err := uc.reviews.GetAll(ctx)
	if err != nil {
		return ReviewList{}, fmt.Errorf("load reviews: %w", err)
	}
	text := util.Normalize(q.Q)
	model, city := util.Normalize(q.Model), util.Normalize(q.City)

	out := make([]models.Review, 0, len(all))
	for _, r := range all {
		switch {
		case !r.Visible:
		case model != "" && util.Normalize(r.Model) != model:
		case city != "" && util.Normalize(r.City) != city:
		case q.MinRating > 0 && r.Rating < q.MinRating:
		case !util.ContainsAny(text, r.Title, r.Body, r.ReviewerName, r.Model):
		default:
			out = append(out, r)
		}
	}

	if util.Normalize(q.Sort) == "highest" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	}

	res := ReviewList{Total: len(out), Results: out}
	if len(out) > 0 {
		sum := decimal.Zero
		for _, r := range out {
			sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(out)))).Round(2).InexactFloat64()
		res.AvgRating = &avg
	}
	return res, nil
}

// Create stores a visible review. Rating must be 1..5 and body non-empty.
func (uc *ReviewsUseCase) Create(ctx context.Context, req models.CreateReviewRequest) (models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return models.Review{}, models.Invalid("rating", "rating must be 1..5")
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return models.Review{}, models.Invalid("body", "body is required")
	}

	now := uc.now()
	r := models.Review{
		ID:           uc.ids.next("R", now),
		ReviewerName: strings.TrimSpace(req.ReviewerName),
		Rating:       req.Rating,
		Title:        strings.TrimSpace(req.Title),
		Body:         body,
		Model:        strings.TrimSpace(req.Model),
		City:         strings.TrimSpace(req.City),
		CreatedAt:    util.NowISO(now),
		Visible:      true,
	}
	if err := uc.reviews.Append(ctx, r); err != nil {
		uc.metrics.RecordError("review_store")
		return models.Review{}, fmt.Errorf("store review: %w", err)
	}
	uc.metrics.RecordStoreWrite("reviews")
	uc.events.emit(ctx, models.EventReviewCreated, r.ID, r, now)
	return r, nil
}

// Hide removes a review from listings without deleting it.
func (uc *ReviewsUseCase) Hide(ctx context.Context, id string) (models.Review, error) {
	r, err := uc.reviews.UpdateByKey(ctx, id, func(r *models.Review) error {
		r.Visible = false
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return models.Review{}, fmt.Errorf("review %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		uc.metrics.RecordError("review_store")
		return models.Review{}, fmt.Errorf("hide review: %w", err)
	}
	uc.metrics.RecordStoreWrite("reviews")
	return r, nil
}
