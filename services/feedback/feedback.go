package feedback

import (
	"context"
	"sort"

	"menupick-admin-worker/models"
	"menupick-admin-worker/services"
	"menupick-admin-worker/services/store"
)

type Query struct {
	ItemID    string `form:"item_id" json:"item_id"`
	MinRating int    `form:"min_rating" json:"min_rating" validate:"gte=0,lte=5"`
}

type Summary struct {
	ItemID  string  `json:"item_id"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type Review struct {
	Entries   []models.Feedback `json:"entries"`
	Summaries []Summary         `json:"summaries"`
}

func Filter(feedback []models.Feedback, q Query) []models.Feedback {
	out := make([]models.Feedback, 0, len(feedback))
	for _, f := range feedback {
		if q.ItemID != "" && f.ItemID != q.ItemID {
			continue
		}
		if f.Rating < q.MinRating {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Summarize averages ratings per item, rounded to one decimal, ordered by item id.
func Summarize(feedback []models.Feedback) []Summary {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, f := range feedback {
		sums[f.ItemID] += f.Rating
		counts[f.ItemID]++
	}

	summaries := make([]Summary, 0, len(counts))
	for itemID, count := range counts {
		summaries = append(summaries, Summary{
			ItemID:  itemID,
			Count:   count,
			Average: services.RoundTo(float64(sums[itemID])/float64(count), 1),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ItemID < summaries[j].ItemID })
	return summaries
}

type Service struct {
	reader store.FeedbackReader
}

func NewService(reader store.FeedbackReader) *Service {
	return &Service{reader: reader}
}

func (s *Service) Review(ctx context.Context, q Query) (Review, error) {
	feedback, err := s.reader.ListFeedback(ctx)
	if err != nil {
		return Review{}, err
	}
	entries := Filter(feedback, q)
	return Review{Entries: entries, Summaries: Summarize(entries)}, nil
}
