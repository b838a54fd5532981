package feedback

import (
	"context"
	"errors"
	"testing"

	"menupick-admin-worker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entries = []models.Feedback{
	{StudentID: "s1", ItemID: "dosa", Rating: 5},
	{StudentID: "s2", ItemID: "dosa", Rating: 4},
	{StudentID: "s3", ItemID: "dosa", Rating: 4},
	{StudentID: "s1", ItemID: "upma", Rating: 2},
}

type fakeReader struct {
	feedback []models.Feedback
	err      error
}

func (f fakeReader) ListFeedback(context.Context) ([]models.Feedback, error) {
	return f.feedback, f.err
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, []Summary{
		{ItemID: "dosa", Count: 3, Average: 4.3},
		{ItemID: "upma", Count: 1, Average: 2},
	}, Summarize(entries))
	assert.Empty(t, Summarize(nil))
}

func TestFilter(t *testing.T) {
	assert.Len(t, Filter(entries, Query{ItemID: "dosa"}), 3)
	assert.Len(t, Filter(entries, Query{MinRating: 4}), 3)
	assert.Len(t, Filter(entries, Query{ItemID: "upma", MinRating: 3}), 0)
	assert.Len(t, Filter(entries, Query{}), 4)
}

func TestReview(t *testing.T) {
	review, err := NewService(fakeReader{feedback: entries}).Review(context.Background(), Query{MinRating: 3})
	require.NoError(t, err)
	assert.Len(t, review.Entries, 3)
	assert.Equal(t, []Summary{{ItemID: "dosa", Count: 3, Average: 4.3}}, review.Summaries)

	boom := errors.New("down")
	_, err = NewService(fakeReader{err: boom}).Review(context.Background(), Query{})
	assert.ErrorIs(t, err, boom)
}
