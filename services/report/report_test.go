package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menupick-admin-worker/enums"
	"menupick-admin-worker/models"
	"menupick-admin-worker/services/callback"
	"menupick-admin-worker/services/tally"
	"menupick-admin-worker/structs"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type source struct {
	items     []models.MealItem
	students  []models.Student
	snapshots []models.PreferenceSnapshot
	err       error
}

func (s *source) ListAll(context.Context) ([]models.MealItem, error) { return s.items, s.err }

func (s *source) ListStudents(context.Context) ([]models.Student, error) { return s.students, nil }

func (s *source) ListSnapshots(context.Context) ([]models.PreferenceSnapshot, error) {
	return s.snapshots, nil
}

type recorder struct {
	logs []models.ActivityLog
}

func (r *recorder) RecordActivity(_ context.Context, activity models.ActivityLog) error {
	r.logs = append(r.logs, activity)
	return nil
}

func fixture() *source {
	return &source{
		items: []models.MealItem{
			{ItemID: "r1", MessType: "veg", Category: "lunch", Subcategory: "Rice", Name: "Jeera Rice"},
			{ItemID: "r2", MessType: "veg", Category: "lunch", Subcategory: "Rice", Name: "Lemon Rice"},
			{ItemID: "c1", MessType: "non-veg", Category: "lunch", Subcategory: "Chicken", Name: "Chicken 65"},
		},
		students: []models.Student{{ID: "s1", MessType: "veg"}, {ID: "s2", MessType: "veg"}, {ID: "s3", MessType: "non-veg"}},
		snapshots: []models.PreferenceSnapshot{
			{StudentID: "s1", MessType: "veg", Selections: `{"r2":true}`},
		},
	}
}

func newReportService(src *source, client *callback.Client) (*ReportService, *recorder) {
	logger, _ := test.NewNullLogger()
	rec := &recorder{}
	service := NewReportService(tally.NewService(src, src, nil), rec, client, logrus.NewEntry(logger))
	service.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return service, rec
}

func TestBuild(t *testing.T) {
	service, _ := newReportService(fixture(), nil)

	report, err := service.Build(context.Background(), "veg")
	require.NoError(t, err)

	assert.Equal(t, tally.Participation{MessType: "veg", Submitted: 1, Cohort: 2, Rate: 50}, report.Participation)
	require.Len(t, report.Views, 1)
	assert.Equal(t, "Rice", report.Views[0].Subcategory)
	assert.Equal(t, "r2", report.Views[0].Items[0].Item.ItemID)
	assert.Equal(t, enums.MostPopular, report.Views[0].Items[0].Label)
	assert.Equal(t, 50, report.Views[0].Items[0].Percentage)
}

func TestStartRecordsAndNotifies(t *testing.T) {
	var received structs.ReportQueueParam
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, callback.PathReport, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	service, rec := newReportService(fixture(), callback.NewClient(server.URL))
	param := structs.ReportQueueParam{TaskID: 9, MessType: "veg", QueueType: enums.QueueSelectionReport}

	result, err := service.Start(context.Background(), param)
	require.NoError(t, err)

	var report structs.SelectionReport
	require.NoError(t, json.Unmarshal([]byte(result.Result), &report))
	assert.Equal(t, "veg", report.MessType)
	assert.Equal(t, uint(9), received.TaskID)
	assert.Equal(t, result.Result, received.Result)

	require.Len(t, rec.logs, 1)
	assert.Equal(t, "9", rec.logs[0].SubjectID)
	assert.Contains(t, rec.logs[0].Properties, enums.FinishedStatus)
}

func TestStartRecordsFailure(t *testing.T) {
	src := fixture()
	src.err = errors.New("store down")
	service, rec := newReportService(src, nil)

	_, err := service.Start(context.Background(), structs.ReportQueueParam{TaskID: 1, MessType: "veg"})
	assert.Error(t, err)
	require.Len(t, rec.logs, 1)
	assert.Contains(t, rec.logs[0].Properties, enums.FailedStatus)
	assert.Contains(t, rec.logs[0].Properties, "store down")
}

func TestStartLogsUnencodableResult(t *testing.T) {
	src := fixture()
	src.err = errors.New("store down")
	service, _ := newReportService(src, nil)
	logger, hook := test.NewNullLogger()
	service.logger = logrus.NewEntry(logger)
	service.marshal = func(interface{}) ([]byte, error) { return nil, errors.New("unsupported value") }

	result, err := service.Start(context.Background(), structs.ReportQueueParam{TaskID: 3, MessType: "veg"})
	assert.EqualError(t, err, "store down")
	assert.Empty(t, result.Result)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "結果序列化失敗", entry.Message)
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "unsupported value")
}
