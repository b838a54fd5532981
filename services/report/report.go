package report

import (
	"context"
	"encoding/json"
	"time"

	"menupick-admin-worker/enums"
	"menupick-admin-worker/services/activity"
	"menupick-admin-worker/services/callback"
	"menupick-admin-worker/services/store"
	"menupick-admin-worker/services/tally"
	"menupick-admin-worker/structs"

	"github.com/sirupsen/logrus"
)

type ReportService struct {
	tally    *tally.Service
	recorder store.ActivityRecorder
	callback *callback.Client
	logger   *logrus.Entry
	now      func() time.Time
	marshal  func(v interface{}) ([]byte, error)
}

func NewReportService(tallyService *tally.Service, recorder store.ActivityRecorder, client *callback.Client, logger *logrus.Entry) *ReportService {
	return &ReportService{tally: tallyService, recorder: recorder, callback: client, logger: logger, now: time.Now, marshal: json.Marshal}
}

// Build 每次都重新讀取 catalog 與偏好快照
func (r *ReportService) Build(ctx context.Context, messType string) (structs.SelectionReport, error) {
	state, err := r.tally.Run(ctx)
	if err != nil {
		return structs.SelectionReport{}, err
	}
	return Compose(state, messType, r.now()), nil
}

// Compose 組出一個 messType 的排名報表
func Compose(state *tally.State, messType string, generatedAt time.Time) structs.SelectionReport {
	report := structs.SelectionReport{
		MessType:      messType,
		GeneratedAt:   generatedAt,
		Participation: state.Participation(messType),
		Views:         []structs.ViewRanking{},
	}
	for _, view := range state.Views(messType) {
		report.Views = append(report.Views, structs.ViewRanking{
			Category:    view.Leaf.Category,
			Subcategory: view.Leaf.Subcategory,
			Items:       view.Items,
		})
	}
	return report
}

// Start 處理 selection-report queue 的工作，完成後紀錄 log 並通知 app
func (r *ReportService) Start(ctx context.Context, param structs.ReportQueueParam) (structs.ReportQueueParam, error) {
	log := r.logger.WithFields(logrus.Fields{"task": "report", "task_id": param.TaskID, "mess_type": param.MessType})
	log.Info("開始產生報表")

	report, buildErr := r.Build(ctx, param.MessType)

	summary := structs.ActivityLogJsonModel{Type: enums.QueueSelectionReport, TaskID: param.TaskID}
	if buildErr != nil {
		summary.Result = enums.FailedStatus
		summary.Message = buildErr.Error()
		log.WithError(buildErr).Error("報表產生失敗")
	} else {
		summary.Result = enums.FinishedStatus
		summary.Message = "ok"
		summary.Statistic.Committed = len(report.Views)
		log.WithField("views", len(report.Views)).Info("報表完成")
	}

	if buildErr == nil {
		raw, err := r.marshal(report)
		if err != nil {
			return param, err
		}
		param.Result = string(raw)
	} else if raw, err := r.marshal(summary); err != nil {
		log.WithError(err).Error("結果序列化失敗")
	} else {
		param.Result = string(raw)
	}

	if err := activity.RecordTask(ctx, r.recorder, activity.LogReport, "餐點選擇報表", param.TaskID, summary); err != nil {
		log.WithError(err).Error("activity log 寫入失敗")
	}
	r.JobDoneNotify(param)
	return param, buildErr
}

func (r *ReportService) JobDoneNotify(param structs.ReportQueueParam) {
	if r.callback == nil {
		return
	}
	if err := r.callback.Notify(callback.PathReport, param); err != nil {
		r.logger.WithError(err).WithField("task_id", param.TaskID).Error("callback 失敗")
	}
}
