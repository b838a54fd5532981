// Package worker consumes the catalog-ingest and selection-report queues.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"menupick-admin-worker/enums"
	"menupick-admin-worker/models"
	"menupick-admin-worker/services/activity"
	"menupick-admin-worker/services/callback"
	"menupick-admin-worker/services/ingest"
	"menupick-admin-worker/services/metrics"
	"menupick-admin-worker/services/rabbitmq"
	"menupick-admin-worker/services/report"
	"menupick-admin-worker/services/store"
	"menupick-admin-worker/services/trackLog"
	"menupick-admin-worker/structs"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

const ConnectionName = "menupick"

var Queues = []string{enums.QueueCatalogIngest, enums.QueueSelectionReport}

var ErrQueueMismatch = errors.New("message queue_type does not match the queue it was delivered on")

type Worker struct {
	engine   *ingest.Engine
	reports  *report.ReportService
	recorder store.ActivityRecorder
	callback *callback.Client
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *logrus.Entry
	marshal  func(v interface{}) ([]byte, error)
}

func New(engine *ingest.Engine, reports *report.ReportService, recorder store.ActivityRecorder, client *callback.Client, m *metrics.Metrics, logger *logrus.Entry) *Worker {
	return &Worker{
		engine:   engine,
		reports:  reports,
		recorder: recorder,
		callback: client,
		validate: validator.New(),
		metrics:  m,
		logger:   logger,
		marshal:  json.Marshal,
	}
}

// Run 連線、宣告 queue 後開始消費，斷線時由 HandleConsumedDeliveries 重連
func (w *Worker) Run(conn *rabbitmq.Connection) error {
	if err := conn.Connect(); err != nil {
		return err
	}
	if err := conn.BindQueue(); err != nil {
		return err
	}
	deliveries, err := conn.Consume()
	if err != nil {
		return err
	}
	for q, d := range deliveries {
		go conn.HandleConsumedDeliveries(q, d, w.DeliveryHandler)
	}
	trackLog.Info(fmt.Sprintf(" [ %s ] %v Waiting for messages. To exit press CTRL+C", ConnectionName, conn.Queues), true)
	return nil
}

func (w *Worker) DeliveryHandler(c rabbitmq.Connection, q string, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		trackLog.Info(fmt.Sprintf("Queue[%s] 接受資料: %s", q, string(d.Body)), true)
		if err := w.Handle(context.Background(), q, d.Body); err != nil {
			trackLog.Error(fmt.Sprintf("Queue[%s] 處理失敗: %s", q, err.Error()), true)
		}
	}
}

func (w *Worker) Handle(ctx context.Context, queue string, body []byte) error {
	var err error
	switch queue {
	case enums.QueueCatalogIngest:
		err = w.handleIngest(ctx, queue, body)
	case enums.QueueSelectionReport:
		err = w.handleReport(ctx, queue, body)
	default:
		err = fmt.Errorf("unknown queue %q", queue)
	}

	status := metrics.StatusSuccess
	if errors.Is(err, ErrQueueMismatch) {
		status = "mismatch"
	} else if err != nil {
		status = metrics.StatusError
	}
	w.metrics.RecordQueueMessage(queue, status)
	return err
}

func (w *Worker) handleIngest(ctx context.Context, queue string, body []byte) error {
	var param structs.IngestQueueParam
	if err := json.Unmarshal(body, &param); err != nil {
		return fmt.Errorf("invalid %s message: %w", queue, err)
	}
	// 檢查queue是否正確
	if param.QueueType != queue {
		w.notifyMismatch(param.TaskID, queue, param.QueueType)
		return ErrQueueMismatch
	}
	w.received(ctx, param.TaskID, queue)

	summary := structs.ActivityLogJsonModel{Type: queue, TaskID: param.TaskID, Operator: param.Operator}
	summary.Statistic.Candidates = len(param.Items)

	err := w.validate.Struct(param)
	if err == nil {
		candidates := make([]models.MealItem, 0, len(param.Items))
		for _, item := range param.Items {
			model := item.ToModel()
			if !model.HasName() {
				summary.Statistic.Skipped++
			}
			candidates = append(candidates, model)
		}

		var counts ingest.Counts
		counts, err = w.engine.Ingest(ctx, candidates)
		if err == nil {
			summarizeCounts(&summary, counts)
		}
	}

	var partial *ingest.PartialIngestionFailure
	switch {
	case err == nil:
		summary.Result = enums.FinishedStatus
		summary.Message = "ok"
	case errors.As(err, &partial):
		summary.Result = enums.PartialStatus
		summary.Message = err.Error()
		summarizeCounts(&summary, partial.CommittedLeaves)
	default:
		summary.Result = enums.FailedStatus
		summary.Message = err.Error()
	}

	if recordErr := activity.RecordTask(ctx, w.recorder, activity.LogIngest, "餐點批次匯入", param.TaskID, summary); recordErr != nil {
		w.logger.WithError(recordErr).Error("activity log 寫入失敗")
	}

	if raw, marshalErr := w.marshal(summary); marshalErr != nil {
		w.logger.WithError(marshalErr).WithField("task_id", param.TaskID).Error("結果序列化失敗")
	} else {
		param.Result = string(raw)
	}
	param.Items = nil
	if w.callback != nil {
		if notifyErr := w.callback.Notify(callback.PathCatalogIngest, param); notifyErr != nil {
			w.logger.WithError(notifyErr).WithField("task_id", param.TaskID).Error("callback 失敗")
		}
	}
	return err
}

func summarizeCounts(summary *structs.ActivityLogJsonModel, counts ingest.Counts) {
	summary.Statistic.Committed = counts.Total()
	summary.Statistic.Leaves = make(map[string]int, len(counts))
	for leaf, n := range counts {
		summary.Statistic.Leaves[leaf.String()] = n
	}
}

func (w *Worker) handleReport(ctx context.Context, queue string, body []byte) error {
	var param structs.ReportQueueParam
	if err := json.Unmarshal(body, &param); err != nil {
		return fmt.Errorf("invalid %s message: %w", queue, err)
	}
	if param.QueueType != queue {
		w.notifyMismatch(param.TaskID, queue, param.QueueType)
		return ErrQueueMismatch
	}
	w.received(ctx, param.TaskID, queue)
	_, err := w.reports.Start(ctx, param)
	return err
}

func (w *Worker) received(ctx context.Context, taskID uint, queue string) {
	message := fmt.Sprintf("(%d), queue name: %s, start...", taskID, queue)
	if err := activity.RecordTask(ctx, w.recorder, activity.LogJobReceived, "menupick worker", taskID, message); err != nil {
		w.logger.WithError(err).Error("activity log 寫入失敗")
	}
}

func (w *Worker) notifyMismatch(taskID uint, queue, queueType string) {
	w.logger.WithFields(logrus.Fields{"task_id": taskID, "queue": queue, "queue_type": queueType}).Warn("[MismatchQueue] queue發生錯誤")
	if w.callback == nil {
		return
	}
	body := structs.MismatchQueueResponse{TaskId: taskID, Queue: queue}
	if err := w.callback.Notify(callback.PathMismatchQueue, body); err != nil {
		w.logger.WithError(err).Error("mismatch callback 失敗")
	}
}
