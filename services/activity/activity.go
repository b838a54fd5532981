package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"menupick-admin-worker/models"
	"menupick-admin-worker/services/store"
)

const (
	LogJobInit     = "schedule.go.job.init"
	LogJobReceived = "schedule.go.job.received"
	LogIngest      = "schedule.go.ingest"
	LogReport      = "schedule.go.report"
)

// Record 塞入執行紀錄的 log table，properties 存 json
func Record(ctx context.Context, recorder store.ActivityRecorder, logName, description string, data interface{}) error {
	return record(ctx, recorder, logName, description, "", data)
}

func RecordTask(ctx context.Context, recorder store.ActivityRecorder, logName, description string, taskID uint, data interface{}) error {
	return record(ctx, recorder, logName, description, fmt.Sprint(taskID), data)
}

func record(ctx context.Context, recorder store.ActivityRecorder, logName, description, subjectID string, data interface{}) error {
	properties, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode activity properties: %w", err)
	}
	return recorder.RecordActivity(ctx, models.ActivityLog{
		LogName:     logName,
		Description: description,
		SubjectID:   subjectID,
		SubjectType: "task",
		Properties:  string(properties),
	})
}
