package trackLog

import (
	"fmt"

	"menupick-admin-worker/services/log"
	"menupick-admin-worker/structs"

	"github.com/sirupsen/logrus"
)

var logTracker *logrus.Entry

func LogTrackInit(config *structs.EnviromentModel) {
	var trackerService log.LogService
	temp := trackerService.LoggerInit(config, "tracker")
	logTracker = temp.WithFields(logrus.Fields{"task": "track", "name": "log追蹤"})
}

// Tracker 給需要 *logrus.Entry 的 service 使用
func Tracker() *logrus.Entry {
	if logTracker == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logTracker
}

func Info(message string, needWriteLog bool) {
	if needWriteLog && logTracker != nil {
		logTracker.Info(message)
	}
	fmt.Println(message)
}

func Error(message string, needWriteLog bool) {
	if needWriteLog && logTracker != nil {
		logTracker.Error(message)
	}
	fmt.Println(message)
}
