package check

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"menupick-admin-worker/services/rabbitmq"
	"menupick-admin-worker/services/trackLog"

	"github.com/gin-gonic/gin"
)

type AliveResponse struct {
	Success  bool      `json:"success"`
	Messsage string    `json:"message"`
	Info     CheckInfo `json:"info"`
}

type CheckInfo struct {
	Queues     []string `json:"queue"`
	RoutineNum int      `json:"routine_num"`
}

// CheckAlive 檢查 worker 的 mq 連線，serve 模式沒有連線時只回報 goroutine 數
func CheckAlive(connectionName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rabbitConn := rabbitmq.GetConnection(connectionName)
		resMsg := "main thread alive"
		checkInfo := CheckInfo{}
		//檢查mq實體是否在連線池
		if rabbitConn != nil {
			resMsg = inspect(rabbitConn, &checkInfo, resMsg)
		} else {
			resMsg = "Get connection pool fail"
			trackLog.Error(resMsg, false)
		}

		// 檢查gorutine數目
		checkInfo.RoutineNum = runtime.NumGoroutine()
		trackLog.Info(fmt.Sprintf("goroutine number: %d", checkInfo.RoutineNum), false)

		c.JSON(http.StatusOK, AliveResponse{true, resMsg, checkInfo})
	}
}

func inspect(rabbitConn *rabbitmq.Connection, checkInfo *CheckInfo, resMsg string) string {
	// 檢查mq連線
	if rabbitConn.Conn == nil {
		resMsg = "Api detect Connection lost, Reconnecting.."
		trackLog.Error(resMsg, false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
		}
	}
	//檢查mq channel
	if rabbitConn.Channel != nil {
		for _, q := range rabbitConn.Queues {
			//檢查每一個queue
			queue, queueErr := rabbitConn.Channel.QueueInspect(q)
			if queueErr != nil {
				resMsg = fmt.Sprintf("Queue[%s] error: %s", q, queueErr.Error())
				trackLog.Error(resMsg, false)
			} else {
				// queue的狀態
				queueJson, _ := json.Marshal(queue)
				checkInfo.Queues = append(checkInfo.Queues, string(queueJson))
				trackLog.Info(fmt.Sprintf("Queue[%s]: %s", q, queueJson), false)
			}
		}
	} else {
		resMsg = "Channel get fail"
		trackLog.Error(resMsg, false)
	}
	// 花1秒檢查是否重連線
	select {
	case err := <-rabbitConn.ApiErr:
		trackLog.Error(fmt.Sprintf("api error: %s", err.Error()), false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
		}
	case <-time.After(time.Second * 1):
	}
	return resMsg
}
