package log

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"time"

	"menupick-admin-worker/structs"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

const hostName = "menupick-admin-worker"

type LogService struct{}

// LoggerInit 每個 channel 一個檔案：<log dir>/<日期>/<channel>.log
func (l *LogService) LoggerInit(config *structs.EnviromentModel, channel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if src, err := openLogFile(config.Log.Dir, channel); err != nil {
		fmt.Println(err.Error())
		logger.Out = os.Stdout
	} else {
		logger.Out = src
	}

	if config.Log.ElkEnable == 1 {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{config.Log.ElkURL},
		})
		if err != nil {
			logger.Debug(err.Error())
		} else if hook, err := elogrus.NewAsyncElasticHook(client, hostName, logrus.DebugLevel, config.Log.ElkIndex); err != nil {
			logger.Debug(err.Error())
		} else {
			logger.Hooks.Add(hook)
		}
	}

	if config.Log.LogstashEnable == 1 {
		conn, err := net.Dial("udp", config.Log.LogstashURL)
		if err != nil {
			logger.Debug(err)
		} else {
			fields := logrus.Fields{"type": hostName}
			if config.Log.LogstashIndex != "" {
				fields["index"] = config.Log.LogstashIndex
			}
			logger.Hooks.Add(logrustash.New(conn, logrustash.DefaultFormatter(fields)))
		}
	}

	return logger
}

func openLogFile(dir, channel string) (io.Writer, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = path.Join(wd, "logs")
	}
	logFilePath := path.Join(dir, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(logFilePath, 0o755); err != nil {
		return nil, err
	}

	//寫入文件
	fileName := path.Join(logFilePath, channel+".log")
	return os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
