package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const requestTimeout = 30 * time.Second

// HttpRequest 送 json 請求給 app 的 callback，非 2xx 回傳錯誤
func HttpRequest(method, url string, header map[string]string, data interface{}) ([]byte, error) {

	var requestBody []byte
	var err error
	var req *http.Request

	// 序列化參數
	if data != nil {
		if requestBody, err = json.Marshal(data); err != nil {
			return nil, err
		}
		if req, err = http.NewRequest(method, url, bytes.NewBuffer(requestBody)); err != nil {
			return nil, err
		}
	} else {
		if req, err = http.NewRequest(method, url, nil); err != nil {
			return nil, err
		}
	}

	// 初始化 client
	client := &http.Client{Timeout: requestTimeout}

	// 發請求
	req.Header.Set("Content-Type", "application/json")
	if header != nil {
		for key, element := range header {
			req.Header.Set(key, element)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	// 讀取 body
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return body, fmt.Errorf("%s %s responded %d", method, url, resp.StatusCode)
	}
	return body, nil
}

func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RoundTo 四捨五入到小數點後 places 位
func RoundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Floor(x*scale+0.5) / scale
}
