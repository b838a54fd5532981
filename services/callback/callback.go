package callback

import (
	"net/http"
	"strings"

	"menupick-admin-worker/services"
)

const (
	PathCatalogIngest = "/api/v1/workerCallback/catalogIngest"
	PathReport        = "/api/v1/workerCallback/report"
	PathMismatchQueue = "/api/v1/workerCallback/mismatchQueue"
)

// Client 通知 app 工作完成
type Client struct {
	appAPI string
}

func NewClient(appAPI string) *Client {
	return &Client{appAPI: strings.TrimRight(appAPI, "/")}
}

func (c *Client) Endpoint(path string) string {
	return c.appAPI + path
}

func (c *Client) Notify(path string, body interface{}) error {
	_, err := services.HttpRequest(http.MethodPost, c.Endpoint(path), nil, body)
	return err
}
