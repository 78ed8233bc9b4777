package handler

import (
	"github.com/gin-gonic/gin"
)

// Response 统一响应包络，code 与 HTTP 状态码保持一致
// 列表类接口带 total，校验失败带按字段的 errors
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Total   *int64            `json:"total,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func ok(c *gin.Context, msg string, data interface{}) {
	c.JSON(200, Response{Code: 200, Message: msg, Data: data})
}

func okList(c *gin.Context, msg string, data interface{}, total int64) {
	c.JSON(200, Response{Code: 200, Message: msg, Data: data, Total: &total})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: status, Message: msg})
}

func failErr(c *gin.Context, status int, msg string, err error) {
	resp := Response{Code: status, Message: msg}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

func failFields(c *gin.Context, msg string, fields map[string]string) {
	c.JSON(400, Response{Code: 400, Message: msg, Errors: fields})
}
