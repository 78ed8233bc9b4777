package errors

import (
	"errors"
	"fmt"
)

type CodeMsg struct {
	Code   int               // 错误码
	Msg    string            // 错误消息
	Errors map[string]string // 按字段的校验错误，可为空
	Err    error             // 原始错误
}

// 实现 error 接口
func (e *CodeMsg) Error() string {
	return fmt.Sprintf("code=%d, msg=%s", e.Code, e.Msg)
}

func (e *CodeMsg) Unwrap() error {
	return e.Err
}

// New 构造函数
func New(code int, msg string) error {
	return &CodeMsg{Code: code, Msg: msg}
}

// NewValidation 校验失败，附带字段错误表
func NewValidation(code int, msg string, fields map[string]string) error {
	return &CodeMsg{Code: code, Msg: msg, Errors: fields}
}

// Wrap 保留原始错误
func Wrap(code int, msg string, err error) error {
	return &CodeMsg{Code: code, Msg: msg, Err: err}
}

// FromError 取出 CodeMsg，不是则返回 nil
func FromError(err error) *CodeMsg {
	var cm *CodeMsg
	if errors.As(err, &cm) {
		return cm
	}
	return nil
}
