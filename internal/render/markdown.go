package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// 写入时渲染一次，读取时直接用 html_content 列，不再重复渲染
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML 将 Markdown 原文渲染为 HTML
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
