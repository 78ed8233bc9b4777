package sensitive

import (
	"github.com/importcjj/sensitive"
)

// 评论词库默认路径，可由配置覆盖
const DefaultDictPath = "resources/sensitive/comment.txt"

type Word struct {
	Filter *sensitive.Filter
}

// NewWord 加载评论敏感词词库
func NewWord(dictPath string) (*Word, error) {
	filter := sensitive.New()

	if dictPath == "" {
		dictPath = DefaultDictPath
	}

	err := filter.LoadWordDict(dictPath)
	if err != nil {
		return nil, err
	}

	return &Word{
		Filter: filter,
	}, nil
}

func (w *Word) Validate(content string) (bool, string) {
	return w.Filter.Validate(content)
}

func (w *Word) Replace(content string, replChar rune) string {
	return w.Filter.Replace(content, replChar)
}
