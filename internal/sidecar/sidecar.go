package sidecar

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iceymoss/go-blog/pkg/logger"

	"go.uber.org/zap"
)

// Store 文章正文的 Markdown 文件存储
// 每篇文章按 id 对应一个 <id>.md，独立于数据库行，属于尽力而为的镜像：
// 写失败只记日志不影响请求，文件缺失时读取方合成占位内容
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("创建文章目录失败", zap.String("dir", dir), zap.Error(err))
	}
	return &Store{dir: dir}
}

func (s *Store) path(articleID uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.md", articleID))
}

// Write 覆盖写入文章原文
func (s *Store) Write(articleID uint64, content string) error {
	if err := os.WriteFile(s.path(articleID), []byte(content), 0644); err != nil {
		return fmt.Errorf("写入文章文件失败: %w", err)
	}
	return nil
}

// Read 读取文章原文，文件不存在或不可读时返回 error，由调用方决定占位内容
func (s *Store) Read(articleID uint64) (string, error) {
	data, err := os.ReadFile(s.path(articleID))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Exists 文件是否存在
func (s *Store) Exists(articleID uint64) bool {
	_, err := os.Stat(s.path(articleID))
	return err == nil
}

// Remove 删除文章文件，文件本就不存在视为成功
func (s *Store) Remove(articleID uint64) error {
	err := os.Remove(s.path(articleID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除文章文件失败: %w", err)
	}
	return nil
}

// Placeholder 文件缺失时合成的占位正文
func Placeholder(title string) string {
	return fmt.Sprintf("# %s\n\n这是%s的详细内容，支持 **Markdown** 格式。", title, title)
}
