package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	base := t.TempDir()
	s := NewLocalStorage(base, "http://localhost:8888/static")

	url, err := s.UploadFile(context.Background(), strings.NewReader("fake image data"), "me.png", "avatar")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8888/static/avatar/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// 文件确实写进了 basePath/folder 下
	entries, err := os.ReadDir(filepath.Join(base, "avatar"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(base, "avatar", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "fake image data", string(data))

	// 两次上传同名文件不会互相覆盖
	url2, err := s.UploadFile(context.Background(), strings.NewReader("other"), "me.png", "avatar")
	require.NoError(t, err)
	assert.NotEqual(t, url, url2)

	require.NoError(t, s.DeleteFile(context.Background(), url))
	entries, err = os.ReadDir(filepath.Join(base, "avatar"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// 删除不存在的文件视为成功
	assert.NoError(t, s.DeleteFile(context.Background(), url))
}

func TestGetFileURL(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "http://localhost:8888/static")
	assert.Equal(t, "http://localhost:8888/static/avatar/1.png", s.GetFileURL("avatar/1.png"))
	assert.Equal(t, "http://localhost:8888/static/avatar/1.png", s.GetFileURL("/avatar/1.png"))

	noBase := NewLocalStorage(t.TempDir(), "")
	assert.Equal(t, "/avatar/1.png", noBase.GetFileURL("avatar/1.png"))
}
