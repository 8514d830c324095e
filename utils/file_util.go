package utils

import (
	"io"
	"os"
)

// IsExists 判断所给文件/文件夹是否存在
func IsExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// SafeUnlink 尽力删除文件,忽略错误
func SafeUnlink(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// CopyFile 复制文件内容,目标已存在则覆盖
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
