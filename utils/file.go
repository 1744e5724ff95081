package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func GetDateSubDir(parentPath, date string) (path string, err error) {
	path = filepath.Join(parentPath, date)
	err = os.MkdirAll(path, os.ModePerm)
	return
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}
