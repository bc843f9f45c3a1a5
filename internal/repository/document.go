package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/sasha-s/go-deadlock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// document 一个 JSON 数组文件。每次写入都整体重写；
// 同一进程内的读-改-写由 mutex 串行化，跨进程不做保证
type document[T any] struct {
	path  string
	mutex *deadlock.Mutex
}

func newDocument[T any](path string) *document[T] {
	return &document[T]{
		path:  path,
		mutex: &deadlock.Mutex{},
	}
}

// load 读取整个文档；文件缺失、不可读或不是合法 JSON 都返回错误
func (d *document[T]) load() ([]T, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.read()
}

// update 在锁内完成读-改-写
func (d *document[T]) update(fn func([]T) ([]T, error)) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	items, err := d.read()
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return d.write(items)
}

// ensure 文件不存在时写入空数组
func (d *document[T]) ensure() (bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if _, err := os.Stat(d.path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", d.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return false, fmt.Errorf("mkdir %s: %w", filepath.Dir(d.path), err)
	}
	return true, d.write([]T{})
}

func (d *document[T]) read() ([]T, error) {
	b, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", d.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// write 先写同目录临时文件再 rename，读者不会看到写了一半的文档
func (d *document[T]) write(items []T) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod file: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}
