// Package fmstorage persists counts-spectrum snapshots as yaml files.
package fmstorage

import (
	"errors"
	"os"
	"path"
	"strconv"

	"github.com/IAMinaya/gammapy/spectrum"
	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"gopkg.in/yaml.v3"
)

func NewFMStorage(root string) spectrum.Storage {
	return NewFMStorageEx(root, rawfs.NewFSStorage(""))
}

func NewFMStorageEx(root string, storage stg.FileStorage) spectrum.Storage {
	_ = os.MkdirAll(root, 0700)

	return &fmStorage{
		root:    root,
		storage: storage,
	}
}

type fmStorage struct {
	root    string
	storage stg.FileStorage
}

func (impl *fmStorage) fileNameByKey(key string) string {
	return path.Join(impl.root, key+".yaml")
}

func (impl *fmStorage) Save(key string, s *spectrum.CountsSpectrum) (string, error) {
	if key == "" {
		key = strconv.FormatUint(snowflake.ID(), 10)
	}

	d, err := yaml.Marshal(s.ToSnapshot())
	if err != nil {
		return "", err
	}

	err = impl.storage.WriteFile(impl.fileNameByKey(key), d)
	if err != nil {
		return "", err
	}

	return key, nil
}

func (impl *fmStorage) Load(key string) (*spectrum.CountsSpectrum, error) {
	d, err := impl.storage.ReadFile(impl.fileNameByKey(key))
	if err != nil {
		var pathError *os.PathError

		if errors.As(err, &pathError) {
			err = commerr.ErrNotFound
		}

		return nil, err
	}

	var snap spectrum.Snapshot

	err = yaml.Unmarshal(d, &snap)
	if err != nil {
		return nil, err
	}

	return spectrum.FromSnapshot(snap)
}
