// Package redisstorage persists counts-spectrum snapshots in redis.
package redisstorage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/IAMinaya/gammapy/spectrum"
	"github.com/go-redis/redis/v8"
	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
)

func NewRedisStorage(preKey string, redisCli *redis.Client, logger l.Wrapper) spectrum.Storage {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "spectrumStorage"))

	if redisCli == nil {
		logger.Fatal("no redis client")
	}

	return &redisStorage{
		logger:   logger,
		preKey:   preKey,
		redisCli: redisCli,
	}
}

type redisStorage struct {
	logger   l.Wrapper
	preKey   string
	redisCli *redis.Client
}

func (impl *redisStorage) redisKey(key string) string {
	return impl.preKey + ":spectrum:" + key
}

func (impl *redisStorage) Save(key string, s *spectrum.CountsSpectrum) (string, error) {
	if key == "" {
		key = strconv.FormatUint(snowflake.ID(), 10)
	}

	d, err := json.Marshal(s.ToSnapshot())
	if err != nil {
		return "", err
	}

	err = impl.redisCli.Set(context.Background(), impl.redisKey(key), d, 0).Err()
	if err != nil {
		return "", err
	}

	return key, nil
}

func (impl *redisStorage) Load(key string) (*spectrum.CountsSpectrum, error) {
	d, err := impl.redisCli.Get(context.Background(), impl.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = commerr.ErrNotFound
		}

		return nil, err
	}

	var snap spectrum.Snapshot

	err = json.Unmarshal(d, &snap)
	if err != nil {
		return nil, err
	}

	return spectrum.FromSnapshot(snap)
}
