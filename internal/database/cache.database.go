package database

import (
	"fmt"

	"annualreports/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes used by the fetcher.
const (
	// GENERAL_CACHE_INDEX (DB 0) is left for ad-hoc use.
	GENERAL_CACHE_INDEX = iota

	// ARCHIVE_CACHE_INDEX (DB 1) holds what the archive told us about
	// individual documents, e.g. confirmed 404s.
	ARCHIVE_CACHE_INDEX
)

type CacheClient = valkey.Client

type Cache struct {
	Archive CacheClient
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	archive, err := valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    ARCHIVE_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create archive valkey client", err)
	}

	s.Cache = Cache{Archive: archive}
	return nil
}
