package circulation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openshelf/library-api/internal/models"
)

// Version-prefixed cache for the joined records listing. Bumping the version
// key after a committed write invalidates every cached page at once; expired
// generations fall out via TTL.
const (
	cacheVersionKey = "loans:ver"
	cacheTTL        = 5 * time.Minute
	cacheOpTimeout  = 150 * time.Millisecond
)

var cacheWarn sync.Once

func warnCache(err error) {
	cacheWarn.Do(func() {
		log.Printf("[loans][cache] %v; bypassing cache (muted next)", err)
	})
}

func (s *Store) recordsKey(ctx context.Context) (string, bool) {
	cctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	ver, err := s.rdb.Get(cctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		ver = 1
	} else if err != nil {
		warnCache(err)
		return "", false
	}
	return fmt.Sprintf("loans:v%d:records", ver), true
}

func (s *Store) cachedRecords(ctx context.Context) ([]models.BorrowRecordView, bool) {
	if s.rdb == nil {
		return nil, false
	}
	key, ok := s.recordsKey(ctx)
	if !ok {
		return nil, false
	}

	cctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	raw, err := s.rdb.Get(cctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		warnCache(err)
		return nil, false
	}
	var out []models.BorrowRecordView
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (s *Store) storeRecords(ctx context.Context, recs []models.BorrowRecordView) {
	if s.rdb == nil {
		return
	}
	key, ok := s.recordsKey(ctx)
	if !ok {
		return
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := s.rdb.SetEx(cctx, key, raw, cacheTTL).Err(); err != nil {
		warnCache(err)
	}
}

// bumpRecordsVersion is called after a successful Borrow/Return commit.
func (s *Store) bumpRecordsVersion(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := s.rdb.Incr(cctx, cacheVersionKey).Err(); err != nil {
		warnCache(err)
	}
}
