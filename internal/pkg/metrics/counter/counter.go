package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/certforge/certforge/internal/pkg/cache"
	"github.com/certforge/certforge/internal/pkg/database"
)

const (
	scanCountKey = "certificate:counters:scans"

	flushInterval = 60 * time.Second
)

// AddScan increments the pending verification scan counter for a certificate
// in Redis. The increments are drained to the certificates table by the
// flush worker.
func AddScan(certificateID string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, scanCountKey, certificateID, 1).Err()
}

// FlushAll drains all pending counters to the database.
func FlushAll() error {
	return flushHashToTable(scanCountKey, "certificates", "scan_count")
}

// StartFlusher runs the periodic counter flush for the process lifetime.
func StartFlusher() {
	go func() {
		ticker := time.NewTicker(flushInterval)
		defer ticker.Stop()
		for range ticker.C {
			if err := FlushAll(); err != nil {
				log.Errorf("[Counter] Flush error: %v", err)
			}
		}
	}()
}

// flushHashToTable drains a Redis hash atomically and applies batched
// increments to the given table. Uses RENAME to a temporary key so in-flight
// increments are never lost.
func flushHashToTable(redisKey, table, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// Key absent means nothing to flush.
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	type pair struct {
		id  string
		inc int64
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		if _, perr := uuid.Parse(k); perr != nil {
			continue
		}
		inc, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		pairs = append(pairs, pair{id: k, inc: inc})
	}
	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	// UPDATE certificates SET scan_count = scan_count + CASE id WHEN ? THEN ? ... END WHERE id IN (...)
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*3)
	builder.WriteString("UPDATE ")
	builder.WriteString(table)
	builder.WriteString(" SET ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + CASE id ")
	for _, p := range pairs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, p.id, p.inc)
	}
	builder.WriteString(" END WHERE id IN (")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, p.id)
	}
	builder.WriteString(")")

	if err := database.GetDB().Exec(builder.String(), args...).Error; err != nil {
		return err
	}
	return nil
}
