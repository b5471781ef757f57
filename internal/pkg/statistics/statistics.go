package statistics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/internal/pkg/cache"
	"github.com/certforge/certforge/internal/pkg/database"
)

const (
	CacheKeyCertsTotal = "statistics:certificates:total"
	CacheKeyCertsDaily = "statistics:certificates:daily:%s" // date YYYY-MM-DD
	CacheKeyUsers      = "statistics:users:total"
	CacheExpiration    = 30 * time.Minute
)

// Data holds the issuance statistics shown on the landing page.
type Data struct {
	TodayCertificates int
	TotalCertificates int
	TotalUsers        int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// GetData returns the current statistics, refreshing the cache when it is
// older than the update interval. Counts fall back to the database when the
// cache is cold.
func GetData() Data {
	updateCacheIfNeeded()

	return Data{
		TodayCertificates: getTodayCertificates(),
		TotalCertificates: getTotalCertificates(),
		TotalUsers:        getTotalUsers(),
	}
}

func updateCacheIfNeeded() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	if time.Since(lastCacheUpdate) <= cacheUpdateInterval {
		return
	}
	if err := UpdateCache(); err != nil {
		log.Errorf("[Statistics] cache refresh failed: %v", err)
		return
	}
	lastCacheUpdate = time.Now()
}

// UpdateCache recounts all statistics and stores them in the cache.
func UpdateCache() error {
	db := database.GetDB()

	var totalCerts int64
	if err := db.Model(&models.Certificate{}).Where("active = ?", true).Count(&totalCerts).Error; err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)

	var todayCerts int64
	if err := db.Model(&models.Certificate{}).Where("issued_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&todayCerts).Error; err != nil {
		return err
	}

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	if err := cache.Set(CacheKeyCertsTotal, strconv.FormatInt(totalCerts, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(fmt.Sprintf(CacheKeyCertsDaily, today), strconv.FormatInt(todayCerts, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyUsers, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}

	return nil
}

func getTotalCertificates() int {
	val, err := cache.Get(CacheKeyCertsTotal)
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(val)
	return n
}

func getTodayCertificates() int {
	today := time.Now().Format("2006-01-02")
	val, err := cache.Get(fmt.Sprintf(CacheKeyCertsDaily, today))
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(val)
	return n
}

func getTotalUsers() int {
	val, err := cache.Get(CacheKeyUsers)
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(val)
	return n
}
