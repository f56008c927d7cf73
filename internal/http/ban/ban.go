// Package ban locks out clients that keep failing the password grant.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/algamoney-api/internal/redissvc"
	"github.com/sirupsen/logrus"
)

const (
	strikesKeyPrefix = "ban:strikes:"
	bannedKeyPrefix  = "ban:active:"
	DailyBanLogKey   = "ban:log:daily"
)

var (
	rdb *redis.Client

	MaxStrikes  int64 = 5
	StrikeTTL         = 15 * time.Minute
	BanDuration       = 15 * time.Minute
)

func SetRedisService(rs *redissvc.RedisService) {
	rdb = rs.Rdb()
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int64     `json:"strikes"`
	Time    time.Time `json:"time"`
}

// RecordStrike counts a failed attempt for the client of r and bans it once
// MaxStrikes is reached inside StrikeTTL.
func RecordStrike(ctx context.Context, r *http.Request) error {
	target := ClientIP(r)
	key := strikesKeyPrefix + target

	strikes, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record strike: %w", err)
	}
	if strikes == 1 {
		_ = rdb.Expire(ctx, key, StrikeTTL).Err()
	}
	if strikes < MaxStrikes {
		return nil
	}

	if err := rdb.Set(ctx, bannedKeyPrefix+target, strikes, BanDuration).Err(); err != nil {
		return fmt.Errorf("failed to ban %s: %w", target, err)
	}
	_ = rdb.Del(ctx, key).Err()

	logBanEvent(ctx, target, r.URL.Path, strikes)
	return nil
}

// Reset forgets the strikes of the client of r.
func Reset(ctx context.Context, r *http.Request) {
	_ = rdb.Del(ctx, strikesKeyPrefix+ClientIP(r)).Err()
}

func IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := rdb.Exists(ctx, bannedKeyPrefix+target).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Middleware answers 403 to banned clients.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		banned, err := IsBanned(r.Context(), ClientIP(r))
		if err != nil {
			logrus.WithError(err).Error("ban lookup failed")
		}
		if banned {
			http.Error(w, "too many failed attempts, try again later", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logBanEvent(ctx context.Context, target, route string, strikes int64) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now(),
	}

	logrus.WithFields(logrus.Fields{
		"target":  target,
		"route":   route,
		"strikes": strikes,
	}).Warn("client banned")

	data, _ := json.Marshal(entry)
	_ = rdb.RPush(ctx, DailyBanLogKey, data).Err()
}

// DrainBanLog returns and clears the ban events logged since the last call.
func DrainBanLog(ctx context.Context) ([]BanLogEntry, error) {
	items, err := rdb.LRange(ctx, DailyBanLogKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	_ = rdb.Del(ctx, DailyBanLogKey).Err()

	var logs []BanLogEntry
	for _, item := range items {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

// StartDailyBanSummary logs an aggregate of the day's bans every interval
// until ctx is cancelled.
func StartDailyBanSummary(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logs, err := DrainBanLog(ctx)
			if err != nil || len(logs) == 0 {
				continue
			}
			targets := make(map[string]int)
			for _, entry := range logs {
				targets[entry.Target]++
			}
			logrus.WithFields(logrus.Fields{
				"bans":    len(logs),
				"targets": targets,
			}).Info("daily ban summary")
		}
	}
}

func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
