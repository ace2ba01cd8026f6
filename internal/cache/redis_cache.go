package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"ChartDesk/internal/model"
)

const keyPrefix = "chartdesk:bars:"

// RedisCache shares fetched histories between dashboard instances.
type RedisCache struct {
	cli *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	return &RedisCache{cli: rdb}
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.cli.Close()
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]model.Bar, bool, error) {
	b, err := r.cli.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	bars, err := decodeBars(b)
	if err != nil {
		return nil, false, fmt.Errorf("redis cache %s: %w", key, err)
	}
	return bars, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, bars []model.Bar, ttl time.Duration) error {
	b, err := encodeBars(bars)
	if err != nil {
		return err
	}
	return r.cli.Set(ctx, keyPrefix+key, b, ttl).Err()
}

// wireBar is the JSON form of a bar; JSON has no NaN so missing fields are null.
type wireBar struct {
	T int64    `json:"t"`
	O *float64 `json:"o"`
	H *float64 `json:"h"`
	L *float64 `json:"l"`
	C *float64 `json:"c"`
	V *float64 `json:"v"`
}

func encodeBars(bars []model.Bar) ([]byte, error) {
	out := make([]wireBar, len(bars))
	for i, b := range bars {
		out[i] = wireBar{T: b.Time.Unix(), O: ptr(b.Open), H: ptr(b.High), L: ptr(b.Low), C: ptr(b.Close), V: ptr(b.Volume)}
	}
	return json.Marshal(out)
}

func decodeBars(data []byte) ([]model.Bar, error) {
	var in []wireBar
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	out := make([]model.Bar, len(in))
	for i, w := range in {
		out[i] = model.Bar{
			Time:   time.Unix(w.T, 0).UTC(),
			Open:   val(w.O),
			High:   val(w.H),
			Low:    val(w.L),
			Close:  val(w.C),
			Volume: val(w.V),
		}
	}
	return out, nil
}

func ptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func val(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
