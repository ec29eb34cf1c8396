package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/DJprogre33/booking-app/internal/dto"
)

// IdempotencyKeyHeader is the header carrying the client-chosen key.
const IdempotencyKeyHeader = "X-Idempotency-Key"

const (
	idempotencyKeyPrefix = "idempotency:"

	statusProcessing = "processing"
	statusCompleted  = "completed"
)

// idempotencyRecord stores the state of a deduplicated request.
type idempotencyRecord struct {
	Status       string `json:"status"`
	RequestHash  string `json:"request_hash"`
	ResponseCode int    `json:"response_code"`
	ResponseBody string `json:"response_body"`
}

// IdempotencyConfig holds settings for the idempotency middleware.
type IdempotencyConfig struct {
	Redis *redis.Client
	// TTL for completed records.
	TTL time.Duration
	// ProcessingTTL bounds how long a crashed request blocks its key.
	ProcessingTTL time.Duration
}

// Idempotency deduplicates mutating requests that carry an idempotency key.
// Requests without the header pass through. A replayed key returns the
// cached response; the same key with a different body is rejected. Redis
// failures fail open.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.ProcessingTTL == 0 {
		cfg.ProcessingTTL = 60 * time.Second
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}
		hash := requestHash(c, body)

		ctx := c.Request.Context()
		redisKey := idempotencyKeyPrefix + key

		if existing, err := getRecord(ctx, cfg.Redis, redisKey); err == nil && existing != nil {
			replay(c, existing, hash)
			return
		} else if err != nil && !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}

		record := &idempotencyRecord{Status: statusProcessing, RequestHash: hash}
		ok, err := setRecordNX(ctx, cfg.Redis, redisKey, record, cfg.ProcessingTTL)
		if err != nil {
			c.Next()
			return
		}
		if !ok {
			// Lost the race, the concurrent request owns the key now.
			if existing, err := getRecord(ctx, cfg.Redis, redisKey); err == nil && existing != nil {
				replay(c, existing, hash)
				return
			}
			c.Next()
			return
		}

		rw := &captureWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil)}
		c.Writer = rw

		c.Next()

		record.Status = statusCompleted
		record.ResponseCode = rw.Status()
		record.ResponseBody = rw.body.String()
		if payload, err := json.Marshal(record); err == nil {
			cfg.Redis.Set(ctx, redisKey, payload, cfg.TTL)
		}
	}
}

func replay(c *gin.Context, record *idempotencyRecord, hash string) {
	if record.RequestHash != hash {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "idempotency key already used with a different request",
			Code:  "IDEMPOTENCY_KEY_REUSED",
		})
		return
	}
	if record.Status == statusProcessing {
		c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{
			Error: "request with this idempotency key is in progress",
			Code:  "REQUEST_IN_PROGRESS",
		})
		return
	}
	c.Data(record.ResponseCode, "application/json", []byte(record.ResponseBody))
	c.Abort()
}

func requestHash(c *gin.Context, body []byte) string {
	h := sha256.New()
	h.Write([]byte(c.Request.Method))
	h.Write([]byte(c.Request.URL.Path))
	h.Write([]byte(c.GetString("user_id")))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func getRecord(ctx context.Context, client *redis.Client, key string) (*idempotencyRecord, error) {
	payload, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func setRecordNX(ctx context.Context, client *redis.Client, key string, record *idempotencyRecord, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return false, err
	}
	return client.SetNX(ctx, key, payload, ttl).Result()
}

// captureWriter buffers the response so it can be replayed later.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
