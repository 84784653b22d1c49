package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"SeasonSchedule/internal/config"
	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"
	"SeasonSchedule/internal/utils/httpclient"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
)

// StatusError 上游返回非 2xx
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("上游返回状态码 %d: %s", e.StatusCode, e.URL)
}

// Fetcher 单个数据源的 HTTP 拉取器：限速 -> 查缓存 -> 请求（失败重试）-> 写缓存。
// 可被多个 goroutine 并发使用。
type Fetcher struct {
	source  string
	client  *http.Client
	limiter *rate.Limiter
	retries int
	backoff time.Duration
	store   interfaces.ResponseStore // nil 表示不缓存
	ttl     time.Duration
	logger  *logrus.Logger
	now     func() time.Time
}

// Option 可选配置
type Option func(*Fetcher)

// WithStore 启用响应缓存
func WithStore(store interfaces.ResponseStore, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.store = store
		f.ttl = ttl
	}
}

// WithHTTPClient 替换底层 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithBackoff 重试基础间隔（第 n 次重试等待 backoff*2^(n-1)）
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) { f.backoff = d }
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New 按数据源配置创建 Fetcher
func New(source string, cfg *config.SourceConfig, logger *logrus.Logger, opts ...Option) *Fetcher {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	f := &Fetcher{
		source:  source,
		client:  httpclient.NewHTTPClient(cfg, logger),
		limiter: rate.NewLimiter(limit, burst),
		retries: cfg.RetryCount,
		backoff: 500 * time.Millisecond,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch 拉取 url。缓存命中且未过期时不访问上游；缓存读写失败只记日志。
func (f *Fetcher) Fetch(ctx context.Context, url string) (*model.Response, error) {
	log := f.logger.WithFields(logrus.Fields{
		"source":     f.source,
		"url":        url,
		"request_id": uuid.NewString(),
	})

	if resp := f.lookup(ctx, url, log); resp != nil {
		return resp, nil
	}

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			wait := f.backoff * time.Duration(1<<uint(attempt-1))
			log.WithError(lastErr).WithField("attempt", attempt).Warn("请求失败，准备重试")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("等待限速失败: %w", err)
		}

		resp, err := f.doOnce(ctx, url)
		if err == nil {
			f.remember(ctx, resp, log)
			log.WithField("status", resp.StatusCode).Debug("上游请求成功")
			return resp, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("请求%s失败: %w", url, lastErr)
}

func (f *Fetcher) doOnce(ctx context.Context, url string) (*model.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return &model.Response{
		URL:        url,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Text:       string(body),
	}, nil
}

// retryable 网络错误、429 与 5xx 重试，其余 4xx 直接失败
func retryable(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return true
	}
	return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
}

func (f *Fetcher) lookup(ctx context.Context, url string, log *logrus.Entry) *model.Response {
	if f.store == nil {
		return nil
	}
	entry, err := f.store.Get(ctx, url)
	if err != nil {
		log.WithError(err).Warn("读取响应缓存失败，直接请求上游")
		return nil
	}
	if entry == nil || entry.Expired(f.now()) {
		return nil
	}
	resp := &model.Response{
		URL:        url,
		StatusCode: entry.StatusCode,
		Text:       entry.Body,
		FromCache:  true,
	}
	if len(entry.Headers) > 0 {
		var header http.Header
		if err := json.Unmarshal(entry.Headers, &header); err == nil {
			resp.Header = header
		}
	}
	log.Debug("命中响应缓存")
	return resp
}

func (f *Fetcher) remember(ctx context.Context, resp *model.Response, log *logrus.Entry) {
	if f.store == nil {
		return
	}
	headers, err := json.Marshal(resp.Header)
	if err != nil {
		headers = []byte("{}")
	}
	now := f.now()
	entry := &model.CachedResponse{
		URL:        resp.URL,
		Source:     f.source,
		StatusCode: resp.StatusCode,
		Headers:    datatypes.JSON(headers),
		Body:       resp.Text,
		FetchedAt:  now,
		ExpiresAt:  now.Add(f.ttl),
	}
	if err := f.store.Save(ctx, entry); err != nil {
		log.WithError(err).Warn("写入响应缓存失败")
	}
}
