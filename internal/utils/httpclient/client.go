package httpclient

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/url"
	"time"

	"SeasonSchedule/internal/config"

	"github.com/sirupsen/logrus"
)

// NewHTTPClient 通用HTTP客户端构建方法（支持代理、超时、UA、自动解压）
func NewHTTPClient(cfg *config.SourceConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  true, // 由 compressedTransport 自己处理 gzip
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// 配置代理
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("代理地址解析失败，将不使用代理")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", cfg.Proxy).Info("HTTP客户端已配置代理")
		}
	}

	return &http.Client{
		Timeout: time.Duration(cfg.Timeout) * time.Second,
		Transport: &compressedTransport{
			transport: transport,
			userAgent: cfg.UserAgent,
			logger:    logger,
		},
	}
}

type compressedTransport struct {
	transport http.RoundTripper
	userAgent string
	logger    *logrus.Logger
}

func (c *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept-Encoding", "gzip")
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// 处理gzip解压
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.WithError(err).Warn("gzip解压失败，返回原始响应")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{
			Reader: gzReader,
			closer: resp.Body,
		}
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
	}

	return resp, nil
}

// gzipReadCloser 包装 io.ReadCloser，关闭时同时关闭解压 reader 与原始响应体
type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		_ = g.closer.Close()
		return err
	}
	return g.closer.Close()
}
