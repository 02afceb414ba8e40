// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the logrus loggers used across macro-tracker.
// Optional hooks ship entries to Logstash (UDP) and Elasticsearch.
package logging

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

const (
	appName         = "macro-tracker"
	timestampFormat = "2006-01-02 15:04:05"
)

var (
	mu  sync.RWMutex
	std = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.Out = w
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{TimestampFormat: timestampFormat})
	return l
}

// Default returns the process-wide logger used by library packages.
func Default() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	std = l
}

// New builds a logger from cfg. Hook connection failures are reported on the
// returned logger as warnings and do not fail construction; an unknown level
// or format does.
//
// The returned close func releases the log file and hook connections and
// points the logger back at stderr. Call it once, after the last entry.
func New(cfg types.LogConfig) (*logrus.Logger, func() error, error) {
	l := newLogger(os.Stderr)

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	default:
		return nil, nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.Format)
	}

	var closers []func() error

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		l.SetOutput(f)
		closers = append(closers, func() error {
			l.SetOutput(os.Stderr)
			return f.Close()
		})
	}

	if cfg.LogstashURL != "" {
		closeHook, err := addLogstashHook(l, cfg.LogstashURL)
		if err != nil {
			l.WithError(err).Warn("logstash hook disabled")
		} else {
			closers = append(closers, closeHook)
		}
	}

	if cfg.ElasticURL != "" {
		closeHook, err := addElasticHook(l, cfg.ElasticURL, cfg.ElasticIndex, lvl)
		if err != nil {
			l.WithError(err).Warn("elasticsearch hook disabled")
		} else {
			closers = append(closers, closeHook)
		}
	}

	var once sync.Once
	var closeErr error
	closeAll := func() error {
		once.Do(func() {
			l.ReplaceHooks(make(logrus.LevelHooks))
			var errs []error
			for i := len(closers) - 1; i >= 0; i-- {
				errs = append(errs, closers[i]())
			}
			closeErr = errors.Join(errs...)
		})
		return closeErr
	}
	return l, closeAll, nil
}

func addLogstashHook(l *logrus.Logger, addr string) (func() error, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing logstash %s: %w", addr, err)
	}
	hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": appName}))
	l.Hooks.Add(hook)
	return conn.Close, nil
}

func addElasticHook(l *logrus.Logger, url, index string, lvl logrus.Level) (func() error, error) {
	if index == "" {
		index = appName
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}
	host, _ := os.Hostname()
	if host == "" {
		host = appName
	}
	hook, err := elogrus.NewAsyncElasticHook(client, host, lvl, index)
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch hook: %w", err)
	}
	l.Hooks.Add(hook)
	return func() error {
		hook.Cancel()
		return nil
	}, nil
}
