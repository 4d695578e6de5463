// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/aws/aws-xray-sdk-go/strategy/sampling"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	SamplingRate   float64
	DaemonAddr     string
}

// enabled gates every helper so untraced processes never touch the SDK.
var enabled atomic.Bool

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	entry := l.logger.WithField("component", "xray")
	switch level {
	case xraylog.LogLevelDebug:
		entry.Debug(msg.String())
	case xraylog.LogLevelInfo:
		entry.Info(msg.String())
	case xraylog.LogLevelWarn:
		entry.Warn(msg.String())
	case xraylog.LogLevelError:
		entry.Error(msg.String())
	}
}

// samplingRules renders a local sampling document with a fixed rate.
func samplingRules(rate float64) ([]byte, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("sampling rate %v must be within [0, 1]", rate)
	}
	return []byte(fmt.Sprintf(`{"version": 2, "default": {"fixed_target": 1, "rate": %g}, "rules": []}`, rate)), nil
}

// Initialize initializes AWS X-Ray with the given configuration. It is a
// no-op when tracing is disabled.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		enabled.Store(false)
		return nil
	}

	rules, err := samplingRules(cfg.SamplingRate)
	if err != nil {
		return err
	}
	strategy, err := sampling.NewLocalizedStrategyFromJSONBytes(rules)
	if err != nil {
		return fmt.Errorf("failed to build sampling strategy: %w", err)
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})

	if err := xray.Configure(xray.Config{
		DaemonAddr:       cfg.DaemonAddr,
		ServiceVersion:   cfg.ServiceVersion,
		SamplingStrategy: strategy,
	}); err != nil {
		return fmt.Errorf("failed to configure x-ray: %w", err)
	}
	enabled.Store(true)

	logger.WithFields(logrus.Fields{
		"daemon_addr":   cfg.DaemonAddr,
		"sampling_rate": cfg.SamplingRate,
		"service_name":  cfg.ServiceName,
	}).Info("AWS X-Ray initialized")

	return nil
}

// Enabled reports whether Initialize turned tracing on.
func Enabled() bool {
	return enabled.Load()
}

// Middleware opens a segment named name around every request.
func Middleware(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !Enabled() {
			return next
		}
		return xray.Handler(xray.NewFixedSegmentNamer(name), next)
	}
}

// StartSubsegment starts a new X-Ray subsegment. The returned segment is nil
// when tracing is disabled or ctx carries no segment.
func StartSubsegment(ctx context.Context, subsegmentName string) (context.Context, *xray.Segment) {
	if !Enabled() || xray.GetSegment(ctx) == nil {
		return ctx, nil
	}
	return xray.BeginSubsegment(ctx, subsegmentName)
}

// End closes seg, recording err when non-nil.
func End(seg *xray.Segment, err error) {
	if seg != nil {
		seg.Close(err)
	}
}

// AddAnnotation adds an annotation to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if !Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}
