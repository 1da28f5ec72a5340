package health

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MessageHealthy  = "Tất cả hệ thống hoạt động bình thường"
	messageDegraded = "Một số hệ thống gặp sự cố: "
)

// Subsystem display names used in the degraded message.
const (
	NameDatabase  = "Cơ sở dữ liệu"
	NameAuth      = "Xác thực"
	NameMessaging = "Hàng đợi sự kiện"
)

type Probe interface {
	Check(ctx context.Context) error
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) error

func (f ProbeFunc) Check(ctx context.Context) error { return f(ctx) }

type Report struct {
	Database  bool      `json:"database"`
	Auth      bool      `json:"auth"`
	Messaging bool      `json:"messaging"`
	Healthy   bool      `json:"healthy"`
	Message   string    `json:"message"`
	CheckedAt time.Time `json:"checked_at"`
}

type Checker struct {
	database  Probe
	auth      Probe
	messaging Probe
	log       *zap.SugaredLogger
}

func NewChecker(database, auth, messaging Probe, log *zap.SugaredLogger) *Checker {
	return &Checker{database: database, auth: auth, messaging: messaging, log: log}
}

// Check runs the three probes in parallel. A failing or missing probe marks
// its subsystem unhealthy; Check itself never fails.
func (c *Checker) Check(ctx context.Context) Report {
	var (
		g      errgroup.Group
		report Report
	)
	g.Go(func() error { report.Database = c.run(ctx, NameDatabase, c.database); return nil })
	g.Go(func() error { report.Auth = c.run(ctx, NameAuth, c.auth); return nil })
	g.Go(func() error { report.Messaging = c.run(ctx, NameMessaging, c.messaging); return nil })
	_ = g.Wait()

	report.CheckedAt = time.Now()
	report.Healthy = report.Database && report.Auth && report.Messaging
	report.Message = message(report)
	return report
}

func (c *Checker) run(ctx context.Context, name string, p Probe) bool {
	if p == nil {
		return false
	}
	if err := p.Check(ctx); err != nil {
		c.log.Warnw("health probe failed", "subsystem", name, "err", err)
		return false
	}
	return true
}

func message(r Report) string {
	if r.Healthy {
		return MessageHealthy
	}
	var failing []string
	if !r.Database {
		failing = append(failing, NameDatabase)
	}
	if !r.Auth {
		failing = append(failing, NameAuth)
	}
	if !r.Messaging {
		failing = append(failing, NameMessaging)
	}
	return messageDegraded + strings.Join(failing, ", ")
}
