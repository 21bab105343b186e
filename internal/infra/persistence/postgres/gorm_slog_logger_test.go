package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	deliverycontext "bmeh/internal/delivery/context"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func sqlFn() (string, int64) {
	return "SELECT * FROM users", 1
}

func TestGormSlogLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		elapsed time.Duration
		err     error
		want    string
	}{
		{name: "error", err: errors.New("boom"), want: "GORM query failed"},
		{name: "record not found is quiet", err: gorm.ErrRecordNotFound, want: ""},
		{name: "slow query", elapsed: time.Second, want: "GORM slow query"},
		{name: "fast query without debug", want: ""},
		{name: "fast query with debug", debug: true, want: "GORM query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, buf := newBufferLogger()
			l := newGormSlogLogger(base, tt.debug)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), sqlFn, tt.err)

			if tt.want == "" {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), `"msg":"`+tt.want+`"`)
			assert.Contains(t, buf.String(), "SELECT * FROM users")
		})
	}
}

func TestGormSlogLogger_SilentMode(t *testing.T) {
	base, buf := newBufferLogger()
	l := newGormSlogLogger(base, true).LogMode(logger.Silent)

	l.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
	l.Error(context.Background(), "ignored %d", 1)

	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_UsesRequestLogger(t *testing.T) {
	base, baseBuf := newBufferLogger()
	scoped, scopedBuf := newBufferLogger()
	ctx := deliverycontext.WithLogger(context.Background(), scoped)

	newGormSlogLogger(base, false).Warn(ctx, "pool %s", "exhausted")

	assert.Empty(t, baseBuf.String())
	assert.Contains(t, scopedBuf.String(), "pool exhausted")
}

func TestLogPoolWait(t *testing.T) {
	base, buf := newBufferLogger()

	logPoolWait(context.Background(), base, sql.DBStats{}, sql.DBStats{})
	assert.Empty(t, buf.String())

	logPoolWait(context.Background(), base,
		sql.DBStats{WaitCount: 1},
		sql.DBStats{WaitCount: 3, WaitDuration: 100 * time.Millisecond},
	)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"waitCountDelta":2`)
}
