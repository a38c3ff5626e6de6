package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"SELECT 1", "SELECT"},
		{"  insert into customers values ()", "INSERT"},
		{"WITH x AS (SELECT 1) SELECT * FROM x", "SELECT"},
		{"(DELETE FROM invoices)", "DELETE"},
		{"", "UNKNOWN"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, OperationFromSQL(tc.sql), tc.sql)
	}
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewGormLogger(zap.New(core), GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        time.Millisecond,
		IgnoreRecordNotFound: true,
	})
	sql := func() (string, int64) { return "SELECT * FROM customers WHERE email = ?", 1 }

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	l.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, "SELECT", entries[1].ContextMap()["operation"])
	}
}
