package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestSetupWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")
	closer := Setup(Options{Level: "debug", JSON: true, File: file, MaxSizeMB: 1})
	t.Cleanup(func() {
		_ = closer.Close()
		log.SetOutput(os.Stdout)
	})

	log.WithField("order_id", "o-1").Info("payment toggled")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order_id":"o-1"`)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestSetupInvalidLevelDefaultsToInfo(t *testing.T) {
	closer := Setup(Options{Level: "loud"})
	defer closer.Close()
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

func TestGormLoggerTraceDoesNotPanic(t *testing.T) {
	l := NewGormLogger(time.Millisecond).LogMode(gormlogger.Info)
	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)
	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, errors.New("boom"))
}
