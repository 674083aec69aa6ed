package telemetry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/idmap/internal/adapters/telemetry"
	"go.trai.ch/idmap/internal/core/ports/mocks"
)

func TestLogBridge_OnEnd_LogsFinishedSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var logged string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		logged = msg
	}).Times(1)

	tracer := telemetry.NewOTelTracer("test-tracer", telemetry.NewLogBridge(log))
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "mapper.find")
	span.End()

	require.NotEmpty(t, logged)
	assert.True(t, strings.HasPrefix(logged, "trace: mapper.find finished in "), logged)
}

func TestLogBridge_NilLoggerIsSafe(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test-tracer", telemetry.NewLogBridge(nil))
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "mapper.find")
	assert.NotPanics(t, span.End)
}
