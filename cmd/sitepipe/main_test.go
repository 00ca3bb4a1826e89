package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sitepipe/internal/app"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports/mocks"
	"go.trai.ch/sitepipe/internal/engine/steps"
	"go.uber.org/mock/gomock"
)

// newApp builds an App whose collaborators are never reached before configuration loads.
func newApp(ctrl *gomock.Controller, loader *mocks.MockConfigLoader, logger *mocks.MockLogger) *app.App {
	return app.New(
		loader,
		logger,
		mocks.NewMockRenderer(ctrl),
		nil,
		nil,
		mocks.NewMockWatcher(ctrl),
		nil,
		steps.Deps{},
	)
}

func provide(a *app.App, logger *mocks.MockLogger) ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: a, Logger: logger}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	application := newApp(ctrl, mocks.NewMockConfigLoader(ctrl), logger)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provide(application, logger))
	assert.Equal(t, 0, exitCode)
	assert.Empty(t, stderr.String())
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when a command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	errLoad := errors.New("load failed")
	loader.EXPECT().Load("/site").Return(nil, errLoad)

	var logged error
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) { logged = err })

	application := newApp(ctrl, loader, logger)
	exitCode := run(context.Background(), []string{"prod"}, io.Discard, provide(application, logger), func(a *app.App) {
		a.WithWorkDir("/site")
	})

	assert.Equal(t, 1, exitCode)
	assert.ErrorIs(t, logged, errLoad)
}

// TestRun_UnknownCommand verifies that argument errors are reported through the logger.
func TestRun_UnknownCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any())

	application := newApp(ctrl, mocks.NewMockConfigLoader(ctrl), logger)
	exitCode := run(context.Background(), []string{"deploy"}, io.Discard, provide(application, logger))

	assert.Equal(t, 1, exitCode)
}

// TestRun_BuildFailureIsNotLoggedTwice verifies that build failures exit 1 without another log line.
func TestRun_BuildFailureIsNotLoggedTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).Times(0)

	loader.EXPECT().Load(gomock.Any()).Return(nil, errors.Join(domain.ErrBuildExecutionFailed, errors.New("boom")))

	application := newApp(ctrl, loader, logger)
	exitCode := run(context.Background(), []string{"clean"}, io.Discard, provide(application, logger))

	assert.Equal(t, 1, exitCode)
}

// TestExitCode verifies the mapping from command results to exit statuses.
func TestExitCode(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		err    error
		want   int
		logged bool
	}{
		{name: "success", ctx: context.Background(), want: exitOK},
		{name: "build failure", ctx: context.Background(), err: errors.Join(domain.ErrBuildExecutionFailed, errors.New("boom")), want: exitFailure},
		{name: "other failure", ctx: context.Background(), err: errors.New("bad flag"), want: exitFailure, logged: true},
		{name: "cancel without signal", ctx: context.Background(), err: context.Canceled, want: exitFailure, logged: true},
		{name: "interrupted", ctx: cancelled, err: context.Canceled, want: exitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			logger := mocks.NewMockLogger(ctrl)
			if tt.logged {
				logger.EXPECT().Error(tt.err)
			}
			logger.EXPECT().Warn(gomock.Any()).AnyTimes()

			assert.Equal(t, tt.want, exitCode(tt.ctx, tt.err, logger))
		})
	}
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)

	reached := make(chan struct{})
	blockCh := make(chan struct{})

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(_ string) (*domain.Config, error) {
		close(reached)
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any())

	application := newApp(ctrl, loader, logger)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"prod"}, io.Discard, provide(application, logger))
	}()

	<-reached
	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.Equal(t, exitInterrupted, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
