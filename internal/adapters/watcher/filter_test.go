package watcher_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sitepipe/internal/adapters/watcher"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/sitepipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestContentFilter_Changed(t *testing.T) {
	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockHasher(ctrl)
	f := watcher.NewContentFilter(hasher)

	const path = "/site/src/index.html"
	write := ports.WatchEvent{Path: path, Operation: ports.OpWrite}

	gomock.InOrder(
		hasher.EXPECT().ComputeFileHash(path).Return(uint64(1), nil),
		hasher.EXPECT().ComputeFileHash(path).Return(uint64(1), nil),
		hasher.EXPECT().ComputeFileHash(path).Return(uint64(2), nil),
		hasher.EXPECT().ComputeFileHash(path).Return(uint64(0), errors.New("gone")),
	)

	assert.True(t, f.Changed(write), "first write is a change")
	assert.False(t, f.Changed(write), "same content is filtered")
	assert.True(t, f.Changed(write), "new content is a change")
	assert.True(t, f.Changed(write), "unreadable file counts as changed")
}

func TestContentFilter_SeedAndRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockHasher(ctrl)
	f := watcher.NewContentFilter(hasher)

	const path = "/site/src/assets/js/app.js"
	hasher.EXPECT().ComputeFileHash(path).Return(uint64(7), nil).Times(3)

	f.Seed(path)
	assert.False(t, f.Changed(ports.WatchEvent{Path: path, Operation: ports.OpWrite}))

	assert.True(t, f.Changed(ports.WatchEvent{Path: path, Operation: ports.OpRemove}))
	assert.True(t, f.Changed(ports.WatchEvent{Path: path, Operation: ports.OpCreate}))
}
