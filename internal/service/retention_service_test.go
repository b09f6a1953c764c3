package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRetention_RunOnceTrashesOldPosts(t *testing.T) {
	posts := new(mockPostRepo)
	svc := NewRetentionService(posts, 45, time.Hour)

	posts.On("TrashOlderThan", mock.MatchedBy(func(cutoff time.Time) bool {
		// Cutoff sits ~45 days in the past
		expected := time.Now().AddDate(0, 0, -45)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(3), nil)

	trashed, err := svc.RunOnce()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), trashed)
	posts.AssertExpectations(t)
}

func TestRetention_DisabledDoesNothing(t *testing.T) {
	posts := new(mockPostRepo)
	svc := NewRetentionService(posts, 0, time.Hour)

	trashed, err := svc.RunOnce()
	assert.NoError(t, err)
	assert.Zero(t, trashed)
	posts.AssertNotCalled(t, "TrashOlderThan", mock.Anything)
}
