package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeActionRestricted, CodeOf(ActionRestricted("blocked")))
	assert.Equal(t, CodeModeration, CodeOf(Moderation("rejected", nil)))

	// 包装一层也能取到码
	wrapped := fmt.Errorf("handler: %w", NotFound("gone"))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))

	// 非 AppError 一律按远端失败处理
	assert.Equal(t, CodeRemoteOperation, CodeOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial timeout")
	err := RemoteOperation("submit failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dial timeout")
}
