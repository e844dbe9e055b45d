package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("tire %d not found", 7)))
	assert.Equal(t, KindConflict, KindOf(Conflict("position occupied")))
	assert.Equal(t, KindValidationFailed, KindOf(Validation("company id is required")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("order effects step vehicle_status: %w", NotFound("vehicle 3 not found"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
}

func TestInternalPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "saving assignment")
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "internal: saving assignment", err.Error())
}
