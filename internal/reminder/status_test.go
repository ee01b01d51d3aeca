package reminder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	status := NewRunStatus()
	status.Append(TaskReminderStatus{TaskID: uuid.New(), Sent: true, Reason: ReasonSent})

	snap := status.Snapshot()
	require.Len(t, snap, 1)

	// Mutating the snapshot must not affect later reads
	snap[0].Reason = "tampered"

	fresh := status.Snapshot()
	require.Len(t, fresh, 1)
	assert.Equal(t, ReasonSent, fresh[0].Reason)
}

func TestRunStatusReset(t *testing.T) {
	t.Parallel()

	status := NewRunStatus()
	status.Append(TaskReminderStatus{TaskID: uuid.New(), Sent: false, Reason: ReasonNoUser})
	status.Append(TaskReminderStatus{TaskID: uuid.New(), Sent: true, Reason: ReasonSent})
	require.Len(t, status.Snapshot(), 2)

	status.Reset()
	assert.Empty(t, status.Snapshot())
}
