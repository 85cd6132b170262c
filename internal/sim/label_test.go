package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildLabels verifies the label map written to a new simulator
// container, including RFC3339 UTC timestamps.
func TestBuildLabels(t *testing.T) {
	createdAt := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	labels := BuildLabels("warehouse", 11345, createdAt)

	assert.Equal(t, ManagedByValue, labels[LabelManagedBy])
	assert.Equal(t, "warehouse", labels[LabelWorld])
	assert.Equal(t, "11345", labels[LabelPort])
	assert.Equal(t, "2026-08-27T10:30:00Z", labels[LabelCreatedAt])
}

// TestParseLabels_RoundTrip verifies that ParseLabels is the inverse of
// BuildLabels.
func TestParseLabels_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	labels := BuildLabels("warehouse", 11345, createdAt)

	info, err := ParseLabels(labels)
	require.NoError(t, err)

	assert.Equal(t, "warehouse", info.World)
	assert.Equal(t, 11345, info.Port)
	assert.True(t, createdAt.Equal(info.CreatedAt))
}

// TestParseLabels_Missing verifies that all missing labels are reported
// together, not just the first.
func TestParseLabels_Missing(t *testing.T) {
	_, err := ParseLabels(map[string]string{
		LabelManagedBy: ManagedByValue,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelWorld)
	assert.Contains(t, err.Error(), LabelPort)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestParseLabels_ForeignContainer verifies that a container carrying the
// label keys but a different managed-by value is rejected — it belongs to
// another tool.
func TestParseLabels_ForeignContainer(t *testing.T) {
	labels := BuildLabels("warehouse", 11345, time.Now())
	labels[LabelManagedBy] = "someone-else"

	_, err := ParseLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected value")
}

// TestParseLabels_BadPort verifies rejection of a non-numeric port label.
func TestParseLabels_BadPort(t *testing.T) {
	labels := BuildLabels("warehouse", 11345, time.Now())
	labels[LabelPort] = "not-a-port"

	_, err := ParseLabels(labels)
	assert.Error(t, err)
}
