package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/location-timeline/internal/models"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, 0.5, p.Velocity.StationaryMaxMPS)
	assert.Equal(t, 8.0, p.Velocity.CyclingMaxMPS)
	assert.Equal(t, 5*time.Minute, Seconds(p.Cluster.GapToleranceS))
	assert.Equal(t, 15*time.Minute, Seconds(p.Golf.GapToleranceS))
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Commute.OutboundWindow.Weekdays[0] = time.Sunday
	b := Default()
	assert.Equal(t, time.Monday, b.Commute.OutboundWindow.Weekdays[0])
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"golf":{"maxMeanVelocityMps":2.2}}`), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2.2, p.Golf.MaxMeanVelocityMPS)
	assert.Equal(t, 0.8, p.Golf.MinMeanVelocityMPS)
	assert.Equal(t, DefaultCluster, p.Cluster)
}

func TestLoadFileEmptyPath(t *testing.T) {
	p, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVelocityBands, p.Velocity)
}

func TestApplyProfile(t *testing.T) {
	p, err := Default().ApplyProfile(models.ThresholdProfile{
		Name:       "slow walker",
		SkillName:  models.SkillVelocity,
		ParamsJSON: `{"walkingMaxMps":1.8}`,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.8, p.Velocity.WalkingMaxMPS)
	assert.Equal(t, 0.5, p.Velocity.StationaryMaxMPS)
}

func TestApplyProfileRejectsInvalid(t *testing.T) {
	_, err := Default().ApplyProfile(models.ThresholdProfile{
		SkillName:  models.SkillVelocity,
		ParamsJSON: `{"walkingMaxMps":9}`,
	})
	assert.Error(t, err)

	_, err = Default().ApplyProfile(models.ThresholdProfile{SkillName: "nope", ParamsJSON: `{}`})
	assert.Error(t, err)
}
