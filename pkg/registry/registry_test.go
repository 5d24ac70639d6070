package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundledRegistry = "../../configs/activity-registry.json"

func TestLoadRegistry_Bundled(t *testing.T) {
	reg, err := LoadRegistry(bundledRegistry)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{"recommend-property", "simulate-mortgage", "record-recommendation"} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, a.InputSchema)
	}
}

func TestInputValidator(t *testing.T) {
	reg, err := LoadRegistry(bundledRegistry)
	require.NoError(t, err)

	v, err := reg.InputValidator("simulate-mortgage")
	require.NoError(t, err)

	ok, err := v.Validate(map[string]interface{}{
		"property_price": 200000, "down_payment": "40000", "mortgage_rate": 5,
		"rental_income": 1200, "appreciation_rate": 3, "years": 10,
	})
	require.NoError(t, err)
	assert.True(t, ok.Valid, ok.Summary())

	bad, err := v.Validate(map[string]interface{}{"property_price": 200000})
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.True(t, bad.HasErrors("years"))

	_, err = reg.InputValidator("unknown-task")
	assert.Error(t, err)
}

func TestValidate_Problems(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{
		{ID: "a", DisplayName: "A", TaskType: "t", Category: "c"},
		{ID: "a", DisplayName: "A2", TaskType: "t", Category: "c"},
		{ID: "b", DisplayName: "B", TaskType: "u", Category: "c", ImplementationStatus: "shipped"},
		{ID: "c", DisplayName: "C", TaskType: "v", Category: "c", InputSchema: map[string]interface{}{"type": 7}},
	}}

	err := reg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate activity ID: a")
	assert.Contains(t, err.Error(), "duplicate task type: t")
	assert.Contains(t, err.Error(), `unknown status "shipped"`)
	assert.Contains(t, err.Error(), "activity c inputSchema")

	assert.Error(t, (&ActivityRegistry{}).Validate())
}

func TestSetStatusAndSave(t *testing.T) {
	reg, err := LoadRegistry(bundledRegistry)
	require.NoError(t, err)

	require.NoError(t, reg.SetStatus("simulate-mortgage", StatusVerified))
	assert.Error(t, reg.SetStatus("simulate-mortgage", "done"))
	assert.Error(t, reg.SetStatus("missing", StatusVerified))

	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	require.NoError(t, reg.Save(path))

	reloaded, err := LoadRegistry(path)
	require.NoError(t, err)
	a, ok := reloaded.Find("simulate-mortgage")
	require.True(t, ok)
	assert.Equal(t, StatusVerified, a.ImplementationStatus)
	assert.NotEmpty(t, reloaded.LastUpdated)
}
