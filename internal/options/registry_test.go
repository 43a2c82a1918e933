package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gss-dashboard/internal/model"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	cats := r.OptionsFor(model.AxisCategory)
	require.Len(t, cats, 5)
	assert.Equal(t, "job_satisfaction", cats[0].Key)
	assert.Equal(t, "Child Suffer if Women Work", cats[4].Label)

	groups := r.OptionsFor(model.AxisGroup)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"sex", "region", "education"}, []string{groups[0].Key, groups[1].Key, groups[2].Key})
}

func TestOptionsForReturnsCopy(t *testing.T) {
	r := Default()
	opts := r.OptionsFor(model.AxisGroup)
	opts[0].Key = "mutated"

	assert.Equal(t, "sex", r.OptionsFor(model.AxisGroup)[0].Key)
}

func TestResolve(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		axis    model.Axis
		key     string
		wantErr bool
	}{
		{"category ok", model.AxisCategory, "male_breadwinner", false},
		{"group ok", model.AxisGroup, "region", false},
		{"group key on category axis", model.AxisCategory, "sex", true},
		{"category key on group axis", model.AxisGroup, "child_suffer", true},
		{"unknown", model.AxisCategory, "income", true},
		{"empty", model.AxisGroup, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := r.Resolve(tt.axis, tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOption)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, o.Key)
		})
	}
}

func TestNewRejectsBadRegistries(t *testing.T) {
	sex := model.Option{Label: "Sex", Key: "sex"}

	_, err := New(nil, []model.Option{sex})
	assert.Error(t, err, "empty axis")

	_, err = New([]model.Option{sex, sex}, []model.Option{{Label: "R", Key: "region"}})
	assert.Error(t, err, "duplicate key")

	_, err = New([]model.Option{sex}, []model.Option{sex})
	assert.Error(t, err, "key on both axes")

	_, err = New([]model.Option{{Key: "x"}}, []model.Option{sex})
	assert.Error(t, err, "empty label")
}
