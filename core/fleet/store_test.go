package fleet

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/enginepool/core/model"
)

func sampleStore(t *testing.T) *Store {
	t.Helper()
	ac := []model.Aircraft{
		{ID: "CC-AAA_AV", Family: "A320JJ", Category: model.NarrowBody, CyclesPerWeek: 350},
		{ID: "CC-BBB_AV", Family: "B767F", Category: model.WideBody, CyclesPerWeek: 70},
	}
	ms := []model.Motor{
		{ID: "CC-AAA", Family: "A320JJ", Category: model.NarrowBody, Cycles: 100, InstalledOn: "CC-AAA_AV"},
		{ID: "CC-BBB", Family: "B767F", Category: model.WideBody, Cycles: 50, InstalledOn: "CC-BBB_AV"},
		{ID: "SPARE-1", Family: "A321", Category: model.NarrowBody},
	}
	s, err := New(ac, ms)
	require.NoError(t, err)
	return s
}

func TestNewBuildsRelation(t *testing.T) {
	s := sampleStore(t)
	assert.Equal(t, 2, s.Len())
	m, ok := s.InstalledMotor("CC-AAA_AV")
	require.True(t, ok)
	assert.Equal(t, "CC-AAA", m.ID)
	assert.Equal(t, "CC-AAA_AV", m.InstalledOn)
	assert.Equal(t, []string{"SPARE-1"}, s.Inventory())
	assert.NoError(t, s.Verify())
}

func TestNewFromAircraftSide(t *testing.T) {
	s, err := New(
		[]model.Aircraft{{ID: "T1", Family: "A320", Category: model.NarrowBody, MotorID: "M1"}},
		[]model.Motor{{ID: "M1", Family: "A320", Category: model.NarrowBody}},
	)
	require.NoError(t, err)
	m, ok := s.InstalledMotor("T1")
	require.True(t, ok)
	assert.Equal(t, "T1", m.InstalledOn)
	assert.Empty(t, s.Inventory())
}

func TestNewRejectsBadInput(t *testing.T) {
	nb := model.NarrowBody
	cases := map[string]struct {
		ac []model.Aircraft
		ms []model.Motor
	}{
		"duplicate aircraft": {
			ac: []model.Aircraft{{ID: "T1", Family: "A320", Category: nb}, {ID: "T1", Family: "A320", Category: nb}},
		},
		"duplicate motor": {
			ac: []model.Aircraft{{ID: "T1", Family: "A320", Category: nb}},
			ms: []model.Motor{{ID: "M1", Family: "A320", Category: nb}, {ID: "M1", Family: "A320", Category: nb}},
		},
		"cross category": {
			ac: []model.Aircraft{{ID: "T1", Family: "A320", Category: nb}},
			ms: []model.Motor{{ID: "M1", Family: "B767F", Category: model.WideBody, InstalledOn: "T1"}},
		},
		"unknown tail": {
			ac: []model.Aircraft{{ID: "T1", Family: "A320", Category: nb}},
			ms: []model.Motor{{ID: "M1", Family: "A320", Category: nb, InstalledOn: "T9"}},
		},
		"two motors one tail": {
			ac: []model.Aircraft{{ID: "T1", Family: "A320", Category: nb}},
			ms: []model.Motor{
				{ID: "M1", Family: "A320", Category: nb, InstalledOn: "T1"},
				{ID: "M2", Family: "A320", Category: nb, InstalledOn: "T1"},
			},
		},
		"disagreeing sides": {
			ac: []model.Aircraft{{ID: "T1", Family: "A320", Category: nb, MotorID: "M1"}, {ID: "T2", Family: "A320", Category: nb}},
			ms: []model.Motor{{ID: "M1", Family: "A320", Category: nb, InstalledOn: "T2"}},
		},
		"leased at load": {
			ac: []model.Aircraft{{ID: "T1", Family: "A320", Category: nb}},
			ms: []model.Motor{{ID: "L1", Family: "A320", Category: nb, Leased: true}},
		},
		"NaN rate": {
			ac: []model.Aircraft{{ID: "T1", Family: "A321", Category: nb, CyclesPerWeek: math.NaN()}},
			ms: []model.Motor{{ID: "M1", Family: "A321", Category: nb, InstalledOn: "T1"}},
		},
		"infinite cycles": {
			ac: []model.Aircraft{{ID: "T1", Family: "A321", Category: nb}},
			ms: []model.Motor{{ID: "M1", Family: "A321", Category: nb, Cycles: math.Inf(1)}},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(c.ac, c.ms)
			assert.Error(t, err)
		})
	}
}

func TestInstallDetachKeepsBothSides(t *testing.T) {
	s := sampleStore(t)
	id, err := s.Detach("CC-AAA_AV")
	require.NoError(t, err)
	assert.Equal(t, "CC-AAA", id)
	m, _ := s.Motor("CC-AAA")
	assert.False(t, m.Installed())
	a, _ := s.Tail("CC-AAA_AV")
	assert.False(t, a.HasMotor())

	require.True(t, s.RemoveFromInventory("SPARE-1"))
	require.NoError(t, s.Install("CC-AAA_AV", "SPARE-1"))
	m, _ = s.Motor("SPARE-1")
	assert.Equal(t, "CC-AAA_AV", m.InstalledOn)
	assert.NoError(t, s.Verify())

	id, err = s.Detach("CC-AAA_AV")
	require.NoError(t, err)
	assert.Equal(t, "SPARE-1", id)
	id, err = s.Detach("CC-AAA_AV")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestInstallGuards(t *testing.T) {
	s := sampleStore(t)
	err := s.Install("CC-AAA_AV", "SPARE-1")
	assert.True(t, errors.Is(err, ErrAircraftOccupied))

	_, _ = s.Detach("CC-BBB_AV")
	err = s.Install("CC-BBB_AV", "SPARE-1")
	assert.True(t, errors.Is(err, ErrCategoryMismatch))

	_, _ = s.Detach("CC-AAA_AV")
	err = s.Install("CC-AAA_AV", "SPARE-1")
	assert.True(t, errors.Is(err, ErrMotorInInventory))

	err = s.Install("CC-AAA_AV", "nope")
	assert.True(t, errors.Is(err, ErrUnknownMotor))
	err = s.Install("nope", "SPARE-1")
	assert.True(t, errors.Is(err, ErrUnknownAircraft))
}

func TestInventoryIsASet(t *testing.T) {
	s := sampleStore(t)
	_, _ = s.Detach("CC-AAA_AV")
	require.NoError(t, s.AddToInventory("CC-AAA"))
	require.NoError(t, s.AddToInventory("CC-AAA"))
	assert.Equal(t, []string{"SPARE-1", "CC-AAA"}, s.Inventory())
	assert.True(t, s.RemoveFromInventory("SPARE-1"))
	assert.False(t, s.RemoveFromInventory("SPARE-1"))
	assert.Equal(t, []string{"CC-AAA"}, s.Inventory())

	err := s.AddToInventory("CC-BBB")
	assert.True(t, errors.Is(err, ErrMotorInstalled))
}

func TestLeasedLifecycle(t *testing.T) {
	s := sampleStore(t)
	_, _ = s.Detach("CC-BBB_AV")
	require.NoError(t, s.AddMotor(model.Motor{ID: "LEASE-0-0", Family: "B767F", Category: model.WideBody, Leased: true}))
	assert.True(t, errors.Is(s.AddToInventory("LEASE-0-0"), ErrLeasedInInventory))
	require.NoError(t, s.Install("CC-BBB_AV", "LEASE-0-0"))
	assert.True(t, errors.Is(s.Discard("LEASE-0-0"), ErrMotorInstalled))
	_, _ = s.Detach("CC-BBB_AV")
	require.NoError(t, s.Discard("LEASE-0-0"))
	_, ok := s.Motor("LEASE-0-0")
	assert.False(t, ok)
	assert.True(t, errors.Is(s.AddMotor(model.Motor{ID: "SPARE-1", Family: "A320", Category: model.NarrowBody}), ErrDuplicateID))
}

func TestMaintenanceCounters(t *testing.T) {
	s := sampleStore(t)
	require.NoError(t, s.StartMaintenance("SPARE-1", 2))
	left, err := s.TickMaintenance("SPARE-1")
	require.NoError(t, err)
	assert.Equal(t, 1, left)
	left, _ = s.TickMaintenance("SPARE-1")
	assert.Equal(t, 0, left)
	left, _ = s.TickMaintenance("SPARE-1")
	assert.Equal(t, 0, left)

	require.NoError(t, s.AddCycles("CC-AAA", 10))
	m, _ := s.Motor("CC-AAA")
	assert.Equal(t, 110.0, m.Cycles)
	require.NoError(t, s.ResetCycles("CC-AAA"))
	require.NoError(t, s.Retag("CC-AAA", "A321"))
	m, _ = s.Motor("CC-AAA")
	assert.Equal(t, 0.0, m.Cycles)
	assert.Equal(t, "A321", m.Family)
}

func TestVerifyDetectsDrift(t *testing.T) {
	s := sampleStore(t)
	// simulate an alias that bypassed Install
	s.motors["SPARE-1"].InstalledOn = "CC-AAA_AV"
	err := s.Verify()
	var ie *InvariantError
	require.True(t, errors.As(err, &ie))
	assert.NotEmpty(t, ie.Problems)
}
