package workload

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFactorSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    LoadFactorSpec
		wantErr error
	}{
		{name: "valid", spec: LoadFactorSpec{Size: 1000, ValueSize: 50}},
		{name: "zero size", spec: LoadFactorSpec{ValueSize: 50}, wantErr: ErrSizeInvalid},
		{name: "negative size", spec: LoadFactorSpec{Size: -1, ValueSize: 50}, wantErr: ErrSizeInvalid},
		{name: "zero value size", spec: LoadFactorSpec{Size: 10}, wantErr: ErrValueSizeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKeyDistributionSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    KeyDistributionSpec
		wantErr error
	}{
		{name: "uniform", spec: KeyDistributionSpec{Size: 100, Pattern: PatternUniform}},
		{name: "clustered", spec: KeyDistributionSpec{Size: 100, Pattern: PatternClustered}},
		{name: "sequential", spec: KeyDistributionSpec{Size: 100, Pattern: PatternSequential}},
		{name: "zero size", spec: KeyDistributionSpec{Pattern: PatternUniform}, wantErr: ErrSizeInvalid},
		{name: "empty pattern", spec: KeyDistributionSpec{Size: 100}, wantErr: ErrPatternUnknown},
		{name: "unknown pattern", spec: KeyDistributionSpec{Size: 100, Pattern: "zipfian"}, wantErr: ErrPatternUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOperationMixSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    OperationMixSpec
		wantErr error
	}{
		{name: "valid", spec: OperationMixSpec{InitialSize: 100, Operations: 1000, ReadPct: 80, WritePct: 15}},
		{name: "reads plus writes at 100", spec: OperationMixSpec{InitialSize: 1, Operations: 1, ReadPct: 50, WritePct: 50}},
		{name: "zero initial size", spec: OperationMixSpec{Operations: 10, ReadPct: 50}, wantErr: ErrSizeInvalid},
		{name: "zero operations", spec: OperationMixSpec{InitialSize: 10, ReadPct: 50}, wantErr: ErrOperationsInvalid},
		{name: "negative read pct", spec: OperationMixSpec{InitialSize: 1, Operations: 1, ReadPct: -1}, wantErr: ErrMixInvalid},
		{name: "over 100 combined", spec: OperationMixSpec{InitialSize: 1, Operations: 1, ReadPct: 60, WritePct: 60}, wantErr: ErrMixInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStressSpecValidate(t *testing.T) {
	assert.NoError(t, StressSpec{Entries: 100}.Validate())
	assert.ErrorIs(t, StressSpec{}.Validate(), ErrEntriesInvalid)
	assert.ErrorIs(t, StressSpec{Entries: -10}.Validate(), ErrEntriesInvalid)
}

func TestMixFor(t *testing.T) {
	m, err := MixFor("read_heavy", 1000, 10000)
	assert.NoError(t, err)
	assert.Equal(t, OperationMixSpec{InitialSize: 1000, Operations: 10000, ReadPct: 90, WritePct: 5}, m)

	m, err = MixFor("typical_web", 500, 2000)
	assert.NoError(t, err)
	assert.Equal(t, 80, m.ReadPct)
	assert.Equal(t, 15, m.WritePct)

	_, err = MixFor("chaos", 1, 1)
	assert.ErrorIs(t, err, ErrMixUnknown)
}

func TestMixNamesSortedAndValid(t *testing.T) {
	names := MixNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, []string{"balanced", "read_heavy", "typical_web", "write_heavy"}, names)

	for _, name := range names {
		m, err := MixFor(name, 10, 10)
		assert.NoError(t, err)
		assert.NoError(t, m.Validate(), "preset %s must validate once sized", name)
	}
}

func TestPatternNames(t *testing.T) {
	for _, p := range PatternNames() {
		assert.NoError(t, KeyDistributionSpec{Size: 10, Pattern: p}.Validate())
	}
}
