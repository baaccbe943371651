package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpace(t *testing.T) {
	tests := []struct {
		name        string
		spaceName   string
		capacity    int
		wantErr     bool
		errExpected error
	}{
		{name: "正常なスペース作成", spaceName: "会議室A", capacity: 10, wantErr: false},
		{name: "名前未指定", spaceName: "", capacity: 10, wantErr: true, errExpected: ErrSpaceNameRequired},
		{name: "収容人数が0", spaceName: "会議室A", capacity: 0, wantErr: true, errExpected: ErrInvalidCapacity},
		{name: "収容人数が負", spaceName: "会議室A", capacity: -5, wantErr: true, errExpected: ErrInvalidCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpace(tt.spaceName, "説明", tt.capacity)
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.errExpected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusActive, s.Status)
			assert.True(t, s.IsActive())
		})
	}
}

func TestSpace_Deactivate(t *testing.T) {
	s := NewSpace("会議室A", "", 10)
	require.NoError(t, s.Deactivate())
	assert.Equal(t, StatusInactive, s.Status)
	assert.False(t, s.IsActive())

	// 二重の論理削除は拒否
	err := s.Deactivate()
	assert.ErrorIs(t, err, ErrSpaceAlreadyInactive)
}
