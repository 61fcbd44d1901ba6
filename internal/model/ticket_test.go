package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeat(t *testing.T) {
	hall := TheatreHall{ID: 1, Name: "Main", Rows: 10, SeatsInRow: 12}

	t.Run("valid corners", func(t *testing.T) {
		assert.NoError(t, ValidateSeat(1, 1, hall))
		assert.NoError(t, ValidateSeat(10, 12, hall))
	})

	t.Run("row out of range", func(t *testing.T) {
		for _, row := range []uint32{0, 11, 100} {
			err := ValidateSeat(row, 1, hall)
			require.Error(t, err)
			ve, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Equal(t, "row", ve.Field)
			assert.Equal(t, "row number must be between 1 and 10", ve.Message)
		}
	})

	t.Run("seat out of range", func(t *testing.T) {
		for _, seat := range []uint32{0, 13} {
			err := ValidateSeat(5, seat, hall)
			require.Error(t, err)
			ve, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Equal(t, "seat", ve.Field)
			assert.Equal(t, "seat number must be between 1 and 12", ve.Message)
		}
	})

	t.Run("row checked before seat", func(t *testing.T) {
		err := ValidateSeat(0, 0, hall)
		require.Error(t, err)
		ve, ok := err.(*ValidationError)
		require.True(t, ok)
		assert.Equal(t, "row", ve.Field)
	})
}

func TestHallCapacity(t *testing.T) {
	assert.Equal(t, uint32(120), TheatreHall{Rows: 10, SeatsInRow: 12}.Capacity())
	assert.Equal(t, uint32(0), TheatreHall{}.Capacity())
}
