package attempt

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"strconv"
	"sync"
	"testing"
)

func TestCoerceSuccess(t *testing.T) {
	v, err := Coerce("op", func() (int, error) { return 3, nil }, Never[int]())
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestCoerceSubstitutes(t *testing.T) {
	v, err := Coerce("op", func() (int, error) {
		return 0, errors.New("boom")
	}, Always(-1))
	require.NoError(t, err)
	assert.Equal(t, -1, v)
}

func TestCoerceHalts(t *testing.T) {
	cause := errors.New("non-numeric argument to binary operator")
	_, err := Coerce("add", func() (int, error) { return 0, cause }, Never[int]())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "add: non-numeric argument to binary operator", err.Error())

	_, err = Coerce("add", func() (int, error) { return 0, cause }, nil)
	assert.ErrorIs(t, err, cause)
}

func TestFloat(t *testing.T) {
	v, err := Float(" 51.5074 ")
	require.NoError(t, err)
	assert.Equal(t, 51.5074, v)

	for _, s := range []string{"a", "", "12,5", "north"} {
		v, err = Float(s)
		require.NoError(t, err, s)
		assert.True(t, math.IsNaN(v), s)
	}

	_, err = Float("1e999")
	assert.ErrorIs(t, err, strconv.ErrRange)
}

func TestStrictFloat(t *testing.T) {
	_, err := StrictFloat("a")
	assert.ErrorIs(t, err, strconv.ErrSyntax)
}

func TestMust(t *testing.T) {
	assert.Equal(t, 2, Must(2, nil))
	assert.Panics(t, func() { Must(0, errors.New("x")) })
}

func TestRecorder(t *testing.T) {
	var r Recorder

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cell := "1.5"
			if i%2 == 0 {
				cell = "bad"
			}
			_, err := r.Float(i, cell)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, r.Len())
	for _, w := range r.Warnings() {
		assert.Equal(t, 0, w.Row%2)
		assert.Equal(t, "parse float", w.Op)
	}
}
