package wrapper

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakewell-bakery/bakewell-server/pkg/config"
	"github.com/bakewell-bakery/bakewell-server/pkg/config/memory"
)

func TestBoolConfig(t *testing.T) {
	defaultValue := true
	overridenValue := false
	mock := memory.NewConfig(nil)
	wrapper := NewBoolConfig(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	// The overriden value is returned when set
	mock.SetValue(overridenValue)
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(context.Background()))

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(context.Background()))

	// Verify conversion from a byte array
	mock.StopInducingErrors()
	mock.SetValue([]byte(strconv.FormatBool(defaultValue)))
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	// Invalid byte array value
	mock.SetValue([]byte("cannot convert"))
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	// Return an unsupported source value type
	mock.SetValue(42)
	val, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, err, ErrUnsuportedConversion)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	// Shutdown the config via the wrapper
	wrapper.Shutdown()
	_, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, config.ErrShutdown, err)
}

func TestUint64Config(t *testing.T) {
	defaultValue := uint64(math.MaxUint64)
	overridenValue := uint64(0)
	mock := memory.NewConfig(nil)
	wrapper := NewUint64Config(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	// The overriden value is returned when set
	mock.SetValue(overridenValue)
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(context.Background()))

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)

	// Verify conversion from a byte array
	mock.StopInducingErrors()
	mock.SetValue([]byte(strconv.FormatUint(defaultValue, 10)))
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// Return an unsupported source value type
	mock.SetValue("not supported")
	val, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, err, ErrUnsuportedConversion)
	assert.Equal(t, defaultValue, val)
}

func TestStringConfig(t *testing.T) {
	defaultValue := "default"
	overridenValue := "override"
	mock := memory.NewConfig(nil)
	wrapper := NewStringConfig(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// The overriden value is returned when set
	mock.SetValue(overridenValue)
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)

	// Verify conversion from a byte array
	mock.SetValue([]byte(overridenValue))
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)

	// Return an unsupported source value type
	mock.StopInducingErrors()
	mock.SetValue(42)
	val, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, err, ErrUnsuportedConversion)
	assert.Equal(t, overridenValue, val)
}

func TestDurationConfig(t *testing.T) {
	defaultValue := 5 * time.Minute
	overridenValue := 30 * time.Second
	mock := memory.NewConfig(nil)
	wrapper := NewDurationConfig(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// The overriden value is returned when set
	mock.SetValue(overridenValue)
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)

	// Verify conversion from a byte array
	mock.SetValue([]byte("30s"))
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)

	// Invalid byte array value
	mock.SetValue([]byte("cannot convert"))
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)

	// Return an unsupported source value type
	mock.StopInducingErrors()
	mock.SetValue(42)
	val, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, err, ErrUnsuportedConversion)
	assert.Equal(t, overridenValue, val)
}
