package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Minutes(t *testing.T) {
	tests := []struct {
		name    string
		value   TimeString
		want    int
		wantErr bool
	}{
		{name: "midnight", value: "00:00", want: 0},
		{name: "morning", value: "09:30", want: 570},
		{name: "last minute", value: "23:59", want: 1439},
		{name: "end of day", value: "24:00", want: 1440},
		{name: "no leading zero", value: "9:30", wantErr: true},
		{name: "hour out of range", value: "25:00", wantErr: true},
		{name: "minute out of range", value: "10:60", wantErr: true},
		{name: "garbage", value: "abc", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "with seconds", value: "10:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Minutes()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := TimeString("09:00")

	end, err := start.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), end)

	// Интервал может заканчиваться ровно в конце суток
	end, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), end)

	// Выход за пределы суток - ошибка, а не перенос на следующий день
	_, err = TimeString("23:30").AddMinutes(60)
	require.ErrorIs(t, err, ErrTimeOutOfDay)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("24:00").IsAfter("23:59"))

	// Некорректные значения несравнимы
	assert.False(t, TimeString("garbage").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("garbage"))
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(570)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)

	ts, err = NewTimeStringFromMinutes(1440)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	_, err = NewTimeStringFromMinutes(1441)
	require.ErrorIs(t, err, ErrTimeOutOfDay)

	_, err = NewTimeStringFromMinutes(-1)
	require.ErrorIs(t, err, ErrTimeOutOfDay)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит как "HH:MM:SS"
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("10:15")))
	assert.Equal(t, TimeString("10:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	require.Error(t, ts.Scan(42))
}
