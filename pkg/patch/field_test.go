package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type settingsPayload struct {
	Enabled     Field[bool]    `json:"enabled"`
	DeliveryFee Field[float64] `json:"delivery_fee"`
	Notes       Field[string]  `json:"notes"`
}

func TestFieldAbsent(t *testing.T) {
	t.Parallel()

	var p settingsPayload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

	require.False(t, p.Enabled.Present)
	require.False(t, p.DeliveryFee.Present)
	require.Nil(t, p.DeliveryFee.Ptr())
}

func TestFieldNull(t *testing.T) {
	t.Parallel()

	var p settingsPayload
	require.NoError(t, json.Unmarshal([]byte(`{"delivery_fee": null}`), &p))

	require.True(t, p.DeliveryFee.Present)
	require.True(t, p.DeliveryFee.Null)
	require.Nil(t, p.DeliveryFee.Ptr())
	require.False(t, p.Enabled.Present)
}

func TestFieldValue(t *testing.T) {
	t.Parallel()

	var p settingsPayload
	require.NoError(t, json.Unmarshal([]byte(`{"enabled": true, "delivery_fee": 49.5}`), &p))

	require.True(t, p.Enabled.Present)
	require.False(t, p.Enabled.Null)
	require.True(t, p.Enabled.Value)

	require.True(t, p.DeliveryFee.Present)
	require.Equal(t, 49.5, p.DeliveryFee.Value)
	require.NotNil(t, p.DeliveryFee.Ptr())
	require.Equal(t, 49.5, *p.DeliveryFee.Ptr())
}

func TestFieldZeroValueIsPresent(t *testing.T) {
	t.Parallel()

	var p settingsPayload
	require.NoError(t, json.Unmarshal([]byte(`{"delivery_fee": 0}`), &p))

	require.True(t, p.DeliveryFee.Present)
	require.False(t, p.DeliveryFee.Null)
	require.Equal(t, 0.0, p.DeliveryFee.Value)
	require.NotNil(t, p.DeliveryFee.Ptr())
}

func TestFieldWrongTypeStaysAbsent(t *testing.T) {
	t.Parallel()

	var p settingsPayload
	// the document as a whole parses; the mistyped fields are dropped
	require.NoError(t, json.Unmarshal([]byte(`{"enabled": "yes", "delivery_fee": "free", "notes": 7}`), &p))

	require.False(t, p.Enabled.Present)
	require.False(t, p.DeliveryFee.Present)
	require.False(t, p.Notes.Present)
}

func TestFieldConstructors(t *testing.T) {
	t.Parallel()

	set := Set(12.5)
	require.True(t, set.Present)
	require.False(t, set.Null)
	require.Equal(t, 12.5, set.Value)

	null := Null[float64]()
	require.True(t, null.Present)
	require.True(t, null.Null)
	require.Nil(t, null.Ptr())
}

func TestFieldMarshal(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Set("hello"))
	require.NoError(t, err)
	require.JSONEq(t, `"hello"`, string(out))

	out, err = json.Marshal(Null[string]())
	require.NoError(t, err)
	require.Equal(t, "null", string(out))

	out, err = json.Marshal(Field[string]{})
	require.NoError(t, err)
	require.Equal(t, "null", string(out))
}

func TestFieldPtrReturnsCopy(t *testing.T) {
	t.Parallel()

	f := Set(10.0)
	p := f.Ptr()
	*p = 99

	require.Equal(t, 10.0, f.Value)
}
