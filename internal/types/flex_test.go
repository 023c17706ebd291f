package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDUnmarshal(t *testing.T) {
	var body struct {
		A FlexID `json:"a"`
		B FlexID `json:"b"`
		C FlexID `json:"c"`
		D FlexID `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":7,"b":"12","c":null}`), &body))

	assert.Equal(t, FlexID{ID: 7, Valid: true}, body.A)
	assert.Equal(t, FlexID{ID: 12, Valid: true}, body.B)
	assert.False(t, body.C.Valid)
	assert.False(t, body.D.Valid)
	assert.Nil(t, body.C.Ptr())
	require.NotNil(t, body.B.Ptr())
	assert.Equal(t, uint64(12), *body.B.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"abc"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"a":-1}`), &body))
}

func TestParseFlexID(t *testing.T) {
	id, err := ParseFlexID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id.ID)

	id, err = ParseFlexID("")
	require.NoError(t, err)
	assert.False(t, id.Valid)

	_, err = ParseFlexID("0")
	assert.Error(t, err)

	first, _ := ParseFlexID("")
	second, _ := ParseFlexID("3")
	assert.Equal(t, uint64(3), first.Or(second).ID)
}

// TestFlexList tests a single object and an array both decode to a list
func TestFlexList(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}

	var one FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(` {"name":"a"} `), &one))
	assert.Len(t, one, 1)

	var many FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"a"},{"name":"b"}]`), &many))
	require.Len(t, many, 2)

	ptrs := many.Pointers()
	ptrs[1].Name = "c"
	assert.Equal(t, "c", many[1].Name)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "validation", KindOf(NewValidationError("x")))
	assert.Equal(t, "duplicate", KindOf(NewDuplicateKeyError("x")))
	assert.Equal(t, "notfound", KindOf(NewNotFoundError("x")))
	assert.Equal(t, "inuse", KindOf(NewInUseError("x")))
	assert.Equal(t, "internal", KindOf(assert.AnError))
	assert.Equal(t, "", KindOf(nil))
}
