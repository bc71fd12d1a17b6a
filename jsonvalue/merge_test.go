package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeObjectsScalarOverwrite(t *testing.T) {
	dst := NewObject()
	dst.Set("name", "alice")
	dst.Set("age", 1.0)

	src := NewObject()
	src.Set("age", 2.0)
	src.Set("email", "alice@example.com")

	merged := MergeObjects(dst, src)

	age, ok := merged.Get("age")
	require.True(t, ok)
	assert.Equal(t, 2.0, age)

	email, ok := merged.Get("email")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", email)

	name, ok := merged.Get("name")
	require.True(t, ok)
	assert.Equal(t, "alice", name)
}

func TestMergeObjectsRecursesNestedObjects(t *testing.T) {
	dstInner := NewObject()
	dstInner.Set("a", 1.0)
	dst := NewObject()
	dst.Set("inner", dstInner)

	srcInner := NewObject()
	srcInner.Set("b", 2.0)
	src := NewObject()
	src.Set("inner", srcInner)

	merged := MergeObjects(dst, src)

	innerVal, ok := merged.Get("inner")
	require.True(t, ok)
	innerObj, ok := AsObject(innerVal)
	require.True(t, ok)

	a, ok := innerObj.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, a)
	b, ok := innerObj.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2.0, b)
}

func TestMergeObjectsMergesEqualLengthArraysElementwise(t *testing.T) {
	dstElem := NewObject()
	dstElem.Set("id", "1")
	dst := NewObject()
	dst.Set("items", []Value{dstElem})

	srcElem := NewObject()
	srcElem.Set("price", 9.99)
	src := NewObject()
	src.Set("items", []Value{srcElem})

	merged := MergeObjects(dst, src)

	itemsVal, ok := merged.Get("items")
	require.True(t, ok)
	items, ok := AsArray(itemsVal)
	require.True(t, ok)
	require.Len(t, items, 1)

	itemObj, ok := AsObject(items[0])
	require.True(t, ok)
	id, _ := itemObj.Get("id")
	assert.Equal(t, "1", id)
	price, _ := itemObj.Get("price")
	assert.Equal(t, 9.99, price)
}

func TestMergeObjectsMismatchedArrayLengthOverwrites(t *testing.T) {
	dst := NewObject()
	dst.Set("items", []Value{"a", "b"})

	src := NewObject()
	src.Set("items", []Value{"x"})

	merged := MergeObjects(dst, src)
	itemsVal, _ := merged.Get("items")
	items, ok := AsArray(itemsVal)
	require.True(t, ok)
	assert.Equal(t, []Value{"x"}, items)
}

func TestMergeObjectsPreservesKeyOrder(t *testing.T) {
	dst := NewObject()
	dst.Set("b", 1.0)
	dst.Set("a", 2.0)

	src := NewObject()
	src.Set("c", 3.0)

	merged := MergeObjects(dst, src)
	assert.Equal(t, []string{"b", "a", "c"}, merged.Keys())
}

func TestUnmarshalPreservesObjectKeyOrder(t *testing.T) {
	v, err := Unmarshal([]byte(`{"z": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)
	obj, ok := AsObject(v)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
}

func TestMarshalRoundTripsKeyOrder(t *testing.T) {
	v, err := Unmarshal([]byte(`{"z": 1, "a": 2}`))
	require.NoError(t, err)
	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2}`, string(out))
}
