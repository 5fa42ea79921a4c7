package msgpacklite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func flatInput(t *testing.T) []byte {
	t.Helper()
	enc, err := Encode(NewMap(
		MapEntry{Key: "id", Value: Int(42)},
		MapEntry{Key: "name", Value: Str("xx")},
		MapEntry{Key: "value", Value: Float(3.14159265359)},
		MapEntry{Key: "flag", Value: Bool(true)},
	))
	require.NoError(t, err)
	return enc
}

func TestProcessFlatEchoesFieldsWithMarker(t *testing.T) {
	out, err := ProcessFlat(flatInput(t))
	require.NoError(t, err)

	v, err := Decode(out)
	require.NoError(t, err)
	require.Equal(t, 5, v.Len())

	id, err := v.Get("id").Int()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	name, err := v.Get("name").Str()
	require.NoError(t, err)
	require.Equal(t, "xx", name)

	value, err := v.Get("value").Float()
	require.NoError(t, err)
	require.Equal(t, 3.14159265359, value)

	flag, err := v.Get("flag").Bool()
	require.NoError(t, err)
	require.True(t, flag)

	processed, err := v.Get("processed").Bool()
	require.NoError(t, err)
	require.True(t, processed)
}

func TestProcessFlatDefaultsMissingFields(t *testing.T) {
	enc, err := Encode(NewMap())
	require.NoError(t, err)

	out, err := ProcessFlat(enc)
	require.NoError(t, err)

	v, err := Decode(out)
	require.NoError(t, err)

	id, err := v.Get("id").Int()
	require.NoError(t, err)
	require.Equal(t, int64(0), id)

	name, err := v.Get("name").Str()
	require.NoError(t, err)
	require.Equal(t, "", name)
}

func TestProcessNestedCountsItems(t *testing.T) {
	enc, err := Encode(NewMap(
		MapEntry{Key: "data", Value: NewMap(
			MapEntry{Key: "items", Value: NewArray(Int(1), Int(2), Int(3))},
		)},
	))
	require.NoError(t, err)

	out, err := ProcessNested(enc)
	require.NoError(t, err)

	v, err := Decode(out)
	require.NoError(t, err)

	typ, err := v.Get("type").Str()
	require.NoError(t, err)
	require.Equal(t, "nested", typ)

	count, err := v.Get("itemCount").Int()
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestProcessNestedToleratesAbsentPath(t *testing.T) {
	enc, err := Encode(NewMap(MapEntry{Key: "unrelated", Value: Int(1)}))
	require.NoError(t, err)

	out, err := ProcessNested(enc)
	require.NoError(t, err)

	v, err := Decode(out)
	require.NoError(t, err)
	count, err := v.Get("itemCount").Int()
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestProcessNumberArrayAggregates(t *testing.T) {
	enc, err := Encode(NewArray(Int(1), Float(2.5), Int(4), Int(-3)))
	require.NoError(t, err)

	out, err := ProcessNumberArray(enc)
	require.NoError(t, err)

	v, err := Decode(out)
	require.NoError(t, err)

	count, err := v.Get("count").Int()
	require.NoError(t, err)
	require.Equal(t, int64(4), count)

	sum, err := v.Get("sum").Float()
	require.NoError(t, err)
	require.Equal(t, 4.5, sum)

	avg, err := v.Get("avg").Float()
	require.NoError(t, err)
	require.Equal(t, 1.125, avg)

	min, err := v.Get("min").Float()
	require.NoError(t, err)
	require.Equal(t, -3.0, min)

	max, err := v.Get("max").Float()
	require.NoError(t, err)
	require.Equal(t, 4.0, max)
}

func TestProcessNumberArrayEmptyInput(t *testing.T) {
	enc, err := Encode(NewArray())
	require.NoError(t, err)

	out, err := ProcessNumberArray(enc)
	require.NoError(t, err)

	v, err := Decode(out)
	require.NoError(t, err)
	count, err := v.Get("count").Int()
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	sum, err := v.Get("sum").Float()
	require.NoError(t, err)
	require.Equal(t, 0.0, sum)
}

func TestProcessNumberArrayRejectsNonNumbers(t *testing.T) {
	enc, err := Encode(NewArray(Int(1), Str("two")))
	require.NoError(t, err)

	_, err = ProcessNumberArray(enc)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestProcessObjectArrayMarksEachItem(t *testing.T) {
	enc, err := Encode(NewArray(
		NewMap(MapEntry{Key: "id", Value: Int(10)}),
		NewMap(MapEntry{Key: "id", Value: Int(20)}),
		NewMap(MapEntry{Key: "other", Value: Str("no id")}),
	))
	require.NoError(t, err)

	out, err := ProcessObjectArray(enc)
	require.NoError(t, err)

	v, err := Decode(out)
	require.NoError(t, err)
	require.Equal(t, 3, v.Len())

	first, err := v.Index(0).Get("originalId").Int()
	require.NoError(t, err)
	require.Equal(t, int64(10), first)

	third, err := v.Index(2).Get("originalId").Int()
	require.NoError(t, err)
	require.Equal(t, int64(0), third)

	for i := 0; i < 3; i++ {
		processed, err := v.Index(i).Get("processed").Bool()
		require.NoError(t, err)
		require.True(t, processed)
	}
}

// expectedNodes is the closed form for a tree with breadth children per node
// down to the given depth.
func expectedNodes(depth, breadth int) int {
	if breadth == 1 {
		return depth + 1
	}
	total := 1
	for d := 1; d <= depth; d++ {
		total = total*breadth + 1
	}
	return total
}

func TestTreeNodeCountMatchesClosedForm(t *testing.T) {
	for depth := 0; depth <= 4; depth++ {
		for breadth := 1; breadth <= 3; breadth++ {
			enc, err := TreeBytes(depth, breadth)
			require.NoError(t, err)

			root, err := Decode(enc)
			require.NoError(t, err)
			require.Equal(t, expectedNodes(depth, breadth), CountNodes(root),
				"depth=%d breadth=%d", depth, breadth)
		}
	}
}

func TestTreeLeavesCarryNoChildren(t *testing.T) {
	enc, err := TreeBytes(1, 2)
	require.NoError(t, err)

	root, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, 3, root.Len())

	children, err := root.Get("children").Array()
	require.NoError(t, err)
	require.Len(t, children, 2)
	for _, child := range children {
		require.Equal(t, 2, child.Len())
		require.False(t, child.Has("children"))
		d, err := child.Get("depth").Int()
		require.NoError(t, err)
		require.Equal(t, int64(0), d)
	}
}

func TestCountNodesOnScalarIsOne(t *testing.T) {
	require.Equal(t, 1, CountNodes(Int(5)))
	require.Equal(t, 1, CountNodes(NewMap(MapEntry{Key: "x", Value: Int(1)})))
}

func BenchmarkProcessFlat(b *testing.B) {
	enc, err := Encode(NewMap(
		MapEntry{Key: "id", Value: Int(42)},
		MapEntry{Key: "name", Value: Str("benchmark")},
		MapEntry{Key: "value", Value: Float(3.14159265359)},
		MapEntry{Key: "flag", Value: Bool(true)},
	))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ProcessFlat(enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTreeRoundTrip(b *testing.B) {
	enc, err := TreeBytes(6, 3)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		root, err := Decode(enc)
		if err != nil {
			b.Fatal(err)
		}
		if CountNodes(root) == 0 {
			b.Fatal("empty tree")
		}
	}
}

func BenchmarkPackValue(b *testing.B) {
	v := NewMap(
		MapEntry{Key: "id", Value: Int(42)},
		MapEntry{Key: "items", Value: NewArray(Int(1), Int(2), Int(3), Str("four"))},
	)
	var p Packer
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Reset()
		if err := p.PackValue(v); err != nil {
			b.Fatal(err)
		}
	}
}
