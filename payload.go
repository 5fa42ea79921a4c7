package msgpacklite

// Payload transforms for benchmark-style workloads: each function decodes an
// encoded input, derives a summary, and returns it re-encoded. They exercise
// the codec end to end without any transport of their own.

// ProcessFlat decodes a flat map and re-encodes its id, name, value and flag
// fields plus a processed marker. Missing or wrongly-typed fields fall back
// to zero values rather than failing.
func ProcessFlat(data []byte) ([]byte, error) {
	obj, err := Decode(data)
	if err != nil {
		return nil, err
	}

	var p Packer
	p.PackMapHeader(5)

	p.PackString("id")
	id, _ := obj.Get("id").Int()
	p.PackInt(id)

	p.PackString("name")
	name, _ := obj.Get("name").Str()
	if err := p.PackString(name); err != nil {
		return nil, err
	}

	p.PackString("value")
	value, _ := obj.Get("value").Float()
	p.PackFloat(value)

	p.PackString("flag")
	flag, _ := obj.Get("flag").Bool()
	p.PackBool(flag)

	p.PackString("processed")
	p.PackBool(true)

	return p.Bytes(), nil
}

// ProcessNested decodes an object and reports how many elements sit under
// its data.items path. Absent paths count as zero.
func ProcessNested(data []byte) ([]byte, error) {
	obj, err := Decode(data)
	if err != nil {
		return nil, err
	}

	itemCount := obj.Get("data").Get("items").Len()

	var p Packer
	p.PackMapHeader(2)
	p.PackString("type")
	if err := p.PackString("nested"); err != nil {
		return nil, err
	}
	p.PackString("itemCount")
	p.PackInt(int64(itemCount))

	return p.Bytes(), nil
}

// ProcessNumberArray decodes an array of numbers and returns a map with its
// count, sum, average, minimum and maximum. A non-numeric element is a
// TypeMismatch failure; an empty array yields all zeros.
func ProcessNumberArray(data []byte) ([]byte, error) {
	arr, err := Decode(data)
	if err != nil {
		return nil, err
	}

	n := arr.Len()
	var sum, min, max float64
	for i := 0; i < n; i++ {
		v, err := arr.Index(i).Float()
		if err != nil {
			return nil, err
		}
		if i == 0 {
			min, max = v, v
		}
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}

	var p Packer
	p.PackMapHeader(5)
	p.PackString("count")
	p.PackInt(int64(n))
	p.PackString("sum")
	p.PackFloat(sum)
	p.PackString("avg")
	p.PackFloat(avg)
	p.PackString("min")
	p.PackFloat(min)
	p.PackString("max")
	p.PackFloat(max)

	return p.Bytes(), nil
}

// ProcessObjectArray decodes an array of objects and returns an array of the
// same length where each element carries the object's id and a processed
// marker.
func ProcessObjectArray(data []byte) ([]byte, error) {
	arr, err := Decode(data)
	if err != nil {
		return nil, err
	}

	n := arr.Len()
	var p Packer
	if err := p.PackArrayHeader(n); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		id, _ := arr.Index(i).Get("id").Int()
		p.PackMapHeader(2)
		p.PackString("originalId")
		p.PackInt(id)
		p.PackString("processed")
		p.PackBool(true)
	}

	return p.Bytes(), nil
}

// BuildTree packs one map node per call, recursing breadth children deep
// until depth reaches zero. For breadth > 1 the resulting tree holds
// (breadth^(depth+1)-1)/(breadth-1) nodes; for breadth == 1 it holds
// depth+1.
func BuildTree(p *Packer, depth, breadth int) error {
	if depth > 0 {
		p.PackMapHeader(3)
		p.PackString("depth")
		p.PackInt(int64(depth))
		p.PackString("breadth")
		p.PackInt(int64(breadth))
		p.PackString("children")
		if err := p.PackArrayHeader(breadth); err != nil {
			return err
		}
		for i := 0; i < breadth; i++ {
			if err := BuildTree(p, depth-1, breadth); err != nil {
				return err
			}
		}
		return nil
	}
	p.PackMapHeader(2)
	p.PackString("depth")
	p.PackInt(int64(depth))
	p.PackString("breadth")
	p.PackInt(int64(breadth))
	return nil
}

// TreeBytes encodes a depth×breadth tree into a fresh buffer.
func TreeBytes(depth, breadth int) ([]byte, error) {
	var p Packer
	if err := BuildTree(&p, depth, breadth); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// CountNodes returns the number of nodes in a decoded tree, counting v
// itself plus everything reachable through children arrays.
func CountNodes(v Value) int {
	count := 1
	children, err := v.Get("children").Array()
	if err != nil {
		return count
	}
	for i := range children {
		count += CountNodes(children[i])
	}
	return count
}
