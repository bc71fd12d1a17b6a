package jsonvalue

// MergeObjects combines src into dst, per-key, recursively merging nested
// objects, element-wise merging same-length arrays, and overwriting
// scalars - the same shape as an ordinary recursive JSON patch merge (see
// the sibling recursive-merge idiom this package's tests are modeled on).
// dst is mutated and returned; a nil dst allocates a fresh object.
func MergeObjects(dst *Object, src *Object) *Object {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = NewObject()
	}
	for _, key := range src.Keys() {
		srcVal, _ := src.Get(key)
		if dstVal, ok := dst.Get(key); ok {
			dst.Set(key, mergeValue(dstVal, srcVal))
		} else {
			dst.Set(key, srcVal)
		}
	}
	return dst
}

func mergeValue(dst, src Value) Value {
	if src == nil {
		return dst
	}
	if dst == nil {
		return src
	}

	if dstObj, ok := dst.(*Object); ok {
		if srcObj, ok := src.(*Object); ok {
			return MergeObjects(dstObj.Clone(), srcObj)
		}
		return src
	}

	if dstArr, ok := dst.([]Value); ok {
		if srcArr, ok := src.([]Value); ok && len(dstArr) == len(srcArr) {
			merged := make([]Value, len(dstArr))
			for i := range dstArr {
				merged[i] = mergeValue(dstArr[i], srcArr[i])
			}
			return merged
		}
		return src
	}

	return src
}
