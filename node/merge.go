package node

// Merge combines two trees, with src winning at every colliding path.
// Mapping pairs merge recursively (union of keys); every other pairing is
// replaced wholesale by src; sequences and scalars are never concatenated.
// Neither input is modified; the result shares no nodes with either.
func Merge(dst, src *Node) *Node {
	if src == nil {
		if dst == nil {
			return nil
		}

		return dst.Clone()
	}

	if dst == nil {
		return src.Clone()
	}

	if dst.kind != KindMapping || src.kind != KindMapping {
		return src.Clone()
	}

	out := dst.Clone()

	for _, key := range src.keys {
		srcChild := src.fields[key]

		if dstChild, ok := out.fields[key]; ok {
			out.fields[key] = Merge(dstChild, srcChild)
		} else {
			out.SetField(key, srcChild.Clone())
		}
	}

	return out
}
