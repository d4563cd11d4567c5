package tree

// Lookup descends root one key at a time and returns the value at the end
// of keys. An empty key list returns root itself. It fails with
// *KeyNotFoundError naming the first missing key, which includes descending
// into a value that is not a tree.
func Lookup(root *Tree, keys []string) (any, error) {
	var cur any = root
	for i, key := range keys {
		t, ok := cur.(*Tree)
		if !ok || t == nil {
			return nil, &KeyNotFoundError{Key: key, Path: copyPath(keys[:i])}
		}
		v, ok := t.Get(key)
		if !ok {
			return nil, &KeyNotFoundError{Key: key, Path: copyPath(keys[:i])}
		}
		cur = v
	}
	return cur, nil
}

// LookupTree is Lookup restricted to nested trees: the value at keys must
// itself be a tree.
func LookupTree(root *Tree, keys []string) (*Tree, error) {
	v, err := Lookup(root, keys)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*Tree)
	if !ok {
		last := ""
		var path []string
		if len(keys) > 0 {
			last = keys[len(keys)-1]
			path = copyPath(keys[:len(keys)-1])
		}
		return nil, &KeyNotFoundError{Key: last, Path: path}
	}
	return t, nil
}

func copyPath(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}
