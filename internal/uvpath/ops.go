package uvpath

import (
	"fmt"

	"github.com/morphcli/morph/internal/uv"
)

// Get resolves path against root, returning every matching value. A path
// with no wildcard segment resolves to at most one value; a wildcard
// segment fans out to every element/entry at that point (spec §3.2,
// §4.3). Missing intermediate fields resolve to no matches rather than an
// error, matching `default`'s need to detect absence cheaply.
func Get(root *uv.Value, path Path) ([]*uv.Value, error) {
	cur := []*uv.Value{root}
	for _, seg := range path.Segments {
		cur = stepGet(cur, seg)
		if len(cur) == 0 {
			return cur, nil
		}
	}
	return cur, nil
}

func stepGet(in []*uv.Value, seg Segment) []*uv.Value {
	var out []*uv.Value
	for _, v := range in {
		switch seg.Kind {
		case SegField:
			if v.Kind() != uv.KindMap {
				continue
			}
			if child := v.MapGet(seg.Field); child != nil || v.MapHas(seg.Field) {
				out = append(out, child)
			}
		case SegIndex:
			if v.Kind() != uv.KindArray {
				continue
			}
			if elem := v.ArrayGet(seg.Index); elem != nil {
				out = append(out, elem)
			} else if _, ok := uv.ResolveIndex(seg.Index, v.ArrayLen()); ok {
				out = append(out, uv.Null())
			}
		case SegWildcard:
			switch v.Kind() {
			case uv.KindArray:
				out = append(out, v.ArrayElements()...)
			case uv.KindMap:
				for _, k := range v.MapKeys() {
					out = append(out, v.MapGet(k))
				}
			}
		}
	}
	return out
}

// Set writes val at every location path resolves to, creating missing
// intermediate Maps along the way (spec §4.3: "set creates intermediate
// Maps as needed"). Indexing into a non-existent array index, or field
// access through a non-Map/non-Array scalar, is an error.
func Set(root *uv.Value, path Path, val *uv.Value) error {
	if len(path.Segments) == 0 {
		return fmt.Errorf("cannot set the root value in place")
	}
	return setRec(root, path.Segments, val)
}

func setRec(cur *uv.Value, segs []Segment, val *uv.Value) error {
	seg := segs[0]
	last := len(segs) == 1

	switch seg.Kind {
	case SegField:
		if cur.Kind() != uv.KindMap {
			return fmt.Errorf("cannot set field %q on a %s", seg.Field, cur.Kind())
		}
		if last {
			cur.MapSet(seg.Field, val)
			return nil
		}
		child := cur.MapGet(seg.Field)
		if child == nil {
			child = uv.NewMap()
			cur.MapSet(seg.Field, child)
		}
		return setRec(child, segs[1:], val)

	case SegIndex:
		if cur.Kind() != uv.KindArray {
			return fmt.Errorf("cannot index a %s", cur.Kind())
		}
		if last {
			if !cur.ArraySet(seg.Index, val) {
				return fmt.Errorf("index %d out of range", seg.Index)
			}
			return nil
		}
		child := cur.ArrayGet(seg.Index)
		if child == nil {
			return fmt.Errorf("index %d out of range", seg.Index)
		}
		return setRec(child, segs[1:], val)

	case SegWildcard:
		switch cur.Kind() {
		case uv.KindArray:
			for _, e := range cur.ArrayElements() {
				if last {
					*e = *val.Clone()
					continue
				}
				if err := setRec(e, segs[1:], val); err != nil {
					return err
				}
			}
			return nil
		case uv.KindMap:
			for _, k := range cur.MapKeys() {
				e := cur.MapGet(k)
				if last {
					cur.MapSet(k, val.Clone())
					continue
				}
				if err := setRec(e, segs[1:], val); err != nil {
					return err
				}
			}
			return nil
		default:
			return fmt.Errorf("cannot fan out a wildcard over a %s", cur.Kind())
		}
	}
	return nil
}

// SetFunc is Set's dynamic counterpart: instead of a single fixed value,
// produce is invoked separately for each distinct wildcard fan-out site,
// with that site passed as its argument (spec §4.3: "if value is an
// expression over `.`, it is re-evaluated per site" — `.` rebinds to the
// matched element, the same way `each`'s body scope does). A path with no
// wildcard segment invokes produce exactly once, against root, matching
// Set's single-value behavior.
func SetFunc(root *uv.Value, path Path, produce func(site *uv.Value) (*uv.Value, error)) error {
	if len(path.Segments) == 0 {
		return fmt.Errorf("cannot set the root value in place")
	}
	return setFuncRec(root, root, path.Segments, produce)
}

func setFuncRec(site, cur *uv.Value, segs []Segment, produce func(*uv.Value) (*uv.Value, error)) error {
	seg := segs[0]
	last := len(segs) == 1

	switch seg.Kind {
	case SegField:
		if cur.Kind() != uv.KindMap {
			return fmt.Errorf("cannot set field %q on a %s", seg.Field, cur.Kind())
		}
		if last {
			val, err := produce(site)
			if err != nil {
				return err
			}
			cur.MapSet(seg.Field, val)
			return nil
		}
		child := cur.MapGet(seg.Field)
		if child == nil {
			child = uv.NewMap()
			cur.MapSet(seg.Field, child)
		}
		return setFuncRec(site, child, segs[1:], produce)

	case SegIndex:
		if cur.Kind() != uv.KindArray {
			return fmt.Errorf("cannot index a %s", cur.Kind())
		}
		if last {
			val, err := produce(site)
			if err != nil {
				return err
			}
			if !cur.ArraySet(seg.Index, val) {
				return fmt.Errorf("index %d out of range", seg.Index)
			}
			return nil
		}
		child := cur.ArrayGet(seg.Index)
		if child == nil {
			return fmt.Errorf("index %d out of range", seg.Index)
		}
		return setFuncRec(site, child, segs[1:], produce)

	case SegWildcard:
		switch cur.Kind() {
		case uv.KindArray:
			for _, e := range cur.ArrayElements() {
				if last {
					val, err := produce(e)
					if err != nil {
						return err
					}
					*e = *val.Clone()
					continue
				}
				if err := setFuncRec(e, e, segs[1:], produce); err != nil {
					return err
				}
			}
			return nil
		case uv.KindMap:
			for _, k := range cur.MapKeys() {
				e := cur.MapGet(k)
				if last {
					val, err := produce(e)
					if err != nil {
						return err
					}
					cur.MapSet(k, val)
					continue
				}
				if err := setFuncRec(e, e, segs[1:], produce); err != nil {
					return err
				}
			}
			return nil
		default:
			return fmt.Errorf("cannot fan out a wildcard over a %s", cur.Kind())
		}
	}
	return nil
}

// Delete removes every location path resolves to. Deleting an array
// element closes the gap (spec §4.3); deleting a missing field or
// out-of-range index is a no-op, not an error.
func Delete(root *uv.Value, path Path) error {
	if len(path.Segments) == 0 {
		return fmt.Errorf("cannot delete the root value")
	}
	return deleteRec(root, path.Segments)
}

func deleteRec(cur *uv.Value, segs []Segment) error {
	seg := segs[0]
	last := len(segs) == 1

	switch seg.Kind {
	case SegField:
		if cur.Kind() != uv.KindMap {
			return nil
		}
		if last {
			cur.MapDelete(seg.Field)
			return nil
		}
		child := cur.MapGet(seg.Field)
		if child == nil {
			return nil
		}
		return deleteRec(child, segs[1:])

	case SegIndex:
		if cur.Kind() != uv.KindArray {
			return nil
		}
		if last {
			cur.ArrayDelete(seg.Index)
			return nil
		}
		child := cur.ArrayGet(seg.Index)
		if child == nil {
			return nil
		}
		return deleteRec(child, segs[1:])

	case SegWildcard:
		switch cur.Kind() {
		case uv.KindArray:
			if last {
				for i := cur.ArrayLen() - 1; i >= 0; i-- {
					cur.ArrayDelete(i)
				}
				return nil
			}
			for _, e := range cur.ArrayElements() {
				if err := deleteRec(e, segs[1:]); err != nil {
					return err
				}
			}
			return nil
		case uv.KindMap:
			if last {
				for _, k := range cur.MapKeys() {
					cur.MapDelete(k)
				}
				return nil
			}
			for _, k := range cur.MapKeys() {
				if err := deleteRec(cur.MapGet(k), segs[1:]); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return nil
}
