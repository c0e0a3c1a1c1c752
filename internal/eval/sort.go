package eval

import (
	"fmt"
	"sort"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/uv"
	"github.com/morphcli/morph/internal/uvpath"
)

// execSort requires the current scope to be an Array and stable-sorts it
// in place (spec §4.4 `sort`), comparing each pair of elements by s.Keys
// in order — the first key that disagrees between two elements decides
// their order; ties fall through to the next key.
func (e *Evaluator) execSort(s *ast.SortStmt, scope *uv.Value) error {
	if scope.Kind() != uv.KindArray {
		return fmt.Errorf("sort: current scope must be an array")
	}
	elems := scope.ArrayElements()

	keyPaths := make([]uvpath.Path, len(s.Keys))
	for i, k := range s.Keys {
		path, err := e.resolvePath(k.Path)
		if err != nil {
			return err
		}
		keyPaths[i] = path
	}

	keyOf := func(elem *uv.Value, path uvpath.Path) (*uv.Value, error) {
		got, err := uvpath.Get(elem, path)
		if err != nil {
			return nil, err
		}
		if len(got) == 0 {
			return uv.Null(), nil
		}
		return got[0], nil
	}

	var sortErr error
	sort.SliceStable(elems, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for k, path := range keyPaths {
			ki, err := keyOf(elems[i], path)
			if err != nil {
				sortErr = err
				return false
			}
			kj, err := keyOf(elems[j], path)
			if err != nil {
				sortErr = err
				return false
			}
			cmp, err := uv.Compare(ki, kj)
			if err != nil {
				sortErr = err
				return false
			}
			if cmp == 0 {
				continue
			}
			if s.Keys[k].Direction == ast.SortDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	if sortErr != nil {
		return sortErr
	}

	for i, elem := range elems {
		scope.ArraySet(i, elem)
	}
	return nil
}
