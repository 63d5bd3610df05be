// Copyright © 2024 The ELPS authors

package prose

import "fmt"

// List returns a proper list containing vals.
func List(vals ...*Val) *Val {
	return ListTail(vals, Empty())
}

// ListTail returns a chain of pairs containing vals and ending in tail.
func ListTail(vals []*Val, tail *Val) *Val {
	lis := tail
	for i := len(vals) - 1; i >= 0; i-- {
		lis = Cons(vals[i], lis)
	}
	return lis
}

// IsList returns true if v is the EmptyList or a chain of pairs ending in the
// EmptyList.
func (v *Val) IsList() bool {
	for v.Type == VPair {
		v = v.Cdr
	}
	return v.Type == VEmpty
}

// Len returns the number of elements in the proper list lis.
func Len(lis *Val) (int, error) {
	n := 0
	for ; lis.Type == VPair; lis = lis.Cdr {
		n++
	}
	if lis.Type != VEmpty {
		return 0, fmt.Errorf("%w: list ends in %v after %d elements", ErrMalformedList, lis.Type, n)
	}
	return n, nil
}

// Elements returns the elements of the proper list lis.
func Elements(lis *Val) ([]*Val, error) {
	var vals []*Val
	for ; lis.Type == VPair; lis = lis.Cdr {
		vals = append(vals, lis.Car)
	}
	if lis.Type != VEmpty {
		return nil, fmt.Errorf("%w: list ends in %v after %d elements", ErrMalformedList, lis.Type, len(vals))
	}
	return vals, nil
}

// Take returns the first n elements of lis.  Elements beyond the first n are
// ignored.  An error is returned if lis has fewer than n elements.
func Take(lis *Val, n int) ([]*Val, error) {
	vals := make([]*Val, 0, n)
	for ; len(vals) < n && lis.Type == VPair; lis = lis.Cdr {
		vals = append(vals, lis.Car)
	}
	if len(vals) < n {
		if lis.Type != VEmpty {
			return nil, fmt.Errorf("%w: list ends in %v after %d elements", ErrMalformedList, lis.Type, len(vals))
		}
		return nil, fmt.Errorf("%w: expected %d elements, got %d", ErrArity, n, len(vals))
	}
	return vals, nil
}

// Index returns the element of lis at position i.  A negative index counts
// back from the end of the list.
func Index(lis *Val, i int) (*Val, error) {
	if i < 0 {
		n, err := Len(lis)
		if err != nil {
			return nil, err
		}
		i += n
		if i < 0 {
			return nil, fmt.Errorf("%w: index %d out of range", ErrMalformedList, i-n)
		}
	}
	j := i
	for ; lis.Type == VPair; lis = lis.Cdr {
		if j == 0 {
			return lis.Car, nil
		}
		j--
	}
	if lis.Type != VEmpty {
		return nil, fmt.Errorf("%w: list ends in %v before index %d", ErrMalformedList, lis.Type, i)
	}
	return nil, fmt.Errorf("%w: index %d out of range", ErrMalformedList, i)
}

// Slice returns a new list containing the elements of lis in the half-open
// range [start, stop).  Negative bounds count back from the end of the list
// and out of range bounds are clamped, the way string slicing behaves.
func Slice(lis *Val, start, stop int) (*Val, error) {
	vals, err := Elements(lis)
	if err != nil {
		return nil, err
	}
	start, stop = clampRange(len(vals), start, stop)
	return List(vals[start:stop]...), nil
}

func clampRange(n, start, stop int) (int, int) {
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}
	start, stop = clamp(start), clamp(stop)
	if stop < start {
		stop = start
	}
	return start, stop
}

// Each calls fn for every element of lis in order, stopping at the first
// error.
func Each(lis *Val, fn func(i int, v *Val) error) error {
	i := 0
	for ; lis.Type == VPair; lis = lis.Cdr {
		if err := fn(i, lis.Car); err != nil {
			return err
		}
		i++
	}
	if lis.Type != VEmpty {
		return fmt.Errorf("%w: list ends in %v after %d elements", ErrMalformedList, lis.Type, i)
	}
	return nil
}
