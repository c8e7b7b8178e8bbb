package ecs

import "sort"

// Attributes is the named bag of numeric and string values gameplay code hangs
// off an entity (health, faction, ...). The zero value is ready to use.
type Attributes struct {
	nums map[string]float64
	strs map[string]string
}

// Num returns a numeric attribute
func (a *Attributes) Num(name string) (float64, bool) {
	v, ok := a.nums[name]
	return v, ok
}

// NumOr returns a numeric attribute or def if it is not set
func (a *Attributes) NumOr(name string, def float64) float64 {
	if v, ok := a.nums[name]; ok {
		return v
	}
	return def
}

func (a *Attributes) SetNum(name string, v float64) {
	if a.nums == nil {
		a.nums = make(map[string]float64)
	}
	a.nums[name] = v
}

// AddNum adds delta to a numeric attribute (treating a missing one as zero)
// and returns the new value.
func (a *Attributes) AddNum(name string, delta float64) float64 {
	v := a.nums[name] + delta
	a.SetNum(name, v)
	return v
}

// Str returns a string attribute
func (a *Attributes) Str(name string) (string, bool) {
	v, ok := a.strs[name]
	return v, ok
}

func (a *Attributes) SetStr(name, v string) {
	if a.strs == nil {
		a.strs = make(map[string]string)
	}
	a.strs[name] = v
}

// Has reports whether a numeric or string attribute with the given name exists
func (a *Attributes) Has(name string) bool {
	if _, ok := a.nums[name]; ok {
		return true
	}
	_, ok := a.strs[name]
	return ok
}

func (a *Attributes) Delete(name string) {
	delete(a.nums, name)
	delete(a.strs, name)
}

// Reset empties the bag while keeping the backing maps for reuse.
func (a *Attributes) Reset() {
	clear(a.nums)
	clear(a.strs)
}

func (a *Attributes) Len() int {
	return len(a.nums) + len(a.strs)
}

// NumNames returns the sorted names of all numeric attributes
func (a *Attributes) NumNames() []string {
	names := make([]string, 0, len(a.nums))
	for name := range a.nums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StrNames returns the sorted names of all string attributes
func (a *Attributes) StrNames() []string {
	names := make([]string, 0, len(a.strs))
	for name := range a.strs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
