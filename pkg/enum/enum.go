package enum

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	mutex       sync.RWMutex
	enumManager = map[reflect.Type]map[string]any{}
)

// New registers value as a member of its enum type so it can be looked up
// later by its textual form.
func New[T comparable](value T) T {
	mutex.Lock()
	defer mutex.Unlock()

	t := reflect.TypeOf(value)
	if _, ok := enumManager[t]; !ok {
		enumManager[t] = make(map[string]any)
	}

	enumManager[t][fmt.Sprint(value)] = value
	return value
}

// ToEnum parses s into a registered value of T.
func ToEnum[T comparable](s string) (T, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT)]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	v, ok := e[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return v.(T), nil
}

// IsValid reports whether value was registered.
func IsValid[T comparable](value T) bool {
	_, err := ToEnum[T](fmt.Sprint(value))
	return err == nil
}

// Values returns the textual forms of all members of T in sorted order.
func Values[T comparable]() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	var defaultT T
	result := []string{}
	for s := range enumManager[reflect.TypeOf(defaultT)] {
		result = append(result, s)
	}

	sort.Strings(result)
	return result
}
