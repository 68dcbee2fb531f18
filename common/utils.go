package common

import "unsafe"

// Coalesce returns the first non-zero value from the provided values, or the
// zero value if all are zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SliceToBytes reinterprets a slice of any type as a byte slice, for passing
// vertex/index/uniform data straight to a GPU buffer write. The returned
// slice shares memory with data - do not retain it past data's lifetime.
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice,
// sized to the struct's memory layout. Used for push-constant and small
// uniform payloads recorded alongside a draw command.
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}
