package catalog

import "errors"

var (
	// ErrPackageNotFound возвращается, когда пакета нет в каталоге
	ErrPackageNotFound = errors.New("package not found")
)
