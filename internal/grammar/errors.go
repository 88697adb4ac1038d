package grammar

import (
	"fmt"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
)

// Errorf builds a coded language error. Position is attached later by
// the interpreter, which knows the offending token.
func Errorf(code rhlerr.Code, format string, args ...interface{}) *rhlerr.Error {
	return rhlerr.New(fmt.Sprintf(format, args...)).WithCode(code)
}

func typeError(format string, args ...interface{}) *rhlerr.Error {
	return Errorf(rhlerr.CodeType, format, args...)
}

func argumentError(fn, format string, args ...interface{}) *rhlerr.Error {
	return Errorf(rhlerr.CodeArgument, fn+": "+format, args...).WithDetail("function", fn)
}
