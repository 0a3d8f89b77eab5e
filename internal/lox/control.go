package lox

import "fmt"

// loxReturn is a control-flow signal, not an error. A `return` statement
// raises it to unwind out of the statements executing in the function body
// back to the call site; execBlock and the statement-visiting methods let it
// propagate unchanged instead of reporting it.
type loxReturn struct {
	val interface{}
}

func newLoxReturn(val interface{}) *loxReturn {
	return &loxReturn{val}
}

func (r *loxReturn) Error() string {
	return fmt.Sprintf("return %v", stringify(r.val))
}
