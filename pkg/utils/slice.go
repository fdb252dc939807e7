package utils

// FilterSlice maps every element through fn, keeping those it accepts.
func FilterSlice[S any, D any](src []S, fn func(S) (D, bool)) []D {
	res := make([]D, 0, len(src))
	for _, s := range src {
		if d, ok := fn(s); ok {
			res = append(res, d)
		}
	}
	return res
}

// IfErrReturn runs fns in order and stops at the first error.
func IfErrReturn(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
