package errors

// IsClass checks if given error or any error it wraps is of given 'class'.
func IsClass(err error, class Class) bool {
	found := false
	walk(err, func(ce ClassError) bool {
		found = ce.Class() == class
		return found
	})
	return found
}

// HasMajor checks if given error or any error it wraps is classified with the major 'm'.
func HasMajor(err error, m Major) bool {
	found := false
	walk(err, func(ce ClassError) bool {
		found = ce.Class().Major() == m
		return found
	})
	return found
}

// HasMinor checks if given error or any error it wraps is classified with given major and minor.
func HasMinor(err error, m Major, n Minor) bool {
	found := false
	walk(err, func(ce ClassError) bool {
		found = ce.Class().Major() == m && ce.Class().Minor() == n
		return found
	})
	return found
}

type unwrapper interface {
	Unwrap() error
}

// walk iterates over the error chain and multi errors until the 'fn' returns true.
func walk(err error, fn func(ClassError) bool) bool {
	for err != nil {
		if multi, ok := err.(MultiError); ok {
			for _, e := range multi {
				if walk(e, fn) {
					return true
				}
			}
			return false
		}
		if ce, ok := err.(ClassError); ok && fn(ce) {
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
