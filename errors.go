package debitcard

// Error is a constant error.
// Domain and infrastructure errors are declared as typed constants so callers
// can match them with == or errors.Is without allocating sentinels at init.
type Error string

func (e Error) Error() string {
	return string(e)
}

// InvalidArgumentError indicates that the caller is in error and passed an incorrect value.
type InvalidArgumentError string

func (i InvalidArgumentError) Error() string {
	return "debitcard: invalid argument: " + string(i)
}
