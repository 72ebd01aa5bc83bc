package bodyfile

// ParseError identifies why a line was rejected by Parse.
// The zero value is not a valid error.
type ParseError int

const (
	// ErrWrongNumberOfColumns indicates that the line has fewer than eleven fields
	ErrWrongNumberOfColumns ParseError = iota + 1
	// ErrIllegalUID indicates that the uid is not an unsigned decimal integer
	ErrIllegalUID
	// ErrIllegalGID indicates that the gid is not an unsigned decimal integer
	ErrIllegalGID
	// ErrIllegalSize indicates that the size is not an unsigned decimal integer
	ErrIllegalSize
	// ErrIllegalATime indicates that the atime is not an integer >= -1
	ErrIllegalATime
	// ErrIllegalMTime indicates that the mtime is not an integer >= -1
	ErrIllegalMTime
	// ErrIllegalCTime indicates that the ctime is not an integer >= -1
	ErrIllegalCTime
	// ErrIllegalCRTime indicates that the crtime is not an integer >= -1
	ErrIllegalCRTime
)

var parseErrorNames = [...]string{
	ErrWrongNumberOfColumns: "WrongNumberOfColumns",
	ErrIllegalUID:           "IllegalUid",
	ErrIllegalGID:           "IllegalGid",
	ErrIllegalSize:          "IllegalSize",
	ErrIllegalATime:         "IllegalATime",
	ErrIllegalMTime:         "IllegalMTime",
	ErrIllegalCTime:         "IllegalCTime",
	ErrIllegalCRTime:        "IllegalCRTime",
}

// ParseErrors lists every ParseError in validation order.
var ParseErrors = []ParseError{
	ErrWrongNumberOfColumns,
	ErrIllegalUID,
	ErrIllegalGID,
	ErrIllegalSize,
	ErrIllegalATime,
	ErrIllegalMTime,
	ErrIllegalCTime,
	ErrIllegalCRTime,
}

// Error returns the bare variant name, e.g. "IllegalUid"
func (e ParseError) Error() string {
	if e <= 0 || int(e) >= len(parseErrorNames) {
		return "ParseError(invalid)"
	}
	return parseErrorNames[e]
}

// String is the same as Error
func (e ParseError) String() string {
	return e.Error()
}
