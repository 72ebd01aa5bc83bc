package bodyfile

import (
	"strconv"
	"strings"
)

// Separator is the field delimiter of a bodyfile line
const Separator = '|'

// fieldCount is the number of fields of a line whose name has no separator
const fieldCount = 11

// Parse parses a single bodyfile line. The line must not carry a line
// terminator.
//
// Surplus separators are attributed to the name field, which is rebuilt by
// joining the segments between md5 and inode. The remaining fields are
// validated in order and the first failing field determines the error.
func Parse(line string) (Record, error) {
	parts := strings.Split(line, string(Separator))
	if len(parts) < fieldCount {
		return Record{}, ErrWrongNumberOfColumns
	}

	// number of segments making up the name
	nameChunks := len(parts) - (fieldCount - 1)
	tail := parts[1+nameChunks:]

	r := Record{
		md5:   parts[0],
		name:  strings.Join(parts[1:1+nameChunks], string(Separator)),
		inode: tail[0],
		mode:  tail[1],
	}

	var err error
	if r.uid, err = parseUnsigned(tail[2]); err != nil {
		return Record{}, ErrIllegalUID
	}
	if r.gid, err = parseUnsigned(tail[3]); err != nil {
		return Record{}, ErrIllegalGID
	}
	if r.size, err = parseUnsigned(tail[4]); err != nil {
		return Record{}, ErrIllegalSize
	}

	var ok bool
	if r.atime, ok = parseTimestamp(tail[5]); !ok {
		return Record{}, ErrIllegalATime
	}
	if r.mtime, ok = parseTimestamp(tail[6]); !ok {
		return Record{}, ErrIllegalMTime
	}
	if r.ctime, ok = parseTimestamp(tail[7]); !ok {
		return Record{}, ErrIllegalCTime
	}
	if r.crtime, ok = parseTimestamp(tail[8]); !ok {
		return Record{}, ErrIllegalCRTime
	}

	return r, nil
}

// Format returns the canonical line for r. It is equivalent to r.String().
func Format(r Record) string {
	return r.String()
}

// parseUnsigned accepts an optional leading '+' like the signed parser does.
func parseUnsigned(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
}

func parseTimestamp(s string) (int64, bool) {
	t, err := strconv.ParseInt(s, 10, 64)
	if err != nil || t < UnknownTime {
		return 0, false
	}
	return t, true
}

// Codec handles parsing and formatting of bodyfile lines
type Codec struct{}

// NewCodec creates a new line codec instance
func NewCodec() *Codec {
	return &Codec{}
}

// Encode formats a record as a bodyfile line without a line terminator
func (c *Codec) Encode(r Record) string {
	return r.String()
}

// Decode parses a bodyfile line into a record
func (c *Codec) Decode(line string) (Record, error) {
	return Parse(line)
}
