// Package bodyfile provides parsing and formatting of bodyfile v3 lines.
//
// The bodyfile format is the pipe-delimited text format produced by The
// Sleuth Kit 3.x (fls, ils) and consumed by timeline tools such as mactime.
// Every line describes the metadata of a single filesystem entry.
//
// # Line Format
//
// A line consists of eleven fields separated by '|':
//
//	MD5|name|inode|mode_as_string|UID|GID|size|atime|mtime|ctime|crtime
//
// Fields:
//   - MD5: checksum of the content, or the literal "0" when unknown
//   - name: path of the entry; may contain unescaped '|' characters
//   - inode: metadata address, usually "<addr>-<type>-<id>"; kept as text
//   - mode_as_string: permission string such as "r/rrwxr-xr-x"
//   - UID, GID, size: unsigned decimal integers
//   - atime, mtime, ctime, crtime: Unix epoch seconds; -1 means unknown
//
// There is no header line, no trailing delimiter and no escaping.
//
// # Names Containing '|'
//
// Names taken from command lines or event log payloads regularly contain the
// delimiter. Because every other field occupies exactly one segment, the
// parser treats all surplus segments as part of the name:
//
//	0|ls -l |wc|1|2|3|4|5|6|7|8|9
//
// is read with name "ls -l |wc". A line where some other field contains a
// '|' is silently misattributed; the format offers no way to detect it.
//
// # Usage
//
// Building and formatting a record:
//
//	r := bodyfile.New().
//	    WithName("/etc/passwd").
//	    WithInode("87915-128-1").
//	    WithSize(2048).
//	    WithMTime(1645178371)
//	line := r.String()
//
// Parsing a line:
//
//	r, err := bodyfile.Parse(line)
//	if errors.Is(err, bodyfile.ErrIllegalUID) {
//	    // react to the specific field
//	}
//
// # Error Handling
//
// Parse returns one of the ParseError values. Each value names the first
// field that failed validation, checked in the order uid, gid, size, atime,
// mtime, ctime, crtime. The error string is the bare variant name, for
// example "IllegalATime". No partially filled record is returned.
//
// The builder methods never validate; Validate can be used to apply the
// parser's range rules to a record that was built programmatically.
//
// # Thread Safety
//
// Record values are immutable from the outside and Parse, Format and Codec
// hold no state, so all of them are safe for concurrent use.
package bodyfile
