package bodyfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// powershellEvent is a real world name produced by an event log converter.
// It contains several separators inside a JSON payload.
const powershellEvent = `{"activity_id":null,"channel_name":"Microsoft-Windows-PowerShell/Operational","custom_data":{"EventData":{"ContextInfo":"        Host Application = powershell get-VMNetworkAdapter -ManagementOS | fl | out-file -encoding ASCII VMNetworkAdapterInstances.txt\r\n","UserData":""}},"event_id":4100,"provider_name":"Microsoft-Windows-PowerShell"}`

func TestParse_Valid(t *testing.T) {
	r, err := Parse("0|ls -l |wc|1|2|3|4|5|6|7|8|9")
	require.NoError(t, err)

	assert.Equal(t, "0", r.MD5())
	assert.Equal(t, "ls -l |wc", r.Name())
	assert.Equal(t, "1", r.Inode())
	assert.Equal(t, "2", r.Mode())
	assert.Equal(t, uint64(3), r.UID())
	assert.Equal(t, uint64(4), r.GID())
	assert.Equal(t, uint64(5), r.Size())
	assert.Equal(t, int64(6), r.ATime())
	assert.Equal(t, int64(7), r.MTime())
	assert.Equal(t, int64(8), r.CTime())
	assert.Equal(t, int64(9), r.CRTime())
}

func TestParse_MinimalLine(t *testing.T) {
	r, err := Parse("0||0||0|0|0|-1|-1|-1|-1")
	require.NoError(t, err)
	assert.Equal(t, New(), r)
}

func TestParse_NameWithManySeparators(t *testing.T) {
	line := "0|" + powershellEvent + "|0||0|0|0|-1|1645178371|-1|-1"

	r, err := Parse(line)
	require.NoError(t, err)
	assert.Equal(t, powershellEvent, r.Name())
	assert.Equal(t, int64(1645178371), r.MTime())
	assert.Equal(t, line, r.String())
}

func TestParse_NameEdgeCases(t *testing.T) {
	testCases := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "single separator", in: "|"},
		{name: "only separators", in: "|||"},
		{name: "leading separator", in: "|etc"},
		{name: "trailing separator", in: "etc|"},
		{name: "double separator", in: "a||b"},
		{name: "spaces kept", in: "  padded  "},
		{name: "unicode", in: "/home/user/🔑|schlüssel"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			line := New().WithName(tc.in).WithInode("5-128-1").String()

			r, err := Parse(line)
			require.NoError(t, err)
			assert.Equal(t, tc.in, r.Name())
			assert.Equal(t, "5-128-1", r.Inode())
		})
	}
}

func TestParse_KeepsTextVerbatim(t *testing.T) {
	r, err := Parse(" ABC | Name |  7-1-2 |R/RWX|0|0|0|-1|-1|-1|-1")
	require.NoError(t, err)

	assert.Equal(t, " ABC ", r.MD5())
	assert.Equal(t, " Name ", r.Name())
	assert.Equal(t, "  7-1-2 ", r.Inode())
	assert.Equal(t, "R/RWX", r.Mode())
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		wantErr ParseError
	}{
		{name: "empty line", line: "", wantErr: ErrWrongNumberOfColumns},
		{name: "nine separators", line: "|||||||||", wantErr: ErrWrongNumberOfColumns},
		{name: "ten fields", line: "0||0||0|0|0|-1|-1|-1", wantErr: ErrWrongNumberOfColumns},

		{name: "uid not a number", line: "0||0||X|0|0|-1|-1|-1|-1", wantErr: ErrIllegalUID},
		{name: "uid negative", line: "0||0||-1|0|0|-1|-1|-1|-1", wantErr: ErrIllegalUID},
		{name: "uid empty", line: "0||0|||0|0|-1|-1|-1|-1", wantErr: ErrIllegalUID},
		{name: "uid overflow", line: "0||0||18446744073709551616|0|0|-1|-1|-1|-1", wantErr: ErrIllegalUID},
		{name: "uid with spaces", line: "0||0|| 1|0|0|-1|-1|-1|-1", wantErr: ErrIllegalUID},

		{name: "gid not a number", line: "0||0||0|X|0|-1|-1|-1|-1", wantErr: ErrIllegalGID},
		{name: "gid negative", line: "0||0||0|-2|0|-1|-1|-1|-1", wantErr: ErrIllegalGID},

		{name: "size not a number", line: "0||0||0|0|X|-1|-1|-1|-1", wantErr: ErrIllegalSize},
		{name: "size negative", line: "0||0||0|0|-4|-1|-1|-1|-1", wantErr: ErrIllegalSize},

		{name: "atime not a number", line: "0||0||0|0|0|X|-1|-1|-1", wantErr: ErrIllegalATime},
		{name: "atime below sentinel", line: "0||0||0|0|0|-5|-1|-1|-1", wantErr: ErrIllegalATime},
		{name: "atime float", line: "0||0||0|0|0|1.5|-1|-1|-1", wantErr: ErrIllegalATime},

		{name: "mtime not a number", line: "0||0||0|0|0|-1|X|-1|-1", wantErr: ErrIllegalMTime},
		{name: "mtime below sentinel", line: "0||0||0|0|0|-1|-5|-1|-1", wantErr: ErrIllegalMTime},

		{name: "ctime not a number", line: "0||0||0|0|0|-1|-1|X|-1", wantErr: ErrIllegalCTime},
		{name: "ctime below sentinel", line: "0||0||0|0|0|-1|-1|-5|-1", wantErr: ErrIllegalCTime},

		{name: "crtime not a number", line: "0||0||0|0|0|-1|-1|-1|X", wantErr: ErrIllegalCRTime},
		{name: "crtime below sentinel", line: "0||0||0|0|0|-1|-1|-1|-5", wantErr: ErrIllegalCRTime},
		{name: "crtime with line terminator", line: "0||0||0|0|0|-1|-1|-1|-1\n", wantErr: ErrIllegalCRTime},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Parse(tc.line)
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err)
			assert.True(t, errors.Is(err, tc.wantErr))
			assert.Equal(t, Record{}, r, "no partial record on failure")
		})
	}
}

func TestParse_ValidationOrder(t *testing.T) {
	testCases := []struct {
		line    string
		wantErr ParseError
	}{
		{line: "0||0||X|X|X|X|X|X|X", wantErr: ErrIllegalUID},
		{line: "0||0||0|X|X|X|X|X|X", wantErr: ErrIllegalGID},
		{line: "0||0||0|0|X|X|X|X|X", wantErr: ErrIllegalSize},
		{line: "0||0||0|0|0|-9|-9|-9|-9", wantErr: ErrIllegalATime},
		{line: "0||0||0|0|0|-1|-9|-9|-9", wantErr: ErrIllegalMTime},
		{line: "0||0||0|0|0|-1|-1|-9|-9", wantErr: ErrIllegalCTime},
		{line: "0||0||0|0|0|-1|-1|-1|-9", wantErr: ErrIllegalCRTime},
	}

	for _, tc := range testCases {
		t.Run(tc.wantErr.Error(), func(t *testing.T) {
			_, err := Parse(tc.line)
			assert.Equal(t, tc.wantErr, err)
		})
	}
}

func TestParse_SingleFieldValues(t *testing.T) {
	testCases := []struct {
		name  string
		line  string
		check func(t *testing.T, r Record)
	}{
		{
			name:  "uid",
			line:  "0||0||1|0|0|-1|-1|-1|-1",
			check: func(t *testing.T, r Record) { assert.Equal(t, uint64(1), r.UID()) },
		},
		{
			name:  "gid",
			line:  "0||0||1|2|0|-1|-1|-1|-1",
			check: func(t *testing.T, r Record) { assert.Equal(t, uint64(2), r.GID()) },
		},
		{
			name:  "size",
			line:  "0||0||1|0|4|-1|-1|-1|-1",
			check: func(t *testing.T, r Record) { assert.Equal(t, uint64(4), r.Size()) },
		},
		{
			name:  "atime",
			line:  "0||0||1|0|0|5|-1|-1|-1",
			check: func(t *testing.T, r Record) { assert.Equal(t, int64(5), r.ATime()) },
		},
		{
			name:  "mtime",
			line:  "0||0||1|0|0|-1|5|-1|-1",
			check: func(t *testing.T, r Record) { assert.Equal(t, int64(5), r.MTime()) },
		},
		{
			name:  "ctime",
			line:  "0||0||1|0|0|-1|-1|5|-1",
			check: func(t *testing.T, r Record) { assert.Equal(t, int64(5), r.CTime()) },
		},
		{
			name:  "crtime",
			line:  "0||0||1|0|0|-1|-1|-1|5",
			check: func(t *testing.T, r Record) { assert.Equal(t, int64(5), r.CRTime()) },
		},
		{
			name: "explicit plus sign",
			line: "0||0||+1|+2|+3|+4|+5|+6|+7",
			check: func(t *testing.T, r Record) {
				assert.Equal(t, uint64(1), r.UID())
				assert.Equal(t, uint64(3), r.Size())
				assert.Equal(t, int64(7), r.CRTime())
			},
		},
		{
			name: "zero timestamps are not unknown",
			line: "0||0||0|0|0|0|0|0|0",
			check: func(t *testing.T, r Record) {
				assert.Equal(t, int64(0), r.ATime())
				assert.Equal(t, int64(0), r.CRTime())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Parse(tc.line)
			require.NoError(t, err)
			tc.check(t, r)
		})
	}
}

// The name heuristic cannot tell a name with separators from a separator in
// another field. Such lines are accepted and the segments shift.
func TestParse_SeparatorOutsideNameIsMisattributed(t *testing.T) {
	r, err := Parse("0|name|1|2|r/r|0|0|0|-1|-1|-1|-1")
	require.NoError(t, err)

	assert.Equal(t, "name|1", r.Name())
	assert.Equal(t, "2", r.Inode())
	assert.Equal(t, "r/r", r.Mode())
}

func TestParse_RoundTrip(t *testing.T) {
	records := []Record{
		New(),
		New().WithMD5("4bad420da66571dac7f1ace995cc55c6").WithName("sample.txt").
			WithInode("87915-128-1").WithMode("r/rrwxrwxrwx").WithUID(1003).WithGID(500).
			WithSize(126378).WithATime(12341).WithMTime(12342).WithCTime(12343).WithCRTime(12344),
		New().WithName("C:/Windows/System32/config/SAM ($FILE_NAME)").WithSize(262144),
		New().WithName(strings.Repeat("deep/", 200) + "file"),
		New().WithUID(^uint64(0)).WithGID(^uint64(0)).WithSize(^uint64(0)),
		New().WithATime(0).WithMTime(1).WithCTime(2).WithCRTime(9223372036854775807),
		New().WithName("ls -l |wc").WithInode("1").WithMode("2").WithUID(3).WithGID(4).
			WithSize(5).WithATime(6).WithMTime(7).WithCTime(8).WithCRTime(9),
		New().WithName("|||"),
	}

	for _, want := range records {
		t.Run(want.String(), func(t *testing.T) {
			got, err := Parse(want.String())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCodec_EncodeDecode(t *testing.T) {
	codec := NewCodec()
	require.NotNil(t, codec)

	r := New().WithName("/var/log/syslog").WithSize(1 << 20).WithMTime(1700000000)
	line := codec.Encode(r)
	assert.Equal(t, r.String(), line)

	decoded, err := codec.Decode(line)
	require.NoError(t, err)
	assert.Equal(t, r, decoded)

	_, err = codec.Decode("garbage")
	assert.ErrorIs(t, err, ErrWrongNumberOfColumns)
}
