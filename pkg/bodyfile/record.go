package bodyfile

import (
	"encoding/json"
	"strconv"
	"strings"
)

// UnknownTime marks a timestamp that is not available.
const UnknownTime int64 = -1

// Record represents a single bodyfile v3 line
type Record struct {
	md5    string
	name   string
	inode  string
	mode   string
	uid    uint64
	gid    uint64
	size   uint64
	atime  int64
	mtime  int64
	ctime  int64
	crtime int64
}

// New creates an empty record with all timestamps set to UnknownTime
func New() Record {
	return Record{
		md5:    "0",
		inode:  "0",
		atime:  UnknownTime,
		mtime:  UnknownTime,
		ctime:  UnknownTime,
		crtime: UnknownTime,
	}
}

// WithMD5 returns a copy of r with the MD5 checksum replaced
func (r Record) WithMD5(md5 string) Record {
	r.md5 = md5
	return r
}

// WithName returns a copy of r with the entry name replaced
func (r Record) WithName(name string) Record {
	r.name = name
	return r
}

// WithInode returns a copy of r with the inode string replaced
func (r Record) WithInode(inode string) Record {
	r.inode = inode
	return r
}

// WithMode returns a copy of r with the mode string replaced
func (r Record) WithMode(mode string) Record {
	r.mode = mode
	return r
}

// WithUID returns a copy of r with the owner uid replaced
func (r Record) WithUID(uid uint64) Record {
	r.uid = uid
	return r
}

// WithGID returns a copy of r with the group gid replaced
func (r Record) WithGID(gid uint64) Record {
	r.gid = gid
	return r
}

// WithSize returns a copy of r with the size in bytes replaced
func (r Record) WithSize(size uint64) Record {
	r.size = size
	return r
}

// WithATime returns a copy of r with the access time replaced
func (r Record) WithATime(atime int64) Record {
	r.atime = atime
	return r
}

// WithMTime returns a copy of r with the modification time replaced
func (r Record) WithMTime(mtime int64) Record {
	r.mtime = mtime
	return r
}

// WithCTime returns a copy of r with the metadata change time replaced
func (r Record) WithCTime(ctime int64) Record {
	r.ctime = ctime
	return r
}

// WithCRTime returns a copy of r with the creation time replaced
func (r Record) WithCRTime(crtime int64) Record {
	r.crtime = crtime
	return r
}

// MD5 returns the MD5 checksum field, "0" when not computed
func (r Record) MD5() string { return r.md5 }

// Name returns the file name, which may contain the separator
func (r Record) Name() string { return r.name }

// Inode returns the inode field as written by the producing tool
func (r Record) Inode() string { return r.inode }

// Mode returns the textual mode, e.g. "r/rrw-r--r--"
func (r Record) Mode() string { return r.mode }

// UID returns the owner user id
func (r Record) UID() uint64 { return r.uid }

// GID returns the owner group id
func (r Record) GID() uint64 { return r.gid }

// Size returns the file size in bytes
func (r Record) Size() uint64 { return r.size }

// ATime returns the access time in seconds, or UnknownTime
func (r Record) ATime() int64 { return r.atime }

// MTime returns the modification time in seconds, or UnknownTime
func (r Record) MTime() int64 { return r.mtime }

// CTime returns the metadata change time in seconds, or UnknownTime
func (r Record) CTime() int64 { return r.ctime }

// CRTime returns the creation time in seconds, or UnknownTime
func (r Record) CRTime() int64 { return r.crtime }

// Validate applies the range checks of Parse to a record built in code.
// Unsigned fields cannot be out of range, so only timestamps are checked.
func (r Record) Validate() error {
	if r.atime < UnknownTime {
		return ErrIllegalATime
	}
	if r.mtime < UnknownTime {
		return ErrIllegalMTime
	}
	if r.ctime < UnknownTime {
		return ErrIllegalCTime
	}
	if r.crtime < UnknownTime {
		return ErrIllegalCRTime
	}
	return nil
}

// String returns the canonical bodyfile line without a line terminator
func (r Record) String() string {
	var b strings.Builder
	b.Grow(len(r.md5) + len(r.name) + len(r.inode) + len(r.mode) + 7*8 + fieldCount)

	b.WriteString(r.md5)
	b.WriteByte(Separator)
	b.WriteString(r.name)
	b.WriteByte(Separator)
	b.WriteString(r.inode)
	b.WriteByte(Separator)
	b.WriteString(r.mode)

	var num [20]byte
	for _, u := range [...]uint64{r.uid, r.gid, r.size} {
		b.WriteByte(Separator)
		b.Write(strconv.AppendUint(num[:0], u, 10))
	}
	for _, t := range [...]int64{r.atime, r.mtime, r.ctime, r.crtime} {
		b.WriteByte(Separator)
		b.Write(strconv.AppendInt(num[:0], t, 10))
	}

	return b.String()
}

// jsonRecord is the JSON shape of a Record. Pointer fields let
// UnmarshalJSON tell absent keys from zero values.
type jsonRecord struct {
	MD5    *string `json:"md5,omitempty"`
	Name   *string `json:"name,omitempty"`
	Inode  *string `json:"inode,omitempty"`
	Mode   *string `json:"mode,omitempty"`
	UID    *uint64 `json:"uid,omitempty"`
	GID    *uint64 `json:"gid,omitempty"`
	Size   *uint64 `json:"size,omitempty"`
	ATime  *int64  `json:"atime,omitempty"`
	MTime  *int64  `json:"mtime,omitempty"`
	CTime  *int64  `json:"ctime,omitempty"`
	CRTime *int64  `json:"crtime,omitempty"`
}

// MarshalJSON encodes all eleven fields
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonRecord{
		MD5:    &r.md5,
		Name:   &r.name,
		Inode:  &r.inode,
		Mode:   &r.mode,
		UID:    &r.uid,
		GID:    &r.gid,
		Size:   &r.size,
		ATime:  &r.atime,
		MTime:  &r.mtime,
		CTime:  &r.ctime,
		CRTime: &r.crtime,
	})
}

// UnmarshalJSON decodes a record. Keys that are absent keep the values of New.
func (r *Record) UnmarshalJSON(data []byte) error {
	var j jsonRecord
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}

	rec := New()
	if j.MD5 != nil {
		rec = rec.WithMD5(*j.MD5)
	}
	if j.Name != nil {
		rec = rec.WithName(*j.Name)
	}
	if j.Inode != nil {
		rec = rec.WithInode(*j.Inode)
	}
	if j.Mode != nil {
		rec = rec.WithMode(*j.Mode)
	}
	if j.UID != nil {
		rec = rec.WithUID(*j.UID)
	}
	if j.GID != nil {
		rec = rec.WithGID(*j.GID)
	}
	if j.Size != nil {
		rec = rec.WithSize(*j.Size)
	}
	if j.ATime != nil {
		rec = rec.WithATime(*j.ATime)
	}
	if j.MTime != nil {
		rec = rec.WithMTime(*j.MTime)
	}
	if j.CTime != nil {
		rec = rec.WithCTime(*j.CTime)
	}
	if j.CRTime != nil {
		rec = rec.WithCRTime(*j.CRTime)
	}

	*r = rec
	return nil
}
