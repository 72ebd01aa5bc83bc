package bodyfile_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
)

// ExampleNew demonstrates building a record and formatting it
func ExampleNew() {
	r := bodyfile.New().
		WithMD5("4bad420da66571dac7f1ace995cc55c6").
		WithName("sample.txt").
		WithInode("87915-128-1").
		WithMode("r/rrwxrwxrwx").
		WithUID(1003).
		WithGID(500).
		WithSize(126378).
		WithATime(12341).
		WithMTime(12342).
		WithCTime(12343).
		WithCRTime(12344)

	fmt.Println(r)

	// Output:
	// 4bad420da66571dac7f1ace995cc55c6|sample.txt|87915-128-1|r/rrwxrwxrwx|1003|500|126378|12341|12342|12343|12344
}

// ExampleParse demonstrates parsing a line whose name contains separators
func ExampleParse() {
	r, err := bodyfile.Parse("0|ls -l |wc|1|2|3|4|5|6|7|8|9")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Name: %s\n", r.Name())
	fmt.Printf("Inode: %s\n", r.Inode())
	fmt.Printf("UID: %d\n", r.UID())
	fmt.Printf("CRTime: %d\n", r.CRTime())

	// Output:
	// Name: ls -l |wc
	// Inode: 1
	// UID: 3
	// CRTime: 9
}

// ExampleParse_errorHandling demonstrates reacting to a specific field error
func ExampleParse_errorHandling() {
	lines := []string{
		"",
		"0||0||-1|0|0|-1|-1|-1|-1",
		"0||0||0|0|0|-5|-1|-1|-1",
	}

	for _, line := range lines {
		_, err := bodyfile.Parse(line)
		switch {
		case errors.Is(err, bodyfile.ErrIllegalUID):
			fmt.Println("bad owner:", err)
		case err != nil:
			fmt.Println("rejected:", err)
		}
	}

	// Output:
	// rejected: WrongNumberOfColumns
	// bad owner: IllegalUid
	// rejected: IllegalATime
}
