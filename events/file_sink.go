package events

import (
	"bufio"
	"fmt"
	"os"

	"github.com/juju/fslock"
)

var _ Sink = (*FileSink)(nil)

// FileSink appends one wire-encoded event per line to an append-only journal
// file. The lock file serializes writers across processes sharing a journal.
type FileSink struct {
	lockFile *fslock.Lock

	dataFile *os.File
}

const defaultLockFile = "/tmp/earthmind_events_lock"

// NewFileSink opens an append-only event journal.
// It takes two arguments: filename - path to a journal file, lockFilename (optional) - path to a lock file
func NewFileSink(filename string, lockFilename ...string) (*FileSink, error) {
	var (
		fs  FileSink
		err error
	)
	if len(lockFilename) > 0 {
		fs.lockFile = fslock.New(lockFilename[0])
	} else {
		fs.lockFile = fslock.New(defaultLockFile)
	}

	if fs.dataFile, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644); err != nil {
		return nil, fmt.Errorf("failed to open a journal file: %v", err)
	}
	return &fs, nil
}

func (fs *FileSink) Publish(event *EventLog) error {
	if err := fs.lockFile.Lock(); err != nil {
		return fmt.Errorf("failed to lock a file: %v", err)
	}
	defer fs.lockFile.Unlock()

	if _, err := fmt.Fprintln(fs.dataFile, event.String()); err != nil {
		return fmt.Errorf("failed to write an event to a journal file: %v", err)
	}
	return nil
}

// ReadLines returns the raw wire lines of the journal starting at the given
// offset. Meant for tooling and tests, not the hot path.
func (fs *FileSink) ReadLines(offset uint64) ([]string, error) {
	if _, err := fs.dataFile.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to seek to the start of a journal file: %v", err)
	}

	var lines []string
	scanner := bufio.NewScanner(fs.dataFile)
	for scanner.Scan() {
		if offset > 0 {
			offset--
			continue
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read a journal file: %v", err)
	}
	return lines, nil
}

func (fs *FileSink) Close() error {
	return fs.dataFile.Close()
}
