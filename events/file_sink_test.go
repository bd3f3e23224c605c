package events

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSink(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	sink, err := NewFileSink(filepath.Join(dir, "events.log"), filepath.Join(dir, "events.lock"))
	req.NoError(err)
	defer sink.Close()

	req.NoError(sink.Publish(NewRegisterMiner("miner1.near")))
	req.NoError(sink.Publish(NewRegisterValidator("validator1.near")))
	req.NoError(sink.Publish(NewRegisterRequest(testRequestID)))

	lines, err := sink.ReadLines(0)
	req.NoError(err)
	req.Len(lines, 3)
	req.Equal(NewRegisterMiner("miner1.near").String(), lines[0])
	req.Equal(NewRegisterValidator("validator1.near").String(), lines[1])

	lines, err = sink.ReadLines(2)
	req.NoError(err)
	req.Len(lines, 1)
	req.Equal(NewRegisterRequest(testRequestID).String(), lines[0])
}
