package vertex

import (
	"encoding/binary"
	"slices"
	"testing"
)

// fakeDevice emulates the firmware side of the control protocol: a
// sixteen entry bucket table driven by requests, recording everything
// the host sends.
type fakeDevice struct {
	t *testing.T

	slots   [BucketCount]fakeSlot
	busy    map[uint8]int    // delete refusals left per bucket
	reject  map[Command]bool // commands answered without ack
	failing map[Command]error

	requests [][]byte
	bulk     [][]byte
	deletes  []uint8
	display  [][2]byte // mode and bucket of switch commands
	closed   bool
}

type fakeSlot struct {
	occupied bool
	offset   uint16
	size     uint16
}

func newFakeDevice(t *testing.T) *fakeDevice {
	return &fakeDevice{
		t:       t,
		busy:    make(map[uint8]int),
		reject:  make(map[Command]bool),
		failing: make(map[Command]error),
	}
}

func (f *fakeDevice) store(index uint8, offset, size uint16) {
	f.slots[index] = fakeSlot{occupied: true, offset: offset, size: size}
}

func (f *fakeDevice) commandLog() []Command {
	log := make([]Command, 0, len(f.requests))
	for _, r := range f.requests {
		log = append(log, Command{r[0], r[1]})
	}
	return log
}

func (f *fakeDevice) Request(expect, payload []byte) ([]byte, error) {
	f.requests = append(f.requests, slices.Clone(payload))

	command := Command{payload[0], payload[1]}
	if err := f.failing[command]; err != nil {
		return nil, err
	}

	response := make([]byte, 64)
	response[0], response[1] = payload[0]+1, payload[1]

	switch command {
	case CommandQueryBucket:
		index := payload[2]
		if s := f.slots[index]; s.occupied {
			response[14] = index + 1
			response[15] = 0x03
			binary.LittleEndian.PutUint16(response[16:18], s.offset)
			binary.LittleEndian.PutUint16(response[18:20], s.size)
		}

	case CommandDeleteBucket:
		index := payload[2]
		f.deletes = append(f.deletes, index)
		if f.busy[index] > 0 {
			f.busy[index]--
			break
		}
		f.slots[index] = fakeSlot{}
		response[14] = ackOK

	case CommandSetupBucket:
		if f.reject[command] {
			break
		}
		f.store(payload[2],
			binary.LittleEndian.Uint16(payload[4:6]),
			binary.LittleEndian.Uint16(payload[6:8]))
		response[14] = ackOK

	case CommandSwitchDisplay:
		if f.reject[command] {
			break
		}
		f.display = append(f.display, [2]byte{payload[2], payload[3]})
		response[14] = ackOK

	case CommandStatus:
		response[15] = 33
		response[16] = 7
		binary.LittleEndian.PutUint16(response[17:19], 2150)
		response[19] = 60
		binary.LittleEndian.PutUint16(response[20:22], 1280)
		response[22] = 45

	case CommandFirmwareInfo:
		response[17], response[18], response[19] = 2, 1, 8

	default:
		if f.reject[command] {
			break
		}
		response[14] = ackOK
	}

	if !slices.Equal(response[:len(expect)], expect) {
		f.t.Fatalf("request % x expects % x, fake answers % x", payload, expect, response[:2])
	}

	return response, nil
}

func (f *fakeDevice) BulkWrite(p []byte) error {
	f.bulk = append(f.bulk, slices.Clone(p))
	return nil
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}
